// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/PolicyLens/pkg/validation"
	"github.com/AleutianAI/PolicyLens/services/policyscan/datatypes"
	"github.com/AleutianAI/PolicyLens/services/policyscan/storage"
)

// GetAttributeSeverity returns the live severity map. An unseeded store
// yields an empty map, not an error.
func GetAttributeSeverity(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		mapping, err := store.GetSeverityMap()
		if err != nil {
			slog.Error("failed to read severity map", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage backend unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"attribute_severity": mapping})
	}
}

// SeedAttributeSeverity overwrites the severity map with the built-in
// defaults and returns the seeded map. Idempotent.
func SeedAttributeSeverity(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		mapping, err := store.SeedSeverityDefaults()
		if err != nil {
			slog.Error("failed to seed severity map", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage backend unavailable"})
			return
		}
		slog.Info("severity map seeded", "attributes", len(mapping))
		c.JSON(http.StatusOK, gin.H{"attribute_severity": mapping})
	}
}

type PutSeverityRequest struct {
	AttributeSeverity datatypes.SeverityMap `json:"attribute_severity"`
}

// PutAttributeSeverity replaces the whole severity map. Malformed entries are
// coerced to the fallback by the store rather than rejected.
func PutAttributeSeverity(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PutSeverityRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if len(req.AttributeSeverity) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "attribute_severity must not be empty"})
			return
		}
		if err := store.SetSeverityMap(req.AttributeSeverity); err != nil {
			slog.Error("failed to write severity map", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage backend unavailable"})
			return
		}
		mapping, err := store.GetSeverityMap()
		if err != nil {
			slog.Error("failed to read back severity map", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage backend unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"attribute_severity": mapping})
	}
}

// GetSiteAttributes returns the stored attribute list for one domain, most
// sensitive first. Unknown domains return an empty list.
func GetSiteAttributes(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain := c.Param("domain")
		if err := validation.ValidateDomain(domain); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		attrs, err := store.GetSiteAttributes(domain)
		if err != nil {
			slog.Error("failed to read site attributes", "domain", domain, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage backend unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"domain": domain, "attributes": attrs})
	}
}
