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
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/PolicyLens/pkg/validation"
	"github.com/AleutianAI/PolicyLens/services/policyscan/fetch"
	"github.com/AleutianAI/PolicyLens/services/policyscan/storage"
)

// HealthCheck reports liveness and the configured environment.
func HealthCheck(environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"environment": environment,
		})
	}
}

// HandleFetchPage fetches one URL and reports the extracted text length.
// Debug endpoint for checking what the extraction pipeline would see.
func HandleFetchPage(fetcher fetch.PageFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		pageURL := c.Query("url")
		if err := validation.ValidateURL(pageURL); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		text, err := fetcher.FetchPageText(c.Request.Context(), pageURL)
		if err != nil {
			slog.Error("page fetch failed", "url", pageURL, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"url":    pageURL,
			"length": len(text),
		})
	}
}

type KVSetRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// HandleKVSet writes an arbitrary key/value pair into the backing store.
// Administrative escape hatch; there is deliberately no read counterpart.
func HandleKVSet(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req KVSetRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.Key == "" || len(req.Value) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "key and value are required"})
			return
		}
		if err := store.SetRaw(req.Key, req.Value); err != nil {
			slog.Error("kv write failed", "key", req.Key, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage backend unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "key": req.Key})
	}
}
