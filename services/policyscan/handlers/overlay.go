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
	"github.com/AleutianAI/PolicyLens/services/policyscan/observability"
	"github.com/AleutianAI/PolicyLens/services/policyscan/summary"
)

// HandleTopRisks serves the overlay payload: top red-severity attributes for
// the requested domain with retention and mitigation context when a cached
// analysis exists.
func HandleTopRisks(summarizer *summary.Summarizer, metrics *observability.PipelineMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain := c.Query("domain")
		if err := validation.ValidateDomain(domain); err != nil {
			metrics.RequestsTotal.WithLabelValues("top_risks", "client_error").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := summarizer.Summarize(c.Request.Context(), domain)
		if err != nil {
			metrics.RequestsTotal.WithLabelValues("top_risks", "error").Inc()
			slog.Error("overlay summary failed", "domain", domain, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage backend unavailable"})
			return
		}

		metrics.RequestsTotal.WithLabelValues("top_risks", "ok").Inc()
		c.JSON(http.StatusOK, result)
	}
}
