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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/PolicyLens/pkg/validation"
	"github.com/AleutianAI/PolicyLens/services/policyscan/observability"
	"github.com/AleutianAI/PolicyLens/services/policyscan/pipeline"
	"github.com/AleutianAI/PolicyLens/services/policyscan/storage"
)

type TosProcessorRequest struct {
	URLs []string `json:"urls"`
}

// HandleTosProcessor runs the poll-until-ready protocol: a cache hit returns
// the analysis with 200, a miss starts a background unit and returns 202. The
// extension polls this endpoint with the same body until it gets a 200.
func HandleTosProcessor(orch *pipeline.Orchestrator, metrics *observability.PipelineMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TosProcessorRequest
		if err := c.BindJSON(&req); err != nil {
			metrics.RequestsTotal.WithLabelValues("tos_processor", "client_error").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := validation.ValidateURLs(req.URLs); err != nil {
			metrics.RequestsTotal.WithLabelValues("tos_processor", "client_error").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		outcome, err := orch.ProcessDomains(c.Request.Context(), req.URLs)
		if err != nil {
			switch {
			case errors.Is(err, pipeline.ErrEmptyURLList):
				metrics.RequestsTotal.WithLabelValues("tos_processor", "client_error").Inc()
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, storage.ErrStoreUnavailable):
				metrics.RequestsTotal.WithLabelValues("tos_processor", "error").Inc()
				slog.Error("analysis cache unavailable", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage backend unavailable"})
			default:
				metrics.RequestsTotal.WithLabelValues("tos_processor", "error").Inc()
				slog.Error("tos processing failed", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
			}
			return
		}

		metrics.RequestsTotal.WithLabelValues("tos_processor", "ok").Inc()
		if outcome.Processing {
			c.JSON(http.StatusAccepted, gin.H{
				"status":    "processing",
				"cache_key": outcome.CacheKey,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "complete",
			"analysis": outcome.Analysis,
		})
	}
}
