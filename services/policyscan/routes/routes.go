// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/PolicyLens/services/policyscan/fetch"
	"github.com/AleutianAI/PolicyLens/services/policyscan/handlers"
	"github.com/AleutianAI/PolicyLens/services/policyscan/observability"
	"github.com/AleutianAI/PolicyLens/services/policyscan/pipeline"
	"github.com/AleutianAI/PolicyLens/services/policyscan/storage"
	"github.com/AleutianAI/PolicyLens/services/policyscan/summary"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Store       *storage.Store
	Fetcher     fetch.PageFetcher
	Orch        *pipeline.Orchestrator
	Summarizer  *summary.Summarizer
	Metrics     *observability.PipelineMetrics
	Environment string
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck(deps.Environment))
		api.POST("/tos_processor", handlers.HandleTosProcessor(deps.Orch, deps.Metrics))
		api.GET("/overlay_summary/top_risks", handlers.HandleTopRisks(deps.Summarizer, deps.Metrics))
		api.GET("/fetch_page", handlers.HandleFetchPage(deps.Fetcher))
		api.POST("/kv", handlers.HandleKVSet(deps.Store))

		severity := api.Group("/attribute_severity")
		{
			severity.GET("", handlers.GetAttributeSeverity(deps.Store))
			severity.PUT("", handlers.PutAttributeSeverity(deps.Store))
			severity.POST("/seed", handlers.SeedAttributeSeverity(deps.Store))
			severity.GET("/sites/:domain/attributes", handlers.GetSiteAttributes(deps.Store))
		}
	}
}
