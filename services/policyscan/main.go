// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/PolicyLens/services/policyscan/extract"
	"github.com/AleutianAI/PolicyLens/services/policyscan/fetch"
	"github.com/AleutianAI/PolicyLens/services/policyscan/observability"
	"github.com/AleutianAI/PolicyLens/services/policyscan/pipeline"
	"github.com/AleutianAI/PolicyLens/services/policyscan/routes"
	"github.com/AleutianAI/PolicyLens/services/policyscan/storage"
	"github.com/AleutianAI/PolicyLens/services/policyscan/summary"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	port := os.Getenv("POLICYSCAN_PORT")
	if port == "" {
		port = "12300"
	}
	dataDir := os.Getenv("POLICYSCAN_DATA_DIR")
	if dataDir == "" {
		dataDir = "/var/lib/policylens/badger"
		slog.Warn("POLICYSCAN_DATA_DIR not set, using default", "path", dataDir)
	}
	environment := os.Getenv("POLICYSCAN_ENV")
	if environment == "" {
		environment = "development"
	}

	store, err := storage.Open(storage.DefaultConfig(dataDir))
	if err != nil {
		log.Fatalf("FATAL: could not open the attribute store at %s: %v", dataDir, err)
	}
	defer store.Close()

	// Seed a fresh store so severities are served immediately. An already
	// populated map is left alone; re-seeding is explicit via the API.
	mapping, err := store.GetSeverityMap()
	if err != nil {
		log.Fatalf("FATAL: could not read the severity map: %v", err)
	}
	if len(mapping) == 0 {
		if _, err := store.SeedSeverityDefaults(); err != nil {
			log.Fatalf("FATAL: could not seed the severity map: %v", err)
		}
		slog.Info("seeded the default severity map")
	}

	llmClient, err := extract.NewOpenAIClient()
	if err != nil {
		log.Fatalf("FATAL: could not initialize the LLM client: %v", err)
	}

	metrics := observability.DefaultMetrics
	fetcher := fetch.NewHTTPFetcher()
	orch := pipeline.NewOrchestrator(store, fetcher, extract.NewLLMExtractor(llmClient), metrics)

	router := gin.Default()
	routes.SetupRoutes(router, routes.Deps{
		Store:       store,
		Fetcher:     fetcher,
		Orch:        orch,
		Summarizer:  summary.NewSummarizer(store),
		Metrics:     metrics,
		Environment: environment,
	})

	slog.Info("starting the policyscan server", "port", port, "environment", environment)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
