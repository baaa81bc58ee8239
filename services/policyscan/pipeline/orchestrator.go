// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline implements the extraction orchestrator: the
// request-deduplication and background-processing state machine around the
// expensive LLM extraction call.
//
// Request protocol (poll-until-ready): a cache hit returns the cached
// analysis synchronously; a miss returns a processing indicator immediately
// and runs the fetch+extract+store unit in a detached goroutine. The caller
// repeats the same request until it hits the cache. Background failures are
// logged and abort the unit without persisting anything, so the next
// identical request starts over from scratch.
//
// Two concurrent misses for the same cache key run two independent units and
// the last cache write wins; units are not deduplicated.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/PolicyLens/pkg/urlkit"
	"github.com/AleutianAI/PolicyLens/services/policyscan/datatypes"
	"github.com/AleutianAI/PolicyLens/services/policyscan/extract"
	"github.com/AleutianAI/PolicyLens/services/policyscan/fetch"
	"github.com/AleutianAI/PolicyLens/services/policyscan/observability"
	"github.com/AleutianAI/PolicyLens/services/policyscan/storage"
)

// ErrEmptyURLList is the client-input error for a request with no URLs. No
// cache key is computed and nothing is persisted.
var ErrEmptyURLList = errors.New("url list must not be empty")

// Outcome is the caller-visible result of ProcessDomains. Exactly one of
// Analysis (cache hit) or Processing (background unit started) is set.
type Outcome struct {
	Analysis   *datatypes.PolicyAnalysis
	Processing bool
	CacheKey   string
}

// Orchestrator converts URL lists into cached risk profiles without blocking
// callers on the extraction call.
type Orchestrator struct {
	store     *storage.Store
	fetcher   fetch.PageFetcher
	extractor extract.Extractor
	metrics   *observability.PipelineMetrics
}

// NewOrchestrator wires the pipeline's collaborators together. A nil metrics
// argument uses the default registry.
func NewOrchestrator(store *storage.Store, fetcher fetch.PageFetcher, extractor extract.Extractor, metrics *observability.PipelineMetrics) *Orchestrator {
	if metrics == nil {
		metrics = observability.DefaultMetrics
	}
	return &Orchestrator{
		store:     store,
		fetcher:   fetcher,
		extractor: extractor,
		metrics:   metrics,
	}
}

// ProcessDomains resolves a URL list against the analysis cache.
//
// Returns ErrEmptyURLList for an empty list, the cached analysis on a hit,
// or a processing Outcome on a miss after spawning the background unit. A
// backing-store failure on the synchronous read path surfaces as an error
// wrapping storage.ErrStoreUnavailable.
func (o *Orchestrator) ProcessDomains(ctx context.Context, urls []string) (*Outcome, error) {
	urls = compactURLs(urls)
	if len(urls) == 0 {
		return nil, ErrEmptyURLList
	}

	cacheKey := urlkit.CacheKey(urls)
	analysis, found, err := o.store.GetAnalysis(cacheKey)
	if err != nil {
		return nil, err
	}
	if found {
		o.metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		slog.Info("analysis cache hit", "cache_key", cacheKey)
		return &Outcome{Analysis: analysis, CacheKey: cacheKey}, nil
	}

	o.metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	unitID := uuid.NewString()
	slog.Info("analysis cache miss; starting background unit",
		"cache_key", cacheKey, "unit_id", unitID, "urls", len(urls))

	// Detached from the request context: the unit outlives the request and
	// has no cancellation mechanism.
	go o.runUnit(context.Background(), unitID, cacheKey, urls)

	return &Outcome{Processing: true, CacheKey: cacheKey}, nil
}

// runUnit performs the full fetch+extract+store cycle for one cache miss.
// Any failure aborts the unit without writing partial state.
func (o *Orchestrator) runUnit(ctx context.Context, unitID, cacheKey string, urls []string) {
	o.metrics.ActiveBackgroundUnits.Inc()
	start := time.Now()
	outcome := "completed"
	defer func() {
		o.metrics.ActiveBackgroundUnits.Dec()
		o.metrics.BackgroundUnitsTotal.WithLabelValues(outcome).Inc()
		o.metrics.BackgroundUnitDurationSeconds.Observe(time.Since(start).Seconds())
		slog.Info("background unit finished",
			"unit_id", unitID, "cache_key", cacheKey, "outcome", outcome,
			"duration", time.Since(start))
	}()

	docs := make([]extract.LabeledDocument, 0, len(urls))
	for _, pageURL := range urls {
		text, err := o.fetcher.FetchPageText(ctx, pageURL)
		if err != nil {
			// One failed fetch discards the whole unit; nothing partial is cached.
			slog.Error("page fetch failed; aborting background unit",
				"unit_id", unitID, "cache_key", cacheKey, "url", pageURL, "error", err)
			outcome = "fetch_error"
			return
		}
		docs = append(docs, extract.LabeledDocument{Source: pageURL, Text: text})
	}

	analysis, err := o.extractor.Extract(ctx, docs)
	if err != nil {
		slog.Error("extraction failed; aborting background unit",
			"unit_id", unitID, "cache_key", cacheKey, "error", err)
		outcome = "extract_error"
		return
	}

	if err := o.store.PutAnalysis(cacheKey, analysis); err != nil {
		slog.Error("failed to cache analysis",
			"unit_id", unitID, "cache_key", cacheKey, "error", err)
		outcome = "store_error"
		return
	}

	attributes := analysis.DataCollection.CollectAttributes()
	for _, domain := range urlkit.RootDomains(urls) {
		if err := o.store.SetSiteAttributes(domain, attributes); err != nil {
			slog.Error("failed to store site attributes",
				"unit_id", unitID, "cache_key", cacheKey, "domain", domain, "error", err)
			outcome = "store_error"
			return
		}
	}
}

// compactURLs drops blank entries while preserving order.
func compactURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			out = append(out, strings.TrimSpace(u))
		}
	}
	return out
}
