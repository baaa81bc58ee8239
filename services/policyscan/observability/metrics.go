// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the policyscan
// service: request counts, cache effectiveness, and background extraction
// unit outcomes. Metrics are exposed via /metrics. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace  = "policylens"
	pipelineSubsystem = "pipeline"
)

// PipelineMetrics holds all Prometheus metrics for the analysis pipeline.
// Initialize once at startup via NewPipelineMetrics().
type PipelineMetrics struct {
	// RequestsTotal counts HTTP requests by endpoint and status.
	// Labels: endpoint (process, top_risks, severity, ...), status (ok, client_error, error)
	RequestsTotal *prometheus.CounterVec

	// CacheLookupsTotal counts analysis cache lookups.
	// Labels: result (hit, miss)
	CacheLookupsTotal *prometheus.CounterVec

	// BackgroundUnitsTotal counts background extraction units by outcome.
	// Labels: outcome (completed, fetch_error, extract_error, store_error)
	BackgroundUnitsTotal *prometheus.CounterVec

	// BackgroundUnitDurationSeconds measures end-to-end background unit time.
	BackgroundUnitDurationSeconds prometheus.Histogram

	// ActiveBackgroundUnits tracks currently running background units.
	ActiveBackgroundUnits prometheus.Gauge
}

// DefaultMetrics is the singleton used by the service. Tests construct their
// own instances against private registries.
var DefaultMetrics = NewPipelineMetrics(nil)

// NewPipelineMetrics creates and registers the pipeline metrics.
//
// A nil registerer uses the default Prometheus registry; tests pass their
// own to avoid duplicate-registration panics across cases.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}
	return &PipelineMetrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: pipelineSubsystem,
			Name:      "requests_total",
			Help:      "HTTP requests by endpoint and status.",
		}, []string{"endpoint", "status"}),
		CacheLookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: pipelineSubsystem,
			Name:      "cache_lookups_total",
			Help:      "Analysis cache lookups by result.",
		}, []string{"result"}),
		BackgroundUnitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: pipelineSubsystem,
			Name:      "background_units_total",
			Help:      "Background extraction units by outcome.",
		}, []string{"outcome"}),
		BackgroundUnitDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: pipelineSubsystem,
			Name:      "background_unit_duration_seconds",
			Help:      "End-to-end duration of background extraction units.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		ActiveBackgroundUnits: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: pipelineSubsystem,
			Name:      "active_background_units",
			Help:      "Background extraction units currently running.",
		}),
	}
}
