// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package summary builds the compact overlay payload for a domain: the top
// red-severity attributes with category dedup, the retention summary, and
// mitigation advice. The overlay shows at most three risks, so near-duplicate
// attributes from the same category (say, precise_gps and wifi_cell) would
// waste two of the three slots on one story.
package summary

import (
	"context"
	"log/slog"
	"strings"

	"github.com/AleutianAI/PolicyLens/pkg/urlkit"
	"github.com/AleutianAI/PolicyLens/services/policyscan/datatypes"
	"github.com/AleutianAI/PolicyLens/services/policyscan/storage"
)

// maxTopRisks caps the attribute list shown in the overlay.
const maxTopRisks = 3

// maxMitigations caps mitigation entries; the overlay only renders two.
const maxMitigations = 2

// TopRisk is one red-severity attribute selected for the overlay.
type TopRisk struct {
	Name             string `json:"name"`
	Attribute        string `json:"attribute"`
	SensitivityLevel int    `json:"sensitivity_level"`
	Evidence         string `json:"evidence,omitempty"`
	Explanation      string `json:"explanation,omitempty"`
}

// Mitigation pairs a selected risk with actionable advice.
type Mitigation struct {
	Title  string `json:"title"`
	Advice string `json:"advice"`
}

// RiskSummary is the overlay payload for one domain.
type RiskSummary struct {
	Domain                string       `json:"domain"`
	TopHighRiskAttributes []TopRisk    `json:"top_high_risk_attributes"`
	DataRetentionPolicy   string       `json:"data_retention_policy"`
	Mitigations           []Mitigation `json:"mitigations"`
	HasCachedAnalysis     bool         `json:"has_cached_analysis"`
}

// Summarizer reads the site attribute store and (best effort) the analysis
// cache to assemble overlay summaries.
type Summarizer struct {
	store *storage.Store
}

// NewSummarizer returns a Summarizer over the given store.
func NewSummarizer(store *storage.Store) *Summarizer {
	return &Summarizer{store: store}
}

// Summarize builds the overlay payload for a domain.
//
// Attribute selection walks the site's attributes in descending sensitivity,
// keeps only red-severity ones, and admits at most one attribute per
// collection category so three slots cover three distinct risks. A store
// failure reading the analysis cache degrades to an un-enriched summary
// instead of failing the request; a failure reading the attribute store is a
// real error.
func (s *Summarizer) Summarize(ctx context.Context, rawDomain string) (*RiskSummary, error) {
	domain := urlkit.NormalizeDomain(rawDomain)

	attrs, err := s.store.GetSiteAttributes(domain)
	if err != nil {
		return nil, err
	}

	analysis, hasAnalysis := s.lookupAnalysis(domain)

	seenCategories := make(map[datatypes.Category]bool)
	topRisks := make([]TopRisk, 0, maxTopRisks)
	for _, attr := range attrs {
		if len(topRisks) == maxTopRisks {
			break
		}
		if attr.Color != datatypes.ColorRed {
			continue
		}
		if cat, ok := datatypes.AttributeCategory(attr.Attribute); ok {
			if seenCategories[cat] {
				continue
			}
			seenCategories[cat] = true
		}
		risk := TopRisk{
			Name:             titleCase(attr.Attribute),
			Attribute:        attr.Attribute,
			SensitivityLevel: attr.SensitivityLevel,
		}
		if hasAnalysis {
			risk.Evidence, risk.Explanation, _ = analysis.DataCollection.EvidenceFor(attr.Attribute)
		}
		topRisks = append(topRisks, risk)
	}

	result := &RiskSummary{
		Domain:                domain,
		TopHighRiskAttributes: topRisks,
		Mitigations:           buildMitigations(analysis, topRisks),
		HasCachedAnalysis:     hasAnalysis,
	}
	if hasAnalysis {
		result.DataRetentionPolicy = analysis.Retention.RetentionExplanation
	}
	return result, nil
}

// lookupAnalysis fetches the cached analysis for a single-domain request key.
// Store errors degrade to a cache miss so the overlay still renders.
func (s *Summarizer) lookupAnalysis(domain string) (*datatypes.PolicyAnalysis, bool) {
	analysis, found, err := s.store.GetAnalysis(domain)
	if err != nil {
		slog.Warn("analysis cache unavailable; serving un-enriched summary",
			"domain", domain, "error", err)
		return nil, false
	}
	return analysis, found
}

// buildMitigations emits one entry per selected risk, capped at two. The
// entry count depends only on the selection; missing analysis text leaves the
// advice empty rather than dropping the entry.
func buildMitigations(analysis *datatypes.PolicyAnalysis, risks []TopRisk) []Mitigation {
	mitigations := make([]Mitigation, 0, maxMitigations)
	for _, risk := range risks[:min(len(risks), maxMitigations)] {
		var advice string
		if analysis != nil {
			_, _, advice = analysis.DataCollection.EvidenceFor(risk.Attribute)
		}
		mitigations = append(mitigations, Mitigation{Title: risk.Name, Advice: advice})
	}
	return mitigations
}

// titleCase renders an attribute key for display: "financial_account"
// becomes "Financial Account".
func titleCase(attribute string) string {
	words := strings.Split(attribute, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
