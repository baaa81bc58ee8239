// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package extract turns fetched policy texts into a validated PolicyAnalysis
// via an LLM call with structured-output enforcement.
//
// Retry policy: only a structurally empty result is retried (up to
// MaxAttempts). A response that fails JSON decoding or schema validation is
// garbage, not emptiness — retrying it rarely helps and hides model drift,
// so it surfaces immediately as an extraction failure.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/PolicyLens/pkg/urlkit"
	"github.com/AleutianAI/PolicyLens/services/policyscan/datatypes"
)

// MaxAttempts bounds retries of structurally empty extraction results.
const MaxAttempts = 3

// LabeledDocument is one fetched page: the source URL and its plain text.
type LabeledDocument struct {
	Source string
	Text   string
}

// Extractor is the extraction collaborator contract consumed by the
// pipeline: all documents in, one PolicyAnalysis out.
type Extractor interface {
	Extract(ctx context.Context, docs []LabeledDocument) (*datatypes.PolicyAnalysis, error)
}

// LLMExtractor implements Extractor on top of a Client.
type LLMExtractor struct {
	client      Client
	maxAttempts int
}

// NewLLMExtractor wraps an LLM client in the extraction contract.
func NewLLMExtractor(client Client) *LLMExtractor {
	return &LLMExtractor{client: client, maxAttempts: MaxAttempts}
}

// Extract runs the extraction prompt over all documents and decodes the
// response into a validated PolicyAnalysis.
func (e *LLMExtractor) Extract(ctx context.Context, docs []LabeledDocument) (*datatypes.PolicyAnalysis, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents to extract from")
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, formatDocuments(docs))

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		slog.Info("LLM extraction attempt", "attempt", attempt, "max", e.maxAttempts, "documents", len(docs))

		raw, err := e.client.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("llm call failed: %w", err)
		}

		trimmed := stripCodeFence(raw)
		if trimmed == "" {
			slog.Warn("LLM returned an empty response", "attempt", attempt)
			continue
		}

		var analysis datatypes.PolicyAnalysis
		if err := json.Unmarshal([]byte(trimmed), &analysis); err != nil {
			return nil, fmt.Errorf("llm response is not valid JSON: %w", err)
		}

		if analysis.Metadata.Domain == "" {
			analysis.Metadata.Domain = urlkit.RootDomain(docs[0].Source)
		}

		if err := analysis.Validate(); err != nil {
			return nil, fmt.Errorf("llm response failed schema validation: %w", err)
		}

		if analysis.IsEmpty() {
			slog.Warn("LLM returned a structurally empty analysis", "attempt", attempt)
			continue
		}
		return &analysis, nil
	}

	return nil, fmt.Errorf("llm returned structurally empty output after %d attempts", e.maxAttempts)
}

// formatDocuments labels each document with its index and source URL so the
// model can attribute evidence, mirroring the cache key's per-URL grouping.
func formatDocuments(docs []LabeledDocument) string {
	parts := make([]string, 0, len(docs))
	for i, doc := range docs {
		parts = append(parts, fmt.Sprintf("--- Document %d (source: %s) ---\n%s", i+1, doc.Source, strings.TrimSpace(doc.Text)))
	}
	return strings.Join(parts, "\n\n")
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its JSON in one, and trims whitespace.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
