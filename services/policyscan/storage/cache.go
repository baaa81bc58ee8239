// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/PolicyLens/services/policyscan/datatypes"
)

func cacheStorageKey(cacheKey string) string {
	return analysisPrefix + cacheKey
}

// PutAnalysis stores a full extraction result under the canonical cache key.
// The record is validated before the write; a partial or malformed analysis
// is never cached. An existing entry is overwritten (last write wins).
func (s *Store) PutAnalysis(cacheKey string, analysis *datatypes.PolicyAnalysis) error {
	if err := analysis.Validate(); err != nil {
		return fmt.Errorf("refusing to cache invalid analysis for %s: %w", cacheKey, err)
	}
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis for %s: %w", cacheKey, err)
	}
	return s.setKey(cacheStorageKey(cacheKey), payload)
}

// GetAnalysis reads the cached extraction result for a cache key.
//
// The bool reports whether a usable entry was found. A stored record that no
// longer parses or fails schema validation is logged and reported as a miss
// rather than surfaced as drifted data. The error is non-nil only for
// backing-store failures.
func (s *Store) GetAnalysis(cacheKey string) (*datatypes.PolicyAnalysis, bool, error) {
	raw, found, err := s.getRaw(cacheStorageKey(cacheKey))
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	var analysis datatypes.PolicyAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		slog.Warn("cached analysis no longer parses; treating as miss", "cache_key", cacheKey, "error", err)
		return nil, false, nil
	}
	if err := analysis.Validate(); err != nil {
		slog.Warn("cached analysis fails schema validation; treating as miss", "cache_key", cacheKey, "error", err)
		return nil, false, nil
	}
	return &analysis, true, nil
}
