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

	"github.com/AleutianAI/PolicyLens/services/policyscan/datatypes"
)

// SeedSeverityDefaults overwrites the entire stored severity map with the
// fixed default table. No merge. Idempotent: two consecutive calls store and
// return the identical map. Returns the resulting map as read back.
func (s *Store) SeedSeverityDefaults() (datatypes.SeverityMap, error) {
	if err := s.SetSeverityMap(datatypes.DefaultAttributeSeverity); err != nil {
		return nil, err
	}
	return s.GetSeverityMap()
}

// GetSeverityMap returns the current attribute -> SeverityEntry map.
//
// Returns an empty map (not an error) when nothing has been seeded. Legacy
// stored values (a bare color string instead of a structured entry) are
// upgraded on read: the color is kept if valid, and the sensitivity level
// comes from the default table, falling back to {green, 1} for attributes
// the defaults don't know.
func (s *Store) GetSeverityMap() (datatypes.SeverityMap, error) {
	raw, found, err := s.getRaw(severityKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return datatypes.SeverityMap{}, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode severity map: %v", ErrStoreUnavailable, err)
	}

	out := make(datatypes.SeverityMap, len(entries))
	for attr, value := range entries {
		out[attr] = decodeSeverityEntry(attr, value)
	}
	return out, nil
}

// decodeSeverityEntry parses one stored value, upgrading legacy bare-string
// colors to full entries.
func decodeSeverityEntry(attr string, value json.RawMessage) datatypes.SeverityEntry {
	var entry datatypes.SeverityEntry
	if err := json.Unmarshal(value, &entry); err == nil && entry.Color.IsValid() && entry.SensitivityLevel > 0 {
		return entry
	}

	var legacyColor string
	if err := json.Unmarshal(value, &legacyColor); err == nil {
		upgraded := datatypes.DefaultEntry(attr)
		if color := datatypes.SeverityColor(legacyColor); color.IsValid() {
			upgraded.Color = color
		}
		return upgraded
	}

	return datatypes.DefaultEntry(attr)
}

// SetSeverityMap fully replaces the stored map. Lenient write policy: entries
// with an unknown color or a non-positive sensitivity level are coerced to
// {green, 1} rather than rejected — callers are trusted.
func (s *Store) SetSeverityMap(mapping datatypes.SeverityMap) error {
	cleaned := make(datatypes.SeverityMap, len(mapping))
	for attr, entry := range mapping {
		if !entry.Color.IsValid() || entry.SensitivityLevel < 1 {
			entry = datatypes.FallbackEntry
		}
		cleaned[attr] = entry
	}

	payload, err := json.Marshal(cleaned)
	if err != nil {
		return fmt.Errorf("encode severity map: %w", err)
	}
	return s.setKey(severityKey, payload)
}
