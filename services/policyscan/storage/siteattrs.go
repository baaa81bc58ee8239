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
	"sort"

	"github.com/AleutianAI/PolicyLens/services/policyscan/datatypes"
)

// scoredMember is one stored member of a per-site attribute set. Score is the
// attribute's sensitivity level at the time of the last write: a snapshot,
// never updated retroactively when the severity map changes.
type scoredMember struct {
	Attribute string `json:"attribute"`
	Score     int    `json:"score"`
}

func siteKey(domain string) string {
	return siteAttrsPrefix + domain
}

// SetSiteAttributes replaces the domain's entire attribute set in one
// delete+write with the given attribute names, scored by their current
// sensitivity level.
//
// Scores come from the live severity map, falling back to the default table
// when the live map is empty. Attributes unknown to both are skipped — a
// score is never fabricated. An empty input list deletes the set; that is
// not an error.
func (s *Store) SetSiteAttributes(domain string, attributes []string) error {
	if len(attributes) == 0 {
		return s.deleteKey(siteKey(domain))
	}

	severityMap, err := s.GetSeverityMap()
	if err != nil {
		return err
	}
	if len(severityMap) == 0 {
		slog.Warn("severity map is empty; falling back to defaults for scoring", "domain", domain)
		severityMap = datatypes.DefaultAttributeSeverity
	}

	members := make([]scoredMember, 0, len(attributes))
	seen := map[string]struct{}{}
	for _, attr := range attributes {
		if _, dup := seen[attr]; dup {
			continue
		}
		seen[attr] = struct{}{}

		entry, ok := severityMap[attr]
		if !ok {
			entry, ok = datatypes.DefaultAttributeSeverity[attr]
		}
		if !ok {
			slog.Warn("skipping attribute with no known severity", "domain", domain, "attribute", attr)
			continue
		}
		members = append(members, scoredMember{Attribute: attr, Score: entry.SensitivityLevel})
	}

	if len(members) == 0 {
		return s.deleteKey(siteKey(domain))
	}

	payload, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encode site attributes for %s: %w", domain, err)
	}
	if err := s.setKey(siteKey(domain), payload); err != nil {
		return err
	}
	slog.Info("stored site attributes", "domain", domain, "count", len(members))
	return nil
}

// GetSiteAttributes returns the domain's attributes in descending
// sensitivity order (highest first). Ties are broken by reverse member name
// order; callers must not rely on intra-tie ordering. Colors are resolved
// against the live severity map at read time (defaults when empty, green
// when unknown). Empty slice, not an error, for unknown domains.
func (s *Store) GetSiteAttributes(domain string) ([]datatypes.SiteAttribute, error) {
	raw, found, err := s.getRaw(siteKey(domain))
	if err != nil {
		return nil, err
	}
	if !found {
		return []datatypes.SiteAttribute{}, nil
	}

	var members []scoredMember
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, fmt.Errorf("%w: decode site attributes for %s: %v", ErrStoreUnavailable, domain, err)
	}

	severityMap, err := s.GetSeverityMap()
	if err != nil {
		return nil, err
	}
	if len(severityMap) == 0 {
		severityMap = datatypes.DefaultAttributeSeverity
	}

	sort.Slice(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score > members[j].Score
		}
		return members[i].Attribute > members[j].Attribute
	})

	out := make([]datatypes.SiteAttribute, 0, len(members))
	for _, m := range members {
		color := datatypes.ColorGreen
		entry, ok := severityMap[m.Attribute]
		if !ok {
			entry, ok = datatypes.DefaultAttributeSeverity[m.Attribute]
		}
		if ok {
			color = entry.Color
		}
		out = append(out, datatypes.SiteAttribute{
			Attribute:        m.Attribute,
			Color:            color,
			SensitivityLevel: m.Score,
		})
	}
	return out, nil
}
