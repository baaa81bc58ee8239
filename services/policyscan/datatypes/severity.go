// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// SeverityColor is the display color assigned to a data attribute.
type SeverityColor string

const (
	ColorRed    SeverityColor = "red"
	ColorYellow SeverityColor = "yellow"
	ColorGreen  SeverityColor = "green"
)

// IsValid reports whether c is one of the three known colors.
func (c SeverityColor) IsValid() bool {
	return c == ColorRed || c == ColorYellow || c == ColorGreen
}

// SeverityEntry describes how sensitive a single data attribute is.
//
// SensitivityLevel is a positive integer; higher = more sensitive. The
// attribute name itself is the map key, not a field.
type SeverityEntry struct {
	Color            SeverityColor `json:"color"`
	SensitivityLevel int           `json:"sensitivity_level"`
}

// SeverityMap maps attribute name -> SeverityEntry.
type SeverityMap map[string]SeverityEntry

// FallbackEntry is used when an attribute is unknown to both the live map and
// the defaults, and when a stored entry is missing required fields.
var FallbackEntry = SeverityEntry{Color: ColorGreen, SensitivityLevel: 1}

// DefaultAttributeSeverity is the fixed default table used to seed the
// severity store. Seeding is a full overwrite; this table is the single
// source of truth for sensitivity levels of legacy (bare color) entries.
var DefaultAttributeSeverity = SeverityMap{
	"name":                      {Color: ColorYellow, SensitivityLevel: 3},
	"email":                     {Color: ColorYellow, SensitivityLevel: 4},
	"phone_number":              {Color: ColorYellow, SensitivityLevel: 5},
	"physical_address":          {Color: ColorRed, SensitivityLevel: 1},
	"date_of_birth":             {Color: ColorYellow, SensitivityLevel: 2},
	"government_id":             {Color: ColorRed, SensitivityLevel: 9},
	"financial_account":         {Color: ColorRed, SensitivityLevel: 10},
	"biometric":                 {Color: ColorRed, SensitivityLevel: 2},
	"photo":                     {Color: ColorYellow, SensitivityLevel: 9},
	"gender":                    {Color: ColorYellow, SensitivityLevel: 18},
	"nationality":               {Color: ColorYellow, SensitivityLevel: 17},
	"race_ethnicity":            {Color: ColorRed, SensitivityLevel: 17},
	"ip_address":                {Color: ColorYellow, SensitivityLevel: 6},
	"device_id":                 {Color: ColorYellow, SensitivityLevel: 8},
	"browser_info":              {Color: ColorGreen, SensitivityLevel: 2},
	"os":                        {Color: ColorGreen, SensitivityLevel: 3},
	"screen_resolution":         {Color: ColorGreen, SensitivityLevel: 4},
	"language":                  {Color: ColorGreen, SensitivityLevel: 5},
	"timezone":                  {Color: ColorGreen, SensitivityLevel: 6},
	"fingerprint":               {Color: ColorRed, SensitivityLevel: 13},
	"precise_gps":               {Color: ColorRed, SensitivityLevel: 11},
	"coarse_location":           {Color: ColorGreen, SensitivityLevel: 7},
	"wifi_cell":                 {Color: ColorRed, SensitivityLevel: 12},
	"ip_derived":                {Color: ColorYellow, SensitivityLevel: 7},
	"posts":                     {Color: ColorYellow, SensitivityLevel: 12},
	"messages":                  {Color: ColorRed, SensitivityLevel: 14},
	"photos":                    {Color: ColorYellow, SensitivityLevel: 10},
	"videos":                    {Color: ColorYellow, SensitivityLevel: 11},
	"search_history":            {Color: ColorRed, SensitivityLevel: 15},
	"purchase_history":          {Color: ColorYellow, SensitivityLevel: 13},
	"contacts":                  {Color: ColorRed, SensitivityLevel: 16},
	"social_media":              {Color: ColorYellow, SensitivityLevel: 14},
	"advertisers":               {Color: ColorYellow, SensitivityLevel: 15},
	"analytics":                 {Color: ColorGreen, SensitivityLevel: 1},
	"data_brokers":              {Color: ColorYellow, SensitivityLevel: 16},
	"affiliates":                {Color: ColorGreen, SensitivityLevel: 8},
	"health":                    {Color: ColorRed, SensitivityLevel: 3},
	"genetic":                   {Color: ColorRed, SensitivityLevel: 1},
	"political":                 {Color: ColorRed, SensitivityLevel: 5},
	"religious":                 {Color: ColorRed, SensitivityLevel: 6},
	"sexual_orientation":        {Color: ColorRed, SensitivityLevel: 4},
	"union_membership":          {Color: ColorRed, SensitivityLevel: 7},
	"criminal":                  {Color: ColorRed, SensitivityLevel: 8},
	"age_under_13":              {Color: ColorRed, SensitivityLevel: 18},
	"age_13_to_17":              {Color: ColorRed, SensitivityLevel: 19},
	"parental_consent_required": {Color: ColorRed, SensitivityLevel: 20},
}

// DefaultEntry returns the default table's entry for attr, falling back to
// FallbackEntry when the attribute is unknown.
func DefaultEntry(attr string) SeverityEntry {
	if entry, ok := DefaultAttributeSeverity[attr]; ok {
		return entry
	}
	return FallbackEntry
}

// Clone returns a shallow copy of the map. Stores hand out clones so callers
// can't mutate shared state.
func (m SeverityMap) Clone() SeverityMap {
	out := make(SeverityMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SiteAttribute is one scored member of a per-site attribute set.
type SiteAttribute struct {
	Attribute        string        `json:"attribute"`
	Color            SeverityColor `json:"color"`
	SensitivityLevel int           `json:"sensitivity_level"`
}
