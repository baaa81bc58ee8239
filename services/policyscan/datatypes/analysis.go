// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the PolicyAnalysis extraction schema, the
// attribute severity table, and the fixed data-collection categories.
//
// PolicyAnalysis is a single versioned schema. Cache reads validate strictly
// against it; records that fail validation are treated as cache misses
// instead of being accepted with drifted shapes.
package datatypes

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// SignalStatus values for extracted yes/no/unclear determinations.
const (
	StatusTrue     = "true"
	StatusFalse    = "false"
	StatusNotFound = "not_found"
	StatusUnknown  = "unknown"
)

// Signal is a single extracted determination with supporting evidence.
type Signal struct {
	Status      string `json:"status" validate:"required,oneof=true false not_found unknown"`
	Evidence    string `json:"evidence"`
	Explanation string `json:"explanation,omitempty"`
	Mitigation  string `json:"mitigation,omitempty"`
}

// TypedCollection is one data-collection category sub-record: the enumerated
// attribute tags the policy collects plus overlay-ready free text.
type TypedCollection struct {
	Types       []string `json:"types"`
	Evidence    string   `json:"evidence"`
	Explanation string   `json:"explanation"`
	Mitigation  string   `json:"mitigation"`
}

// CrawlMetadata identifies the analyzed site and source documents.
type CrawlMetadata struct {
	Domain            string `json:"domain" validate:"required"`
	SiteName          string `json:"site_name,omitempty"`
	PolicyURL         string `json:"policy_url,omitempty"`
	TosURL            string `json:"tos_url,omitempty"`
	PolicyLastUpdated string `json:"policy_last_updated,omitempty"`
}

// DataCollectionSection holds the seven typed categories plus the ip_address
// signal. Each Types list may only contain tags from that category's fixed
// enumeration.
type DataCollectionSection struct {
	PersonalIdentifiers  TypedCollection `json:"personal_identifiers"`
	IPAddress            Signal          `json:"ip_address"`
	PreciseLocation      TypedCollection `json:"precise_location"`
	DeviceFingerprinting TypedCollection `json:"device_fingerprinting"`
	UserContent          TypedCollection `json:"user_content"`
	ThirdPartyData       TypedCollection `json:"third_party_data"`
	SensitiveData        TypedCollection `json:"sensitive_data"`
	ChildrenData         TypedCollection `json:"children_data"`
}

// DataUsageSection holds how collected data is used.
type DataUsageSection struct {
	ModelTraining        Signal `json:"model_training"`
	Advertising          Signal `json:"advertising"`
	DataSale             Signal `json:"data_sale"`
	CrossCompanySharing  Signal `json:"cross_company_sharing"`
	AnonymizationClaimed Signal `json:"anonymization_claimed"`
}

// UserRightsSection holds the rights the policy grants users.
type UserRightsSection struct {
	Access         Signal `json:"access"`
	Correction     Signal `json:"correction"`
	Deletion       Signal `json:"deletion"`
	Portability    Signal `json:"portability"`
	OptOutAds      Signal `json:"opt_out_ads"`
	OptOutTraining Signal `json:"opt_out_training"`
}

// RetentionSection holds retention signals. RetentionDuration is a normalized
// code (indefinite, P2Y, case_by_case, unknown, ...). RetentionExplanation is
// overlay-ready text used directly by the risk summarizer.
type RetentionSection struct {
	RetentionDuration      string `json:"retention_duration"`
	RetentionExplanation   string `json:"retention_explanation"`
	DeletionRights         Signal `json:"deletion_rights"`
	VagueRetentionLanguage Signal `json:"vague_retention_language"`
}

// LegalTermsSection holds the contractual risk signals.
type LegalTermsSection struct {
	LiabilityCap             Signal `json:"liability_cap"`
	Indemnification          Signal `json:"indemnification"`
	MandatoryArbitration     Signal `json:"mandatory_arbitration"`
	ClassActionWaiver        Signal `json:"class_action_waiver"`
	UnilateralModification   Signal `json:"unilateral_modification"`
	TerminationWithoutNotice Signal `json:"termination_without_notice"`
	PerpetualLicense         Signal `json:"perpetual_license"`
}

// RedFlag is a single problematic clause flagged by the extraction.
type RedFlag struct {
	Clause      string `json:"clause" validate:"required"`
	Severity    string `json:"severity" validate:"required,oneof=low medium high"`
	Explanation string `json:"explanation" validate:"required"`
}

// ScoreSection holds the dashboard scores.
type ScoreSection struct {
	PrivacyScore          float64 `json:"privacy_score" validate:"min=0,max=100"`
	Posture               string  `json:"posture" validate:"required,oneof=low_risk moderate_risk high_risk unknown"`
	PostureExplanation    string  `json:"posture_explanation,omitempty"`
	DataMinimization      float64 `json:"data_minimization" validate:"min=0,max=100"`
	RetentionTransparency float64 `json:"retention_transparency" validate:"min=0,max=100"`
	ThirdPartyExposure    float64 `json:"third_party_exposure" validate:"min=0,max=100"`
	UserControl           float64 `json:"user_control" validate:"min=0,max=100"`
}

// PolicyAnalysis is the full structured extraction result for one document
// set. This is the record stored in the analysis cache.
type PolicyAnalysis struct {
	Metadata       CrawlMetadata         `json:"metadata"`
	DataCollection DataCollectionSection `json:"data_collection"`
	DataUsage      DataUsageSection      `json:"data_usage"`
	UserRights     UserRightsSection     `json:"user_rights"`
	Retention      RetentionSection      `json:"retention"`
	LegalTerms     LegalTermsSection     `json:"legal_terms"`
	RedFlags       []RedFlag             `json:"red_flags" validate:"omitempty,dive"`
	Scores         ScoreSection          `json:"scores"`
}

var schemaValidator = validator.New()

// Validate checks the analysis against the schema: struct tags (signal
// statuses, severities, posture, score ranges) plus per-category membership
// of every types list.
func (p *PolicyAnalysis) Validate() error {
	if err := schemaValidator.Struct(p); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	dc := &p.DataCollection
	checks := []struct {
		category Category
		types    []string
		allowed  []string
	}{
		{CategoryPersonalIdentifiers, dc.PersonalIdentifiers.Types, personalIdentifierTypes},
		{CategoryPreciseLocation, dc.PreciseLocation.Types, locationTypes},
		{CategoryDeviceFingerprinting, dc.DeviceFingerprinting.Types, deviceDataTypes},
		{CategoryUserContent, dc.UserContent.Types, userContentTypes},
		{CategoryThirdPartyData, dc.ThirdPartyData.Types, thirdPartySourceTypes},
		{CategorySensitiveData, dc.SensitiveData.Types, sensitiveCategoryTypes},
		{CategoryChildrenData, dc.ChildrenData.Types, childrenDataTypes},
	}
	for _, check := range checks {
		for _, tag := range check.types {
			if !contains(check.allowed, tag) {
				return fmt.Errorf("schema validation: type %q is not allowed in category %q", tag, check.category)
			}
		}
	}
	return nil
}

// IsEmpty reports whether the extraction is structurally empty: no collected
// attribute types anywhere, no red flags, and no assigned posture. The
// extractor retries these; they indicate the model returned a hollow shell
// rather than a real analysis.
func (p *PolicyAnalysis) IsEmpty() bool {
	if len(p.RedFlags) > 0 {
		return false
	}
	if len(p.DataCollection.CollectAttributes()) > 0 {
		return false
	}
	return p.Scores.Posture == "" || p.Scores.Posture == "unknown"
}

// CollectAttributes returns the de-duplicated, sorted attribute names found
// in the extraction: every typed category's types list flattened, plus
// ip_address iff its signal status indicates collection.
func (dc *DataCollectionSection) CollectAttributes() []string {
	seen := map[string]struct{}{}
	for _, section := range []TypedCollection{
		dc.PersonalIdentifiers,
		dc.PreciseLocation,
		dc.DeviceFingerprinting,
		dc.UserContent,
		dc.ThirdPartyData,
		dc.SensitiveData,
		dc.ChildrenData,
	} {
		for _, t := range section.Types {
			if t != "" {
				seen[t] = struct{}{}
			}
		}
	}
	if dc.IPAddress.Status == StatusTrue {
		seen["ip_address"] = struct{}{}
	}
	attrs := make([]string, 0, len(seen))
	for a := range seen {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)
	return attrs
}

// CategoryRecord returns the sub-record for a typed category, or nil for
// CategoryIPAddress and unknown categories (the ip_address signal has no
// typed sub-record).
func (dc *DataCollectionSection) CategoryRecord(cat Category) *TypedCollection {
	switch cat {
	case CategoryPersonalIdentifiers:
		return &dc.PersonalIdentifiers
	case CategoryPreciseLocation:
		return &dc.PreciseLocation
	case CategoryDeviceFingerprinting:
		return &dc.DeviceFingerprinting
	case CategoryUserContent:
		return &dc.UserContent
	case CategoryThirdPartyData:
		return &dc.ThirdPartyData
	case CategorySensitiveData:
		return &dc.SensitiveData
	case CategoryChildrenData:
		return &dc.ChildrenData
	default:
		return nil
	}
}

// EvidenceFor returns the evidence, explanation, and mitigation text for an
// attribute by locating the first typed category whose types list contains
// it. For ip_address the signal's own text is used. All strings are empty
// when the attribute does not appear in the analysis.
func (dc *DataCollectionSection) EvidenceFor(attr string) (evidence, explanation, mitigation string) {
	if attr == "ip_address" {
		return dc.IPAddress.Evidence, dc.IPAddress.Explanation, dc.IPAddress.Mitigation
	}
	for _, cat := range []Category{
		CategoryPersonalIdentifiers,
		CategoryPreciseLocation,
		CategoryDeviceFingerprinting,
		CategoryUserContent,
		CategoryThirdPartyData,
		CategorySensitiveData,
		CategoryChildrenData,
	} {
		record := dc.CategoryRecord(cat)
		if record != nil && contains(record.Types, attr) {
			return record.Evidence, record.Explanation, record.Mitigation
		}
	}
	return "", "", ""
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
