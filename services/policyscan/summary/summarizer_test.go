// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package summary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/PolicyLens/services/policyscan/datatypes"
	"github.com/AleutianAI/PolicyLens/services/policyscan/storage"
)

func newTestSummarizer(t *testing.T) (*Summarizer, *storage.Store) {
	t.Helper()
	store, err := storage.Open(storage.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.SeedSeverityDefaults()
	require.NoError(t, err)
	return NewSummarizer(store), store
}

func summaryAnalysis(domain string) *datatypes.PolicyAnalysis {
	p := &datatypes.PolicyAnalysis{}
	p.Metadata.Domain = domain
	for _, s := range []*datatypes.Signal{
		&p.DataCollection.IPAddress,
		&p.DataUsage.ModelTraining, &p.DataUsage.Advertising, &p.DataUsage.DataSale,
		&p.DataUsage.CrossCompanySharing, &p.DataUsage.AnonymizationClaimed,
		&p.UserRights.Access, &p.UserRights.Correction, &p.UserRights.Deletion,
		&p.UserRights.Portability, &p.UserRights.OptOutAds, &p.UserRights.OptOutTraining,
		&p.Retention.DeletionRights, &p.Retention.VagueRetentionLanguage,
		&p.LegalTerms.LiabilityCap, &p.LegalTerms.Indemnification,
		&p.LegalTerms.MandatoryArbitration, &p.LegalTerms.ClassActionWaiver,
		&p.LegalTerms.UnilateralModification, &p.LegalTerms.TerminationWithoutNotice,
		&p.LegalTerms.PerpetualLicense,
	} {
		s.Status = datatypes.StatusNotFound
	}
	p.Retention.RetentionDuration = "indefinite"
	p.Retention.RetentionExplanation = "Data kept indefinitely; request deletion via privacy settings."
	p.DataCollection.PersonalIdentifiers.Types = []string{"financial_account"}
	p.DataCollection.PersonalIdentifiers.Evidence = "we store your payment card details"
	p.DataCollection.PersonalIdentifiers.Explanation = "Payment data is retained after purchase."
	p.DataCollection.PersonalIdentifiers.Mitigation = "Use virtual card numbers for purchases."
	p.DataCollection.SensitiveData.Types = []string{"health"}
	p.DataCollection.SensitiveData.Evidence = "we may process wellness information"
	p.DataCollection.SensitiveData.Mitigation = "Avoid linking health apps to this account."
	p.Scores.Posture = "high_risk"
	p.Scores.PrivacyScore = 20
	return p
}

func TestSummarize_TopRedAttributesWithCategoryDedup(t *testing.T) {
	summarizer, store := newTestSummarizer(t)

	// government_id (red, 10) and financial_account (red, 10) share the
	// personal_identifiers category; only the higher-ranked one survives.
	require.NoError(t, store.SetSiteAttributes("example.com", []string{
		"government_id", "financial_account", "health", "precise_gps", "email",
	}))

	result, err := summarizer.Summarize(context.Background(), "example.com")
	require.NoError(t, err)

	require.Len(t, result.TopHighRiskAttributes, 3)
	attrs := []string{
		result.TopHighRiskAttributes[0].Attribute,
		result.TopHighRiskAttributes[1].Attribute,
		result.TopHighRiskAttributes[2].Attribute,
	}
	assert.NotContains(t, attrs, "email", "yellow attributes are not top risks")
	assert.Contains(t, attrs, "health")
	assert.Contains(t, attrs, "precise_gps")
	// Exactly one of the two personal identifiers made it in.
	fin := 0
	for _, a := range attrs {
		if a == "financial_account" || a == "government_id" {
			fin++
		}
	}
	assert.Equal(t, 1, fin)
}

func TestSummarize_CapsAtThree(t *testing.T) {
	summarizer, store := newTestSummarizer(t)
	require.NoError(t, store.SetSiteAttributes("example.com", []string{
		"government_id", "health", "precise_gps", "age_under_13", "criminal",
	}))

	result, err := summarizer.Summarize(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Len(t, result.TopHighRiskAttributes, 3)
	assert.Len(t, result.Mitigations, 2)
}

func TestSummarize_EnrichesFromCachedAnalysis(t *testing.T) {
	summarizer, store := newTestSummarizer(t)
	require.NoError(t, store.SetSiteAttributes("example.com", []string{"financial_account", "health"}))
	require.NoError(t, store.PutAnalysis("example.com", summaryAnalysis("example.com")))

	result, err := summarizer.Summarize(context.Background(), "example.com")
	require.NoError(t, err)

	assert.True(t, result.HasCachedAnalysis)
	assert.Equal(t, "Data kept indefinitely; request deletion via privacy settings.", result.DataRetentionPolicy)

	require.NotEmpty(t, result.TopHighRiskAttributes)
	first := result.TopHighRiskAttributes[0]
	assert.Equal(t, "Financial Account", first.Name)
	assert.Equal(t, "we store your payment card details", first.Evidence)

	require.Len(t, result.Mitigations, 2)
	assert.Equal(t, "Financial Account", result.Mitigations[0].Title)
	assert.Equal(t, "Use virtual card numbers for purchases.", result.Mitigations[0].Advice)
}

func TestSummarize_NoCachedAnalysisDegradesGracefully(t *testing.T) {
	summarizer, store := newTestSummarizer(t)
	require.NoError(t, store.SetSiteAttributes("example.com", []string{"financial_account"}))

	result, err := summarizer.Summarize(context.Background(), "example.com")
	require.NoError(t, err)

	assert.False(t, result.HasCachedAnalysis)
	assert.Empty(t, result.DataRetentionPolicy)
	require.Len(t, result.TopHighRiskAttributes, 1)
	assert.Empty(t, result.TopHighRiskAttributes[0].Evidence)

	// One mitigation entry per selected risk (capped at two) even without a
	// cached analysis; only the advice text is missing.
	require.Len(t, result.Mitigations, 1)
	assert.Equal(t, "Financial Account", result.Mitigations[0].Title)
	assert.Empty(t, result.Mitigations[0].Advice)
}

func TestSummarize_UnknownDomainIsEmptyNotError(t *testing.T) {
	summarizer, _ := newTestSummarizer(t)

	result, err := summarizer.Summarize(context.Background(), "never-analyzed.example")
	require.NoError(t, err)
	assert.Empty(t, result.TopHighRiskAttributes)
	assert.False(t, result.HasCachedAnalysis)
}

func TestSummarize_NormalizesInputDomain(t *testing.T) {
	summarizer, store := newTestSummarizer(t)
	require.NoError(t, store.SetSiteAttributes("example.com", []string{"financial_account"}))

	result, err := summarizer.Summarize(context.Background(), "WWW.Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "example.com", result.Domain)
	assert.Len(t, result.TopHighRiskAttributes, 1)
}
