// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/PolicyLens/pkg/urlkit"
	"github.com/AleutianAI/PolicyLens/services/policyscan/datatypes"
	"github.com/AleutianAI/PolicyLens/services/policyscan/extract"
	"github.com/AleutianAI/PolicyLens/services/policyscan/observability"
	"github.com/AleutianAI/PolicyLens/services/policyscan/storage"
)

type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	errOn   string
	fetched []string
}

func (f *fakeFetcher) FetchPageText(ctx context.Context, pageURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, pageURL)
	if pageURL == f.errOn {
		return "", errors.New("dial tcp: connection refused")
	}
	if text, ok := f.pages[pageURL]; ok {
		return text, nil
	}
	return "generic policy text", nil
}

type fakeExtractor struct {
	mu       sync.Mutex
	analysis *datatypes.PolicyAnalysis
	err      error
	calls    int
	gotDocs  []extract.LabeledDocument
}

func (f *fakeExtractor) Extract(ctx context.Context, docs []extract.LabeledDocument) (*datatypes.PolicyAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotDocs = docs
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testAnalysis(domain string) *datatypes.PolicyAnalysis {
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
	p.Retention.RetentionDuration = "unknown"
	p.DataCollection.PersonalIdentifiers.Types = []string{"email", "name"}
	p.DataCollection.PersonalIdentifiers.Evidence = "we collect your name and email"
	p.Scores.Posture = "moderate_risk"
	p.Scores.PrivacyScore = 55
	return p
}

func newTestOrchestrator(t *testing.T, fetcher *fakeFetcher, extractor *fakeExtractor) (*Orchestrator, *storage.Store) {
	t.Helper()
	store, err := storage.Open(storage.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	metrics := observability.NewPipelineMetrics(prometheus.NewRegistry())
	return NewOrchestrator(store, fetcher, extractor, metrics), store
}

func TestProcessDomains_RejectsEmptyURLList(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &fakeFetcher{}, &fakeExtractor{})

	_, err := orch.ProcessDomains(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyURLList)

	_, err = orch.ProcessDomains(context.Background(), []string{"", "   "})
	assert.ErrorIs(t, err, ErrEmptyURLList)
}

func TestProcessDomains_CacheHitReturnsAnalysis(t *testing.T) {
	urls := []string{"https://www.example.com/privacy"}
	extractor := &fakeExtractor{}
	orch, store := newTestOrchestrator(t, &fakeFetcher{}, extractor)

	cached := testAnalysis("example.com")
	require.NoError(t, store.PutAnalysis(urlkit.CacheKey(urls), cached))

	outcome, err := orch.ProcessDomains(context.Background(), urls)
	require.NoError(t, err)
	assert.False(t, outcome.Processing)
	require.NotNil(t, outcome.Analysis)
	assert.Equal(t, "example.com", outcome.Analysis.Metadata.Domain)
	assert.Equal(t, 0, extractor.callCount(), "cache hit must not invoke extraction")
}

func TestProcessDomains_MissRunsBackgroundUnitToCompletion(t *testing.T) {
	urls := []string{"https://www.example.com/privacy", "https://www.example.com/tos"}
	fetcher := &fakeFetcher{pages: map[string]string{
		urls[0]: "privacy policy text",
		urls[1]: "terms of service text",
	}}
	extractor := &fakeExtractor{analysis: testAnalysis("example.com")}
	orch, store := newTestOrchestrator(t, fetcher, extractor)

	outcome, err := orch.ProcessDomains(context.Background(), urls)
	require.NoError(t, err)
	assert.True(t, outcome.Processing)
	assert.Nil(t, outcome.Analysis)

	key := urlkit.CacheKey(urls)
	require.Eventually(t, func() bool {
		_, found, err := store.GetAnalysis(key)
		return err == nil && found
	}, 2*time.Second, 10*time.Millisecond, "background unit should populate the cache")

	// Both pages fetched, one combined extraction call over both documents.
	assert.Equal(t, 1, extractor.callCount())
	require.Len(t, extractor.gotDocs, 2)
	assert.Equal(t, urls[0], extractor.gotDocs[0].Source)
	assert.Equal(t, "privacy policy text", extractor.gotDocs[0].Text)

	// Site attributes derived from the cached analysis.
	attrs, err := store.GetSiteAttributes("example.com")
	require.NoError(t, err)
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, a.Attribute)
	}
	assert.ElementsMatch(t, []string{"email", "name"}, names)

	// Polling the same request again is now a synchronous hit.
	outcome, err = orch.ProcessDomains(context.Background(), urls)
	require.NoError(t, err)
	assert.False(t, outcome.Processing)
	require.NotNil(t, outcome.Analysis)
}

func TestProcessDomains_FetchFailureDiscardsUnit(t *testing.T) {
	urls := []string{"https://www.example.com/privacy", "https://www.example.com/tos"}
	fetcher := &fakeFetcher{errOn: urls[1]}
	extractor := &fakeExtractor{analysis: testAnalysis("example.com")}
	orch, store := newTestOrchestrator(t, fetcher, extractor)

	outcome, err := orch.ProcessDomains(context.Background(), urls)
	require.NoError(t, err)
	assert.True(t, outcome.Processing)

	// The unit aborts without calling the extractor or writing anything.
	require.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return len(fetcher.fetched) == 2
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, extractor.callCount())
	_, found, err := store.GetAnalysis(urlkit.CacheKey(urls))
	require.NoError(t, err)
	assert.False(t, found, "failed unit must not cache a partial result")

	attrs, err := store.GetSiteAttributes("example.com")
	require.NoError(t, err)
	assert.Empty(t, attrs)
}

func TestProcessDomains_ExtractionFailureLeavesNoState(t *testing.T) {
	urls := []string{"https://www.example.com/privacy"}
	extractor := &fakeExtractor{err: errors.New("llm returned structurally empty output after 3 attempts")}
	orch, store := newTestOrchestrator(t, &fakeFetcher{}, extractor)

	outcome, err := orch.ProcessDomains(context.Background(), urls)
	require.NoError(t, err)
	assert.True(t, outcome.Processing)

	require.Eventually(t, func() bool {
		return extractor.callCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	_, found, err := store.GetAnalysis(urlkit.CacheKey(urls))
	require.NoError(t, err)
	assert.False(t, found)

	// A later identical request starts a fresh unit rather than reporting a
	// failed state.
	outcome, err = orch.ProcessDomains(context.Background(), urls)
	require.NoError(t, err)
	assert.True(t, outcome.Processing)
}

func TestProcessDomains_WritesAttributesForEveryRootDomain(t *testing.T) {
	urls := []string{"https://www.example.com/privacy", "https://legal.example.org/tos"}
	extractor := &fakeExtractor{analysis: testAnalysis("example.com")}
	orch, store := newTestOrchestrator(t, &fakeFetcher{}, extractor)

	_, err := orch.ProcessDomains(context.Background(), urls)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, found, err := store.GetAnalysis(urlkit.CacheKey(urls))
		return err == nil && found
	}, 2*time.Second, 10*time.Millisecond)

	for _, domain := range []string{"example.com", "example.org"} {
		attrs, err := store.GetSiteAttributes(domain)
		require.NoError(t, err)
		assert.NotEmpty(t, attrs, "expected attributes for %s", domain)
	}
}
