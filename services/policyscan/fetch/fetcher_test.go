// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPageText_StripsMarkupAndScripts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<title>Privacy Policy</title>
			<style>body { color: red; }</style>
			<script>trackEverything();</script>
		</head><body>
			<h1>Privacy   Policy</h1>
			<p>We collect your email address.</p>
			<noscript>enable js</noscript>
		</body></html>`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher()
	text, err := fetcher.FetchPageText(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "We collect your email address.")
	assert.NotContains(t, text, "trackEverything")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "<p>")
}

func TestFetchPageText_NonOKStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher()
	_, err := fetcher.FetchPageText(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetchPageText_UnreachableHostIsAnError(t *testing.T) {
	fetcher := NewHTTPFetcher()
	_, err := fetcher.FetchPageText(context.Background(), "http://127.0.0.1:1/privacy")
	assert.Error(t, err)
}

func TestHTMLToText_NormalizesWhitespace(t *testing.T) {
	text, err := HTMLToText(`<html><body><p>one</p>
		<p>  two   three </p></body></html>`, "https://example.com/privacy")
	require.NoError(t, err)
	assert.Equal(t, "one two three", text)
}
