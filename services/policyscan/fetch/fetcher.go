// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fetch downloads policy pages and reduces them to plain text.
//
// This is the page-fetch collaborator of the extraction pipeline: the
// pipeline only sees FetchPageText(url) -> text | error, and treats every
// error uniformly as a fetch failure. The default implementation does a
// plain HTTP GET and extracts text readability-first, with a strip-tags
// fallback for pages readability can't make sense of. A headless-browser
// implementation can be slotted in behind the same interface for
// JavaScript-heavy sites.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// PageFetcher fetches one URL's rendered text content.
type PageFetcher interface {
	FetchPageText(ctx context.Context, pageURL string) (string, error)
}

const (
	defaultTimeout = 60 * time.Second
	userAgent      = "PolicyLens/1.0 (+https://github.com/AleutianAI/PolicyLens)"
)

// HTTPFetcher fetches pages over plain HTTP and extracts their text.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher with redirect-following and a request
// timeout suitable for slow policy pages.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// FetchPageText downloads the page at pageURL and returns its plain text
// with tags stripped and whitespace normalized.
func (f *HTTPFetcher) FetchPageText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", pageURL, err)
	}

	text, err := HTMLToText(string(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("extract text of %s: %w", pageURL, err)
	}
	return text, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// HTMLToText extracts plain text from an HTML document.
//
// Tries readability first to isolate the main content block; when
// readability finds nothing usable (common for dense legal pages that are
// all boilerplate by its heuristics), falls back to stripping tags from the
// whole document with script, style, noscript, iframe, and svg removed.
func HTMLToText(html, pageURL string) (string, error) {
	if text := readableText(html, pageURL); text != "" {
		return text, nil
	}
	return strippedText(html)
}

// readableText runs go-readability over the document. Empty string means
// readability could not isolate content and the caller should fall back.
func readableText(html, pageURL string) string {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return ""
	}
	return normalizeWhitespace(article.TextContent)
}

// strippedText removes non-visible elements and flattens the remaining
// document text.
func strippedText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script,style,noscript,iframe,svg").Remove()
	return normalizeWhitespace(doc.Text()), nil
}

func normalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
