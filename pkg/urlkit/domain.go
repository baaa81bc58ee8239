// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package urlkit normalizes URLs and hostnames down to registrable root
// domains and derives canonical cache keys from URL sets.
//
// Two requests that name the same set of root domains must resolve to the
// same cache key regardless of scheme, path, port, or ordering. That is the
// contract the analysis cache depends on, so all key derivation lives here.
package urlkit

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// SentinelKey is used when no URL in a request yields a root domain.
const SentinelKey = "unknown"

// keySeparator joins sorted root domains into a cache key.
const keySeparator = ","

// RootDomain returns the registrable root domain of rawURL with subdomains
// stripped (e.g. "https://policies.google.com/privacy" -> "google.com").
//
// Accepts bare hostnames as well as full URLs. Returns "" when the input is
// blank or no hostname can be recovered. Hosts without a recognized public
// suffix (single labels, IPs, localhost) fall back to the bare host so that
// internal and test domains still produce stable keys.
func RootDomain(rawURL string) string {
	host := hostOf(rawURL)
	if host == "" {
		return ""
	}
	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// Not covered by the public suffix list. Keep the host as-is.
		return host
	}
	return root
}

// hostOf extracts the lowercase hostname (no port, no path) from a URL or
// bare host string.
func hostOf(raw string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return ""
	}
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.Trim(host, ".")
}

// NormalizeDomain maps a bare hostname or full URL to its registrable root
// domain. When normalization yields nothing the trimmed raw input is
// returned, so lookups against stores keyed by caller-provided names still
// have a chance to hit.
func NormalizeDomain(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}
	if root := RootDomain(trimmed); root != "" {
		return root
	}
	return trimmed
}

// RootDomains returns the de-duplicated, lexicographically sorted root
// domains of all non-blank URLs in urls.
func RootDomains(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		root := RootDomain(u)
		if root == "" {
			continue
		}
		seen[root] = struct{}{}
	}
	domains := make([]string, 0, len(seen))
	for d := range seen {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// CacheKey derives the canonical analysis-cache key for a URL set: sorted,
// de-duplicated root domains joined by ",". Returns SentinelKey when no URL
// yields a domain.
func CacheKey(urls []string) string {
	domains := RootDomains(urls)
	if len(domains) == 0 {
		return SentinelKey
	}
	return strings.Join(domains, keySeparator)
}
