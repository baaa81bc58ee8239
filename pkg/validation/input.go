// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for user-provided
// values that end up in store keys or outbound requests.
//
// Domain names become BadgerDB key components and fetch targets, so they are
// validated before use to keep the key namespace clean and to reject
// obviously malformed requests at the HTTP boundary.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// domainPattern matches hostnames: dot-separated labels of letters, digits,
// and hyphens. Max length 253 characters per RFC 1035.
var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-]{0,62}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9\-]{0,62}[a-zA-Z0-9])?)*$`)

// ValidateDomain validates a domain or hostname string.
//
// Valid domains:
//   - 1-253 characters
//   - dot-separated labels of letters, digits, and hyphens
//   - no label starts or ends with a hyphen
//
// Returns an error if the domain is invalid.
//
// Example:
//
//	if err := validation.ValidateDomain(domain); err != nil {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	    return
//	}
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if len(domain) > 253 {
		return fmt.Errorf("domain too long: %d characters (max 253)", len(domain))
	}
	if !domainPattern.MatchString(domain) {
		return fmt.Errorf("invalid domain format: %q", domain)
	}
	return nil
}

// ValidateURL validates that a string parses as an http or https URL with a
// non-empty host.
func ValidateURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fmt.Errorf("url cannot be empty")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", trimmed, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q (must be http or https)", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("url %q has no host", trimmed)
	}
	return nil
}

// ValidateURLs validates multiple URLs. Returns an error listing all invalid
// URLs if any fail validation.
func ValidateURLs(urls []string) error {
	var invalid []string
	for _, u := range urls {
		if err := ValidateURL(u); err != nil {
			invalid = append(invalid, u)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid urls: %s", strings.Join(invalid, ", "))
	}
	return nil
}
