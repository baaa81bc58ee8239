// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"strings"
	"testing"
)

func TestValidateDomain(t *testing.T) {
	valid := []string{
		"example.com",
		"sub.example.com",
		"a.b.c.example.co.uk",
		"xn--bcher-kva.example",
		"localhost",
		"my-site.org",
	}
	for _, d := range valid {
		if err := ValidateDomain(d); err != nil {
			t.Errorf("ValidateDomain(%q) = %v, want nil", d, err)
		}
	}

	invalid := []string{
		"",
		"-leading.example.com",
		"trailing-.example.com",
		"exa mple.com",
		"example.com/path",
		"https://example.com",
		strings.Repeat("a", 254),
	}
	for _, d := range invalid {
		if err := ValidateDomain(d); err == nil {
			t.Errorf("ValidateDomain(%q) = nil, want error", d)
		}
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.com/privacy",
		"http://example.com",
		"https://sub.example.com:8443/tos?lang=en",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"ftp://example.com/file",
		"example.com/no-scheme",
		"https://",
	}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}

func TestValidateURLs_ListsAllInvalid(t *testing.T) {
	err := ValidateURLs([]string{"https://ok.example.com", "bad", "ftp://nope"})
	if err == nil {
		t.Fatal("expected error for mixed list")
	}
	if !strings.Contains(err.Error(), "bad") || !strings.Contains(err.Error(), "ftp://nope") {
		t.Errorf("error should list every invalid url, got: %v", err)
	}

	if err := ValidateURLs([]string{"https://ok.example.com"}); err != nil {
		t.Errorf("all-valid list should pass, got: %v", err)
	}
}
