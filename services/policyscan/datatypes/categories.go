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

// Category identifies one of the fixed data-collection groupings. Category
// names mirror the DataCollectionSection field names; ip_address gets its own
// category because it is a single signal rather than a typed list.
type Category string

const (
	CategoryPersonalIdentifiers  Category = "personal_identifiers"
	CategoryIPAddress            Category = "ip_address"
	CategoryPreciseLocation      Category = "precise_location"
	CategoryDeviceFingerprinting Category = "device_fingerprinting"
	CategoryUserContent          Category = "user_content"
	CategoryThirdPartyData       Category = "third_party_data"
	CategorySensitiveData        Category = "sensitive_data"
	CategoryChildrenData         Category = "children_data"
)

// Allowed attribute tags per typed data-collection category. Extraction
// results may only use tags from the category's own list; validation enforces
// this. A few tags (ip_address, biometric, race_ethnicity) legitimately
// appear in more than one category's enumeration.
var (
	personalIdentifierTypes = []string{
		"name", "email", "phone_number", "physical_address", "date_of_birth",
		"government_id", "financial_account", "biometric", "photo", "gender",
		"nationality", "race_ethnicity", "ip_address",
	}
	locationTypes = []string{
		"precise_gps", "coarse_location", "wifi_cell", "ip_derived",
	}
	deviceDataTypes = []string{
		"device_id", "browser_info", "os", "screen_resolution", "language",
		"timezone", "fingerprint", "ip_address",
	}
	userContentTypes = []string{
		"posts", "messages", "photos", "videos", "search_history",
		"purchase_history", "contacts",
	}
	thirdPartySourceTypes = []string{
		"social_media", "advertisers", "analytics", "data_brokers", "affiliates",
	}
	sensitiveCategoryTypes = []string{
		"health", "biometric", "genetic", "political", "religious",
		"sexual_orientation", "union_membership", "criminal", "race_ethnicity",
	}
	childrenDataTypes = []string{
		"age_under_13", "age_13_to_17", "parental_consent_required",
	}
)

// attributeCategory is the fixed attribute -> category lookup used by the
// risk summarizer to deduplicate top-risk selections. An attribute that
// appears in several category enumerations is assigned to the first category
// in schema order that lists it; ip_address always maps to its own category.
var attributeCategory = buildAttributeCategory()

func buildAttributeCategory() map[string]Category {
	out := map[string]Category{"ip_address": CategoryIPAddress}
	assign := func(cat Category, tags []string) {
		for _, tag := range tags {
			if _, claimed := out[tag]; !claimed {
				out[tag] = cat
			}
		}
	}
	assign(CategoryPersonalIdentifiers, personalIdentifierTypes)
	assign(CategoryPreciseLocation, locationTypes)
	assign(CategoryDeviceFingerprinting, deviceDataTypes)
	assign(CategoryUserContent, userContentTypes)
	assign(CategoryThirdPartyData, thirdPartySourceTypes)
	assign(CategorySensitiveData, sensitiveCategoryTypes)
	assign(CategoryChildrenData, childrenDataTypes)
	return out
}

// AttributeCategory returns the fixed category for an attribute name. The
// second return is false for attributes outside every enumeration.
func AttributeCategory(attr string) (Category, bool) {
	cat, ok := attributeCategory[attr]
	return cat, ok
}
