// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extract

// extractionSystemPrompt pins the model's role and output contract. The
// response format is additionally forced to a JSON object at the API level.
const extractionSystemPrompt = `You are a privacy and legal analyst. You read Privacy Policies and
Terms of Service documents and extract risk signals into a strict JSON schema. Output only the JSON
object, with every field present. Never invent clauses: quote evidence directly from the documents,
and use status "not_found" when a document does not address a signal.`

// extractionPromptTemplate is completed with the labeled document block. The
// schema description mirrors datatypes.PolicyAnalysis exactly; any deviation
// fails validation and aborts the background unit.
const extractionPromptTemplate = `Analyze the following Privacy Policy / Terms of Service documents
and extract a single combined risk profile covering all of them.

Return a JSON object with exactly this structure:

{
  "metadata": {"domain": "<registrable root domain of the analyzed site>",
               "site_name": "", "policy_url": "", "tos_url": "", "policy_last_updated": ""},
  "data_collection": {
    "personal_identifiers":  {"types": [], "evidence": "", "explanation": "", "mitigation": ""},
    "ip_address":            {"status": "", "evidence": "", "explanation": "", "mitigation": ""},
    "precise_location":      {"types": [], "evidence": "", "explanation": "", "mitigation": ""},
    "device_fingerprinting": {"types": [], "evidence": "", "explanation": "", "mitigation": ""},
    "user_content":          {"types": [], "evidence": "", "explanation": "", "mitigation": ""},
    "third_party_data":      {"types": [], "evidence": "", "explanation": "", "mitigation": ""},
    "sensitive_data":        {"types": [], "evidence": "", "explanation": "", "mitigation": ""},
    "children_data":         {"types": [], "evidence": "", "explanation": "", "mitigation": ""}
  },
  "data_usage": {"model_training": SIGNAL, "advertising": SIGNAL, "data_sale": SIGNAL,
                 "cross_company_sharing": SIGNAL, "anonymization_claimed": SIGNAL},
  "user_rights": {"access": SIGNAL, "correction": SIGNAL, "deletion": SIGNAL,
                  "portability": SIGNAL, "opt_out_ads": SIGNAL, "opt_out_training": SIGNAL},
  "retention": {"retention_duration": "<indefinite | ISO-8601 duration like P2Y | case_by_case | unknown>",
                "retention_explanation": "", "deletion_rights": SIGNAL, "vague_retention_language": SIGNAL},
  "legal_terms": {"liability_cap": SIGNAL, "indemnification": SIGNAL, "mandatory_arbitration": SIGNAL,
                  "class_action_waiver": SIGNAL, "unilateral_modification": SIGNAL,
                  "termination_without_notice": SIGNAL, "perpetual_license": SIGNAL},
  "red_flags": [{"clause": "", "severity": "low|medium|high", "explanation": ""}],
  "scores": {"privacy_score": 0, "posture": "low_risk|moderate_risk|high_risk|unknown",
             "posture_explanation": "", "data_minimization": 0, "retention_transparency": 0,
             "third_party_exposure": 0, "user_control": 0}
}

SIGNAL means {"status": "true|false|not_found|unknown", "evidence": "", "explanation": "", "mitigation": ""}.

Rules:
- Every "types" array may only use these values, per category:
  personal_identifiers: name, email, phone_number, physical_address, date_of_birth, government_id,
    financial_account, biometric, photo, gender, nationality, race_ethnicity, ip_address
  precise_location: precise_gps, coarse_location, wifi_cell, ip_derived
  device_fingerprinting: device_id, browser_info, os, screen_resolution, language, timezone,
    fingerprint, ip_address
  user_content: posts, messages, photos, videos, search_history, purchase_history, contacts
  third_party_data: social_media, advertisers, analytics, data_brokers, affiliates
  sensitive_data: health, biometric, genetic, political, religious, sexual_orientation,
    union_membership, criminal, race_ethnicity
  children_data: age_under_13, age_13_to_17, parental_consent_required
- "evidence" is a direct quote from the documents, or empty.
- "explanation" and "mitigation" are at most 15 words each; they are shown in a small overlay popup.
- "retention_explanation" is overlay-ready: implications, vagueness, and what users can do.
- Scores are 0-100. Be conservative: when unsure, use "unknown" / "not_found".

Documents:

%s`
