// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package quarantine

import "github.com/MKhiriev/go-content-vault/models"

// DefaultPolicies is the policy set a fresh engine starts with. Deployments
// replace or extend it through the policy endpoints.
func DefaultPolicies() []models.SafetyPolicy {
	return []models.SafetyPolicy{
		{
			ID:          "baseline-malware",
			Name:        "Baseline malware containment",
			Description: "Quarantine anything the classifier tags as executable malware or exploit code.",
			Priority:    100,
			Enabled:     true,
			Rules: []models.SafetyRule{
				{
					Name:       "quarantine-malware",
					Threshold:  0.5,
					Categories: []string{"malware", "exploit"},
					Action:     models.PolicyActionQuarantine,
					Enabled:    true,
				},
			},
		},
		{
			ID:          "credential-exposure",
			Name:        "Credential exposure",
			Description: "Quarantine leaked credential material; flag lower-confidence hits for review.",
			Priority:    50,
			Enabled:     true,
			Rules: []models.SafetyRule{
				{
					Name:       "quarantine-credential-dumps",
					Threshold:  0.7,
					Categories: []string{"credential-leak", "phishing"},
					Action:     models.PolicyActionQuarantine,
					Enabled:    true,
				},
				{
					Name:       "flag-possible-credentials",
					Threshold:  0.4,
					Categories: []string{"credential-leak", "phishing"},
					Action:     models.PolicyActionFlag,
					Enabled:    true,
				},
			},
		},
	}
}
