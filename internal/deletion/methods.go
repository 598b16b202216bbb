// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package deletion

import "github.com/MKhiriev/go-content-vault/models"

// DefaultMethodID is used when a job is created without naming a method and
// no default is configured.
const DefaultMethodID = "dod-3pass"

var (
	zeros  = models.PassPattern{Kind: models.PassZeros}
	ones   = models.PassPattern{Kind: models.PassOnes}
	random = models.PassPattern{Kind: models.PassRandom}
)

func fixed(b ...byte) models.PassPattern {
	return models.PassPattern{Kind: models.PassBytes, Bytes: b}
}

// Methods returns the fixed catalog of overwrite methods. The catalog is
// rebuilt per call so callers can never mutate the shared definitions.
func Methods() map[string]models.DeletionMethod {
	return map[string]models.DeletionMethod{
		"zero-single": {
			ID:             "zero-single",
			Name:           "Single zero-fill pass",
			Passes:         []models.PassPattern{zeros},
			SecurityTier:   models.RiskTierLow,
			ThroughputMBps: 180,
		},
		"random-2pass": {
			ID:             "random-2pass",
			Name:           "Two random passes",
			Passes:         []models.PassPattern{random, random},
			SecurityTier:   models.RiskTierMedium,
			ThroughputMBps: 120,
		},
		"dod-3pass": {
			ID:             "dod-3pass",
			Name:           "DoD 5220.22-M three-pass",
			Passes:         []models.PassPattern{zeros, ones, random},
			SecurityTier:   models.RiskTierHigh,
			ThroughputMBps: 150,
		},
		"dod-7pass": {
			ID:   "dod-7pass",
			Name: "DoD 5220.22-M ECE seven-pass",
			Passes: []models.PassPattern{
				zeros, ones, random,
				zeros, ones, random,
				random,
			},
			SecurityTier:   models.RiskTierHigh,
			ThroughputMBps: 150,
		},
		"gutmann-35pass": {
			ID:             "gutmann-35pass",
			Name:           "Gutmann thirty-five-pass",
			Passes:         gutmannPasses(),
			SecurityTier:   models.RiskTierCritical,
			ThroughputMBps: 140,
		},
	}
}

// gutmannPasses builds the classic 35-pass sequence: 4 random passes, the
// 27 fixed patterns, then 4 more random passes.
func gutmannPasses() []models.PassPattern {
	passes := []models.PassPattern{random, random, random, random}

	passes = append(passes,
		fixed(0x55),
		fixed(0xAA),
		fixed(0x92, 0x49, 0x24),
		fixed(0x49, 0x24, 0x92),
		fixed(0x24, 0x92, 0x49),
	)
	for b := 0x00; b <= 0xFF; b += 0x11 {
		passes = append(passes, fixed(byte(b)))
	}
	passes = append(passes,
		fixed(0x92, 0x49, 0x24),
		fixed(0x49, 0x24, 0x92),
		fixed(0x24, 0x92, 0x49),
		fixed(0x6D, 0xB6, 0xDB),
		fixed(0xB6, 0xDB, 0x6D),
		fixed(0xDB, 0x6D, 0xB6),
	)

	passes = append(passes, random, random, random, random)
	return passes
}
