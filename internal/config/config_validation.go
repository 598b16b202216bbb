// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. Zero values mean
// "use the built-in default" and are always accepted.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Vault.MaxSize < 0 {
		return fmt.Errorf("%w: negative max size", ErrInvalidVaultConfigs)
	}

	q := cfg.Quarantine
	if q.QuarantineThreshold < 0 || q.QuarantineThreshold > 1 {
		return fmt.Errorf("%w: quarantine threshold %v outside [0, 1]", ErrInvalidQuarantineConfigs, q.QuarantineThreshold)
	}
	if q.HighRiskThreshold < 0 || q.HighRiskThreshold > 1 {
		return fmt.Errorf("%w: high-risk threshold %v outside [0, 1]", ErrInvalidQuarantineConfigs, q.HighRiskThreshold)
	}
	if q.QuarantineThreshold > 0 && q.HighRiskThreshold > 0 && q.HighRiskThreshold < q.QuarantineThreshold {
		return fmt.Errorf("%w: high-risk threshold below quarantine threshold", ErrInvalidQuarantineConfigs)
	}

	if cfg.Deletion.MaxConcurrentJobs < 0 {
		return fmt.Errorf("%w: negative concurrency bound", ErrInvalidDeletionConfigs)
	}
	if cfg.Deletion.Retention < 0 {
		return fmt.Errorf("%w: negative retention", ErrInvalidDeletionConfigs)
	}

	return nil
}
