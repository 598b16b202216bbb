package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidQuarantineConfigs indicates invalid quarantine engine
	// settings (thresholds out of the [0, 1] range or inverted).
	ErrInvalidQuarantineConfigs = errors.New("invalid quarantine configuration")
	// ErrInvalidDeletionConfigs indicates invalid secure-deletion settings
	// (for example, a negative concurrency bound or retention).
	ErrInvalidDeletionConfigs = errors.New("invalid deletion configuration")
	// ErrInvalidVaultConfigs indicates invalid vault settings (for
	// example, a negative capacity).
	ErrInvalidVaultConfigs = errors.New("invalid vault configuration")
)
