// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-content-vault application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the vault passphrase,
	// token parameters, and the application version.
	App App `envPrefix:"APP_"`

	// Vault holds the content vault settings.
	Vault Vault `envPrefix:"VAULT_"`

	// Quarantine holds the risk-evaluation engine settings: thresholds and
	// allow/deny pattern lists.
	Quarantine Quarantine `envPrefix:"QUARANTINE_"`

	// Deletion holds the secure-deletion service settings.
	Deletion Deletion `envPrefix:"DELETION_"`

	// Classifier holds the remote classifier endpoint settings. An empty
	// URL selects the built-in rule classifier.
	Classifier Classifier `envPrefix:"CLASSIFIER_"`

	// Storage holds configuration for all persistence backends, including
	// the catalog database and the sealed blob store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP
	// server.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control security,
// token lifecycle, and versioning.
type App struct {
	// Passphrase is the secret the key provider derives its key-encryption
	// key from. Must be kept confidential.
	// Env: APP_PASSPHRASE
	Passphrase string `env:"PASSPHRASE"`

	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a JWT token remains valid after
	// issuance (e.g. "1h", "30m").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Vault holds the content vault settings.
type Vault struct {
	// MaxSize caps the sum of stored plaintext sizes, in bytes. Zero means
	// unlimited.
	// Env: VAULT_MAX_SIZE
	MaxSize int64 `env:"MAX_SIZE"`
}

// Quarantine holds the risk-evaluation engine settings.
type Quarantine struct {
	// QuarantineThreshold is the classifier confidence at or above which
	// an unsafe verdict quarantines an item.
	// Env: QUARANTINE_THRESHOLD
	QuarantineThreshold float64 `env:"THRESHOLD"`

	// HighRiskThreshold upgrades quarantine to destruction when
	// AutoDeleteHighRisk is enabled.
	// Env: QUARANTINE_HIGH_RISK_THRESHOLD
	HighRiskThreshold float64 `env:"HIGH_RISK_THRESHOLD"`

	// AutoDeleteHighRisk enables automatic certified destruction of
	// verdicts above HighRiskThreshold.
	// Env: QUARANTINE_AUTO_DELETE_HIGH_RISK
	AutoDeleteHighRisk bool `env:"AUTO_DELETE_HIGH_RISK"`

	// AllowPatterns short-circuit evaluation to pass-through. Name globs
	// or verbatim tags, comma-separated in the environment.
	// Env: QUARANTINE_ALLOW_PATTERNS
	AllowPatterns []string `env:"ALLOW_PATTERNS"`

	// DenyPatterns force quarantine. Same syntax as AllowPatterns.
	// Env: QUARANTINE_DENY_PATTERNS
	DenyPatterns []string `env:"DENY_PATTERNS"`
}

// Deletion holds the secure-deletion service settings.
type Deletion struct {
	// DefaultMethod is the overwrite method used when a request does not
	// name one (e.g. "dod-3pass").
	// Env: DELETION_DEFAULT_METHOD
	DefaultMethod string `env:"DEFAULT_METHOD"`

	// MaxConcurrentJobs bounds simultaneously executing deletion jobs.
	// Env: DELETION_MAX_CONCURRENT_JOBS
	MaxConcurrentJobs int64 `env:"MAX_CONCURRENT_JOBS"`

	// Retention is how long finished jobs stay in history before the
	// prune sweep drops them (e.g. "720h"). Zero disables pruning.
	// Env: DELETION_RETENTION
	Retention time.Duration `env:"RETENTION"`
}

// Classifier holds the remote classification service settings.
type Classifier struct {
	// URL is the base address of the remote classifier. Empty selects the
	// built-in rule classifier.
	// Env: CLASSIFIER_URL
	URL string `env:"URL"`

	// RequestTimeout bounds one classification call including retries.
	// Env: CLASSIFIER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// DB holds the catalog database settings.
	DB DB `envPrefix:"DB_"`

	// Blobs holds the file-system storage settings for sealed payloads.
	Blobs Blobs `envPrefix:"BLOBS_"`
}

// DB holds connection settings for the catalog database backend.
type DB struct {
	// DSN is the SQLite database path (e.g. "./vault.db"). Empty selects
	// the in-memory catalog, which does not survive restarts.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Blobs holds file-system settings for the sealed payload store.
type Blobs struct {
	// Dir is the directory sealed payload files are stored in. Empty
	// selects the in-memory blob store.
	// Env: STORAGE_BLOBS_DIR
	Dir string `env:"DIR"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// RescanInterval is how often the quarantine engine re-evaluates
	// admitted items against the current policy set. Zero disables the
	// sweep.
	// Env: WORKERS_RESCAN_INTERVAL
	RescanInterval time.Duration `env:"RESCAN_INTERVAL"`

	// PruneInterval is how often finished deletion jobs past their
	// retention period are dropped from history. Zero disables pruning.
	// Env: WORKERS_PRUNE_INTERVAL
	PruneInterval time.Duration `env:"PRUNE_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (earlier sources win for fields they set):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
