package models

import "time"

// AuditEntry is one immutable record of the hash-chained audit log. Each
// entry binds the previous entry's hash, so any rewrite of history breaks
// chain verification.
type AuditEntry struct {
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`

	Action  string `json:"action"`
	ItemID  string `json:"item_id,omitempty"`
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`

	PrevHash string `json:"prev_hash"`
	Hash     string `json:"hash"`
}

// VaultStats is the aggregate snapshot returned by the vault.
type VaultStats struct {
	TotalItems       int   `json:"total_items"`
	TotalSize        int64 `json:"total_size"`
	QuarantinedItems int   `json:"quarantined_items"`
	TotalAccesses    int64 `json:"total_accesses"`

	// SecurityScore starts from the encryption strength baseline and
	// decreases monotonically as the quarantine ratio rises.
	SecurityScore float64 `json:"security_score"`

	// FalsePositiveRate is released / max(quarantined, 1), counted over
	// the vault's lifetime. It measures reviewer overturns, not actual
	// classifier accuracy; kept as a defined metric pending product
	// clarification.
	FalsePositiveRate float64 `json:"false_positive_rate"`
}
