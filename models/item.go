// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RiskTier is the coarse severity grade attached to classifier verdicts,
// quarantine events and vault items.
type RiskTier string

const (
	RiskTierLow      RiskTier = "low"
	RiskTierMedium   RiskTier = "medium"
	RiskTierHigh     RiskTier = "high"
	RiskTierCritical RiskTier = "critical"
)

// ItemMetadata holds the non-secret bookkeeping fields of a vault item.
// ContentHash is computed over the plaintext at write time and re-verified
// on every successful decrypt.
type ItemMetadata struct {
	OriginalSize int64    `json:"original_size"`
	ContentType  string   `json:"content_type"`
	ContentHash  string   `json:"content_hash"`
	Algorithm    string   `json:"algorithm"`
	KeyID        string   `json:"key_id"`
	WrappedKey   []byte   `json:"wrapped_key"`
	AccessCount  int64    `json:"access_count"`
	Tags         []string `json:"tags,omitempty"`

	// LastVerdict is the most recent classifier verdict recorded for the
	// item, either from ingest or from a rescan sweep. Nil when the item
	// has never been classified.
	LastVerdict *Verdict `json:"last_verdict,omitempty"`
}

// VaultItem is one encrypted entry in the content vault catalog.
//
// The sealed payload lives in the blob store as ciphertext ‖ tag; the
// catalog record keeps the nonce and the authentication tag length so the
// blob can be split and opened without trial decryption.
type VaultItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Nonce is the unique-per-message AEAD nonce used to seal the payload.
	Nonce []byte `json:"nonce"`

	// SealedSize is the size of the stored blob: plaintext size plus the
	// AEAD tag overhead.
	SealedSize int64 `json:"sealed_size"`

	Metadata ItemMetadata `json:"metadata"`

	AddedAt        time.Time `json:"added_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`

	Quarantined      bool     `json:"quarantined"`
	QuarantineReason string   `json:"quarantine_reason,omitempty"`
	RiskTier         RiskTier `json:"risk_tier,omitempty"`
}
