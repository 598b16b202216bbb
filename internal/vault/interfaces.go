// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault implements the content vault: the encrypted item catalog
// with encrypt-on-write, decrypt-on-read, capacity accounting, per-item
// quarantine flags and a tamper-evident access log.
package vault

import (
	"context"

	"github.com/MKhiriev/go-content-vault/models"
)

// AddParams carries one ingest request into the vault.
type AddParams struct {
	Name        string
	ContentType string
	Tags        []string
	Content     []byte

	// Verdict, when present, is applied at ingest. An unsafe verdict sets
	// the quarantine flag before AddItem returns; the item is never
	// observable in a readable state.
	Verdict *models.Verdict

	// QuarantineReason, when non-empty, stores the item already
	// quarantined with this reason, overriding the generic one derived
	// from the verdict. Used by the quarantine engine so its decision
	// text survives into the catalog.
	QuarantineReason string
	QuarantineTier   models.RiskTier
}

// Vault is the service boundary of the content vault.
type Vault interface {
	Initialize(ctx context.Context) error

	AddItem(ctx context.Context, params AddParams) (models.VaultItem, error)
	GetItem(ctx context.Context, itemID string) (models.VaultItem, []byte, error)
	RemoveItem(ctx context.Context, itemID string, secure bool) (*models.DeletionJob, error)

	Item(ctx context.Context, itemID string) (models.VaultItem, error)
	ListItems(ctx context.Context, tag string) ([]models.VaultItem, error)

	QuarantineItem(ctx context.Context, itemID, reason string, tier models.RiskTier) error
	ReleaseItem(ctx context.Context, itemID string) error
	UpdateVerdict(ctx context.Context, itemID string, verdict models.Verdict) error

	Stats(ctx context.Context) (models.VaultStats, error)
}

// SecureDeleter is the slice of the deletion service the vault needs for
// its secure remove path.
type SecureDeleter interface {
	Destroy(ctx context.Context, targetID, methodID string) (models.DeletionJob, error)
}
