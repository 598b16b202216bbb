// Package store provides the persistence backends of the vault: the blob
// store holding sealed payloads, and catalog/event stores holding item and
// quarantine-event records. Memory implementations back tests and ephemeral
// vaults; the sqlite implementation persists across restarts.
package store

import (
	"context"

	"github.com/MKhiriev/go-content-vault/models"
)

// CatalogStore owns vault item records. Implementations must be safe for
// concurrent use.
type CatalogStore interface {
	SaveItem(ctx context.Context, item models.VaultItem) error
	GetItem(ctx context.Context, id string) (models.VaultItem, error)
	UpdateItem(ctx context.Context, item models.VaultItem) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context) ([]models.VaultItem, error)
}

// EventStore owns the append-only quarantine event log. Events are never
// mutated except to attach a review outcome via UpdateEvent.
type EventStore interface {
	AppendEvent(ctx context.Context, event models.QuarantineEvent) error
	GetEvent(ctx context.Context, id string) (models.QuarantineEvent, error)
	UpdateEvent(ctx context.Context, event models.QuarantineEvent) error

	// ListEvents returns events most-recent-first; limit <= 0 returns all.
	ListEvents(ctx context.Context, limit int) ([]models.QuarantineEvent, error)
}

// BlobStore holds the sealed payload bytes of vault items, one extent per
// item id. Overwrite and Sync exist for the secure-deletion service, which
// must be able to rewrite the full extent pass by pass and flush each pass
// to durable storage before starting the next one.
type BlobStore interface {
	Write(ctx context.Context, id string, data []byte) error
	Read(ctx context.Context, id string) ([]byte, error)
	Size(ctx context.Context, id string) (int64, error)

	// Overwrite rewrites len(chunk) bytes of the extent at offset without
	// truncating or growing it.
	Overwrite(ctx context.Context, id string, offset int64, chunk []byte) error

	// Sync flushes previous writes to durable storage.
	Sync(ctx context.Context, id string) error

	Remove(ctx context.Context, id string) error
}
