// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-content-vault/internal/audit"
	"github.com/MKhiriev/go-content-vault/internal/crypto"
	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/store"
	"github.com/MKhiriev/go-content-vault/internal/utils"
	"github.com/MKhiriev/go-content-vault/models"
)

// stripeCount sizes the per-item lock table. Item ids hash onto stripes so
// read-modify-write sequences on one item never interleave.
const stripeCount = 32

// Config tunes the vault service.
type Config struct {
	// MaxVaultSize caps the sum of plaintext sizes stored in the vault,
	// in bytes. Zero means unlimited.
	MaxVaultSize int64
}

type vaultService struct {
	catalog store.CatalogStore
	blobs   store.BlobStore
	engine  crypto.CipherEngine
	keys    crypto.KeyProvider
	deleter SecureDeleter
	ledger  *audit.Ledger
	logger  *logger.Logger

	maxVaultSize int64
	initialized  atomic.Bool

	// usedBytes is the running sum of stored plaintext sizes. Reservations
	// against it happen before any write, so concurrent adds cannot
	// overcommit past maxVaultSize.
	usedBytes atomic.Int64

	// lifetime counters backing the false-positive-rate metric
	quarantinedTotal atomic.Int64
	releasedTotal    atomic.Int64

	stripes [stripeCount]sync.Mutex
}

// NewService constructs the content vault. Initialize must be called before
// any other operation.
func NewService(catalog store.CatalogStore, blobs store.BlobStore, engine crypto.CipherEngine, keys crypto.KeyProvider, deleter SecureDeleter, ledger *audit.Ledger, cfg Config, log *logger.Logger) Vault {
	return &vaultService{
		catalog:      catalog,
		blobs:        blobs,
		engine:       engine,
		keys:         keys,
		deleter:      deleter,
		ledger:       ledger,
		logger:       log,
		maxVaultSize: cfg.MaxVaultSize,
	}
}

// Initialize verifies the key provider before the vault accepts traffic. A
// provider that is not healthy refuses initialization outright; running with
// a bad key source would make every sealed payload unrecoverable.
func (s *vaultService) Initialize(ctx context.Context) error {
	if health := s.keys.HealthStatus(ctx); health != crypto.HealthHealthy {
		s.ledger.Record(ctx, "vault_initialize", "", false, "key provider "+string(health))
		return fmt.Errorf("%w: status %s", ErrKeyProviderUnhealthy, health)
	}

	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		s.ledger.Record(ctx, "vault_initialize", "", false, err.Error())
		return fmt.Errorf("restore capacity accounting: %w", err)
	}
	var used int64
	for _, item := range items {
		used += item.Metadata.OriginalSize
	}
	s.usedBytes.Store(used)

	s.initialized.Store(true)
	s.ledger.Record(ctx, "vault_initialize", "", true, "")
	s.logger.Info().Int64("used_bytes", used).Msg("vault initialized")
	return nil
}

// AddItem seals the payload under a fresh per-item data key and stores it.
// An unsafe verdict passed in with the request quarantines the item before
// it is ever observable; the write is rejected whole when it would exceed
// the configured capacity.
func (s *vaultService) AddItem(ctx context.Context, params AddParams) (models.VaultItem, error) {
	if !s.initialized.Load() {
		return models.VaultItem{}, ErrNotInitialized
	}

	size := int64(len(params.Content))
	if err := s.reserveCapacity(size); err != nil {
		s.ledger.Record(ctx, "item_added", "", false, err.Error())
		return models.VaultItem{}, err
	}
	// every failure below must hand the reservation back
	fail := func(itemID string, err error) (models.VaultItem, error) {
		s.releaseCapacity(size)
		s.ledger.Record(ctx, "item_added", itemID, false, err.Error())
		return models.VaultItem{}, err
	}

	wrapped, keyID, err := s.keys.WrapDataKey(ctx)
	if err != nil {
		return fail("", fmt.Errorf("wrap data key: %w", err))
	}
	dek, err := s.keys.UnwrapDataKey(ctx, wrapped)
	if err != nil {
		return fail("", fmt.Errorf("unwrap fresh data key: %w", err))
	}

	itemID := utils.NewID()
	nonce, ciphertext, tag, err := s.engine.Seal(dek, params.Content, []byte(itemID))
	if err != nil {
		return fail(itemID, fmt.Errorf("seal payload: %w", err))
	}

	now := time.Now()
	item := models.VaultItem{
		ID:         itemID,
		Name:       params.Name,
		Nonce:      nonce,
		SealedSize: int64(len(ciphertext) + len(tag)),
		Metadata: models.ItemMetadata{
			OriginalSize: size,
			ContentType:  params.ContentType,
			ContentHash:  utils.ContentHash(params.Content),
			Algorithm:    s.engine.Algorithm(),
			KeyID:        keyID,
			WrappedKey:   wrapped,
			Tags:         params.Tags,
			LastVerdict:  params.Verdict,
		},
		AddedAt: now,
	}

	if v := params.Verdict; v != nil {
		item.RiskTier = v.RiskTier
		if v.IsUnsafe {
			item.Quarantined = true
			item.QuarantineReason = fmt.Sprintf("unsafe at ingest: %s", v.Categories)
		}
	}
	if params.QuarantineReason != "" {
		item.Quarantined = true
		item.QuarantineReason = params.QuarantineReason
		if params.QuarantineTier != "" {
			item.RiskTier = params.QuarantineTier
		}
	}
	if err := s.blobs.Write(ctx, itemID, append(ciphertext, tag...)); err != nil {
		return fail(itemID, fmt.Errorf("write sealed payload: %w", err))
	}
	if err := s.catalog.SaveItem(ctx, item); err != nil {
		// keep the write atomic: no orphaned blob on catalog failure
		if rmErr := s.blobs.Remove(ctx, itemID); rmErr != nil {
			s.logger.Error().Err(rmErr).Str("item_id", itemID).Msg("orphaned blob after catalog failure")
		}
		return fail(itemID, fmt.Errorf("save catalog record: %w", err))
	}

	if item.Quarantined {
		s.quarantinedTotal.Add(1)
	}
	s.ledger.Record(ctx, "item_added", itemID, true, params.Name)
	if item.Quarantined {
		s.ledger.Record(ctx, "item_quarantined", itemID, true, item.QuarantineReason)
	}
	return item, nil
}

// GetItem opens the sealed payload and returns it with the catalog record.
// Quarantined items are categorically unreadable through this path. A
// post-decrypt hash mismatch quarantines the item and fails the read.
func (s *vaultService) GetItem(ctx context.Context, itemID string) (models.VaultItem, []byte, error) {
	if !s.initialized.Load() {
		return models.VaultItem{}, nil, ErrNotInitialized
	}

	lock := s.stripe(itemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return models.VaultItem{}, nil, err
	}
	if item.Quarantined {
		s.ledger.Record(ctx, "item_accessed", itemID, false, "denied: "+item.QuarantineReason)
		return models.VaultItem{}, nil, fmt.Errorf("%w: %s", ErrItemQuarantined, item.QuarantineReason)
	}

	plaintext, err := s.open(ctx, item)
	if err != nil {
		if errors.Is(err, ErrIntegrityViolation) {
			s.quarantineLocked(ctx, &item, "integrity violation on read", models.RiskTierCritical)
		}
		s.ledger.Record(ctx, "item_accessed", itemID, false, err.Error())
		return models.VaultItem{}, nil, err
	}

	item.Metadata.AccessCount++
	item.LastAccessedAt = time.Now()
	if err := s.catalog.UpdateItem(ctx, item); err != nil {
		return models.VaultItem{}, nil, fmt.Errorf("update access record: %w", err)
	}

	s.ledger.Record(ctx, "item_accessed", itemID, true, "")
	return item, plaintext, nil
}

// RemoveItem deletes an item. With secure set, the payload goes through the
// certified multi-pass destruction service and the finished job is returned;
// otherwise the blob and catalog record are simply dropped.
func (s *vaultService) RemoveItem(ctx context.Context, itemID string, secure bool) (*models.DeletionJob, error) {
	if !s.initialized.Load() {
		return nil, ErrNotInitialized
	}

	lock := s.stripe(itemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var job *models.DeletionJob
	if secure {
		finished, err := s.deleter.Destroy(ctx, itemID, "")
		if err != nil {
			s.ledger.Record(ctx, "item_removed", itemID, false, err.Error())
			return nil, fmt.Errorf("secure destruction: %w", err)
		}
		job = &finished
	} else if err := s.blobs.Remove(ctx, itemID); err != nil && !errors.Is(err, store.ErrBlobNotFound) {
		s.ledger.Record(ctx, "item_removed", itemID, false, err.Error())
		return nil, fmt.Errorf("remove payload: %w", err)
	}

	if err := s.catalog.DeleteItem(ctx, itemID); err != nil {
		s.ledger.Record(ctx, "item_removed", itemID, false, err.Error())
		return nil, fmt.Errorf("delete catalog record: %w", err)
	}
	s.releaseCapacity(item.Metadata.OriginalSize)

	reason := "plain remove"
	if secure {
		reason = "secure destruction, method " + job.MethodID
	}
	s.ledger.Record(ctx, "item_removed", itemID, true, reason)
	return job, nil
}

// Item returns the catalog record without opening the payload.
func (s *vaultService) Item(ctx context.Context, itemID string) (models.VaultItem, error) {
	if !s.initialized.Load() {
		return models.VaultItem{}, ErrNotInitialized
	}
	return s.catalog.GetItem(ctx, itemID)
}

// ListItems returns catalog records, optionally filtered to items carrying
// the given tag.
func (s *vaultService) ListItems(ctx context.Context, tag string) ([]models.VaultItem, error) {
	if !s.initialized.Load() {
		return nil, ErrNotInitialized
	}

	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return items, nil
	}

	filtered := items[:0]
	for _, item := range items {
		for _, t := range item.Metadata.Tags {
			if t == tag {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered, nil
}

// QuarantineItem flags an item. Quarantining an already-quarantined item is
// a no-op.
func (s *vaultService) QuarantineItem(ctx context.Context, itemID, reason string, tier models.RiskTier) error {
	if !s.initialized.Load() {
		return ErrNotInitialized
	}

	lock := s.stripe(itemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.Quarantined {
		return nil
	}

	return s.quarantineLocked(ctx, &item, reason, tier)
}

// ReleaseItem clears the quarantine flag after a review overturned it.
// Releasing a non-quarantined item is a no-op.
func (s *vaultService) ReleaseItem(ctx context.Context, itemID string) error {
	if !s.initialized.Load() {
		return ErrNotInitialized
	}

	lock := s.stripe(itemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.Quarantined {
		return nil
	}

	item.Quarantined = false
	item.QuarantineReason = ""
	item.RiskTier = models.RiskTierLow
	if err := s.catalog.UpdateItem(ctx, item); err != nil {
		return fmt.Errorf("update catalog record: %w", err)
	}

	s.releasedTotal.Add(1)
	s.ledger.Record(ctx, "item_released", itemID, true, "")
	return nil
}

// UpdateVerdict records a fresh classifier verdict on the item, typically
// from a rescan sweep. It does not change the quarantine flag; acting on
// the verdict is the quarantine engine's decision.
func (s *vaultService) UpdateVerdict(ctx context.Context, itemID string, verdict models.Verdict) error {
	if !s.initialized.Load() {
		return ErrNotInitialized
	}

	lock := s.stripe(itemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	item.Metadata.LastVerdict = &verdict
	if verdict.RiskTier != "" {
		item.RiskTier = verdict.RiskTier
	}
	return s.catalog.UpdateItem(ctx, item)
}

// Stats aggregates the vault snapshot. The security score starts from the
// AEAD baseline of 100 and decreases monotonically with the quarantine
// ratio; a vault where every item is quarantined scores 0.
func (s *vaultService) Stats(ctx context.Context) (models.VaultStats, error) {
	if !s.initialized.Load() {
		return models.VaultStats{}, ErrNotInitialized
	}

	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return models.VaultStats{}, err
	}

	stats := models.VaultStats{TotalItems: len(items)}
	for _, item := range items {
		stats.TotalSize += item.Metadata.OriginalSize
		stats.TotalAccesses += item.Metadata.AccessCount
		if item.Quarantined {
			stats.QuarantinedItems++
		}
	}

	stats.SecurityScore = 100
	if stats.TotalItems > 0 {
		ratio := float64(stats.QuarantinedItems) / float64(stats.TotalItems)
		stats.SecurityScore = 100 * (1 - ratio)
	}

	quarantined := s.quarantinedTotal.Load()
	if quarantined < 1 {
		quarantined = 1
	}
	stats.FalsePositiveRate = float64(s.releasedTotal.Load()) / float64(quarantined)

	return stats, nil
}

// quarantineLocked flags the item. The caller holds the item's stripe lock.
func (s *vaultService) quarantineLocked(ctx context.Context, item *models.VaultItem, reason string, tier models.RiskTier) error {
	item.Quarantined = true
	item.QuarantineReason = reason
	if tier != "" {
		item.RiskTier = tier
	}
	if err := s.catalog.UpdateItem(ctx, *item); err != nil {
		return fmt.Errorf("update catalog record: %w", err)
	}

	s.quarantinedTotal.Add(1)
	s.ledger.Record(ctx, "item_quarantined", item.ID, true, reason)
	s.logger.Warn().Str("item_id", item.ID).Str("reason", reason).Msg("item quarantined")
	return nil
}

// open unwraps the item's data key, splits the stored blob back into
// ciphertext and tag, decrypts and re-verifies the content hash recorded at
// write time.
func (s *vaultService) open(ctx context.Context, item models.VaultItem) ([]byte, error) {
	dek, err := s.keys.UnwrapDataKey(ctx, item.Metadata.WrappedKey)
	if err != nil {
		return nil, fmt.Errorf("unwrap data key: %w", err)
	}

	blob, err := s.blobs.Read(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	overhead := s.engine.Overhead()
	if len(blob) < overhead {
		return nil, fmt.Errorf("%w: sealed payload shorter than tag", ErrIntegrityViolation)
	}
	ciphertext, tag := blob[:len(blob)-overhead], blob[len(blob)-overhead:]

	plaintext, err := s.engine.Open(dek, item.Nonce, ciphertext, tag, []byte(item.ID))
	if err != nil {
		return nil, fmt.Errorf("open sealed payload: %w", err)
	}

	if utils.ContentHash(plaintext) != item.Metadata.ContentHash {
		return nil, fmt.Errorf("%w: content hash mismatch", ErrIntegrityViolation)
	}
	return plaintext, nil
}

// reserveCapacity claims incoming bytes of the size budget before any write
// happens. Sizes are plaintext sizes; the AEAD overhead is not charged. The
// CAS loop serializes concurrent reservations on the shared total, so two
// adds racing for the last bytes cannot both win.
func (s *vaultService) reserveCapacity(incoming int64) error {
	for {
		current := s.usedBytes.Load()
		if s.maxVaultSize > 0 && current+incoming > s.maxVaultSize {
			return fmt.Errorf("%w: %d + %d exceeds %d bytes", ErrCapacityExceeded, current, incoming, s.maxVaultSize)
		}
		if s.usedBytes.CompareAndSwap(current, current+incoming) {
			return nil
		}
	}
}

// releaseCapacity returns a reservation, after a failed add or a completed
// remove.
func (s *vaultService) releaseCapacity(size int64) {
	s.usedBytes.Add(-size)
}

func (s *vaultService) stripe(itemID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(itemID))
	return &s.stripes[h.Sum32()%stripeCount]
}
