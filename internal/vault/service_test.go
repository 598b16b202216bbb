package vault

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-content-vault/internal/audit"
	"github.com/MKhiriev/go-content-vault/internal/crypto"
	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/store"
	"github.com/MKhiriev/go-content-vault/models"
)

type stubDeleter struct {
	blobs     store.BlobStore
	destroyed []string
}

func (d *stubDeleter) Destroy(ctx context.Context, targetID, methodID string) (models.DeletionJob, error) {
	d.destroyed = append(d.destroyed, targetID)
	if err := d.blobs.Remove(ctx, targetID); err != nil {
		return models.DeletionJob{}, err
	}
	return models.DeletionJob{
		ID:       "job-1",
		TargetID: targetID,
		MethodID: "dod-3pass",
		Status:   models.JobCompleted,
		Progress: 100,
	}, nil
}

type unhealthyKeys struct {
	crypto.KeyProvider
}

func (unhealthyKeys) HealthStatus(context.Context) crypto.Health {
	return crypto.HealthUnhealthy
}

type testVault struct {
	Vault
	catalog store.CatalogStore
	blobs   store.BlobStore
	deleter *stubDeleter
}

func newTestVault(t *testing.T, cfg Config) *testVault {
	t.Helper()

	catalog := store.NewMemoryCatalog()
	blobs := store.NewMemoryBlobStore()
	deleter := &stubDeleter{blobs: blobs}
	keys := crypto.NewLocalKeyProvider("passphrase", []byte("0123456789abcdef"))

	v := NewService(catalog, blobs, crypto.NewGCMEngine(), keys, deleter, audit.NewLedger(nil, logger.Nop()), cfg, logger.Nop())
	require.NoError(t, v.Initialize(context.Background()))

	return &testVault{Vault: v, catalog: catalog, blobs: blobs, deleter: deleter}
}

func TestVault_InitializeRefusesUnhealthyKeyProvider(t *testing.T) {
	v := NewService(store.NewMemoryCatalog(), store.NewMemoryBlobStore(), crypto.NewGCMEngine(), unhealthyKeys{}, nil, audit.NewLedger(nil, logger.Nop()), Config{}, logger.Nop())

	err := v.Initialize(context.Background())
	assert.ErrorIs(t, err, ErrKeyProviderUnhealthy)

	_, err = v.AddItem(context.Background(), AddParams{Name: "n", Content: []byte("x")})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestVault_AddGetRoundtrip(t *testing.T) {
	v := newTestVault(t, Config{})
	content := []byte("confidential payload")

	item, err := v.AddItem(context.Background(), AddParams{
		Name:        "report.pdf",
		ContentType: "application/pdf",
		Tags:        []string{"finance"},
		Content:     content,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, int64(len(content)), item.Metadata.OriginalSize)
	assert.NotEmpty(t, item.Metadata.KeyID)
	assert.False(t, item.Quarantined)

	got, plaintext, err := v.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, content, plaintext)
	assert.Equal(t, int64(1), got.Metadata.AccessCount)
	assert.WithinDuration(t, time.Now(), got.LastAccessedAt, time.Minute)

	// sealed blob never equals the plaintext
	blob, err := v.blobs.Read(context.Background(), item.ID)
	require.NoError(t, err)
	assert.NotEqual(t, content, blob[:len(content)])
}

func TestVault_UnsafeVerdictQuarantinesAtIngest(t *testing.T) {
	v := newTestVault(t, Config{})

	item, err := v.AddItem(context.Background(), AddParams{
		Name:    "dropper.exe",
		Content: []byte("malware body"),
		Verdict: &models.Verdict{
			IsUnsafe:   true,
			Confidence: 0.95,
			Categories: []string{"malware"},
			RiskTier:   models.RiskTierCritical,
		},
	})
	require.NoError(t, err)
	assert.True(t, item.Quarantined)
	assert.Equal(t, models.RiskTierCritical, item.RiskTier)

	_, _, err = v.GetItem(context.Background(), item.ID)
	assert.ErrorIs(t, err, ErrItemQuarantined)
}

func TestVault_CapacityExceededStoresNothing(t *testing.T) {
	v := newTestVault(t, Config{MaxVaultSize: 10})

	_, err := v.AddItem(context.Background(), AddParams{Name: "small", Content: []byte("123456")})
	require.NoError(t, err)

	_, err = v.AddItem(context.Background(), AddParams{Name: "big", Content: []byte("123456789")})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	items, err := v.ListItems(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestVault_ConcurrentAddsNeverOvercommit(t *testing.T) {
	v := newTestVault(t, Config{MaxVaultSize: 100})

	// четыре одновременных записи по 90 байт: ёмкости хватает ровно на одну
	content := make([]byte, 90)
	start := make(chan struct{})
	errs := make([]error, 4)

	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = v.AddItem(context.Background(), AddParams{Name: "blob", Content: content})
		}(i)
	}
	close(start)
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 1, succeeded)

	stats, err := v.Stats(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, stats.TotalSize, int64(100))
}

type faultyBlobStore struct {
	store.BlobStore
	failWrites  int
	failRemoves int
}

func (b *faultyBlobStore) Write(ctx context.Context, itemID string, blob []byte) error {
	if b.failWrites > 0 {
		b.failWrites--
		return errors.New("disk full")
	}
	return b.BlobStore.Write(ctx, itemID, blob)
}

func (b *faultyBlobStore) Remove(ctx context.Context, itemID string) error {
	if b.failRemoves > 0 {
		b.failRemoves--
		return errors.New("permission denied")
	}
	return b.BlobStore.Remove(ctx, itemID)
}

func TestVault_FailedAddReturnsReservation(t *testing.T) {
	blobs := &faultyBlobStore{BlobStore: store.NewMemoryBlobStore(), failWrites: 1}
	keys := crypto.NewLocalKeyProvider("passphrase", []byte("0123456789abcdef"))
	v := NewService(store.NewMemoryCatalog(), blobs, crypto.NewGCMEngine(), keys, nil,
		audit.NewLedger(nil, logger.Nop()), Config{MaxVaultSize: 10}, logger.Nop())
	require.NoError(t, v.Initialize(context.Background()))

	_, err := v.AddItem(context.Background(), AddParams{Name: "a", Content: []byte("12345678")})
	require.Error(t, err)

	// зарезервированные байты вернулись, место свободно
	_, err = v.AddItem(context.Background(), AddParams{Name: "b", Content: []byte("12345678")})
	require.NoError(t, err)
}

func TestVault_InitializeRestoresCapacityFromCatalog(t *testing.T) {
	catalog := store.NewMemoryCatalog()
	existing := models.VaultItem{ID: "pre-1", Name: "old", Metadata: models.ItemMetadata{OriginalSize: 60}}
	require.NoError(t, catalog.SaveItem(context.Background(), existing))

	keys := crypto.NewLocalKeyProvider("passphrase", []byte("0123456789abcdef"))
	v := NewService(catalog, store.NewMemoryBlobStore(), crypto.NewGCMEngine(), keys, nil,
		audit.NewLedger(nil, logger.Nop()), Config{MaxVaultSize: 100}, logger.Nop())
	require.NoError(t, v.Initialize(context.Background()))

	_, err := v.AddItem(context.Background(), AddParams{Name: "big", Content: make([]byte, 50)})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = v.AddItem(context.Background(), AddParams{Name: "fits", Content: make([]byte, 40)})
	assert.NoError(t, err)
}

func TestVault_RemoveFreesCapacity(t *testing.T) {
	v := newTestVault(t, Config{MaxVaultSize: 10})

	item, err := v.AddItem(context.Background(), AddParams{Name: "full", Content: []byte("0123456789")})
	require.NoError(t, err)

	_, err = v.AddItem(context.Background(), AddParams{Name: "extra", Content: []byte("x")})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = v.RemoveItem(context.Background(), item.ID, false)
	require.NoError(t, err)

	_, err = v.AddItem(context.Background(), AddParams{Name: "again", Content: []byte("0123456789")})
	assert.NoError(t, err)
}

func TestVault_StorageFailuresRecordedInAuditTrail(t *testing.T) {
	blobs := &faultyBlobStore{BlobStore: store.NewMemoryBlobStore()}
	keys := crypto.NewLocalKeyProvider("passphrase", []byte("0123456789abcdef"))
	ledger := audit.NewLedger(nil, logger.Nop())
	v := NewService(store.NewMemoryCatalog(), blobs, crypto.NewGCMEngine(), keys, nil,
		ledger, Config{}, logger.Nop())
	require.NoError(t, v.Initialize(context.Background()))

	blobs.failWrites = 1
	_, err := v.AddItem(context.Background(), AddParams{Name: "a", Content: []byte("data")})
	require.Error(t, err)

	entries := ledger.List(1)
	require.Len(t, entries, 1)
	assert.Equal(t, "item_added", entries[0].Action)
	assert.False(t, entries[0].Success)
	assert.Contains(t, entries[0].Reason, "disk full")

	item, err := v.AddItem(context.Background(), AddParams{Name: "b", Content: []byte("data")})
	require.NoError(t, err)

	blobs.failRemoves = 1
	_, err = v.RemoveItem(context.Background(), item.ID, false)
	require.Error(t, err)

	entries = ledger.List(1)
	require.Len(t, entries, 1)
	assert.Equal(t, "item_removed", entries[0].Action)
	assert.False(t, entries[0].Success)
	assert.Contains(t, entries[0].Reason, "permission denied")
	require.NoError(t, ledger.Verify())
}

func TestVault_IntegrityViolationQuarantines(t *testing.T) {
	v := newTestVault(t, Config{})

	item, err := v.AddItem(context.Background(), AddParams{Name: "doc", Content: []byte("original")})
	require.NoError(t, err)

	// simulate catalog corruption: recorded hash no longer matches content
	item.Metadata.ContentHash = "0000"
	require.NoError(t, v.catalog.UpdateItem(context.Background(), item))

	_, _, err = v.GetItem(context.Background(), item.ID)
	assert.ErrorIs(t, err, ErrIntegrityViolation)

	after, err := v.Item(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, after.Quarantined)
	assert.Equal(t, models.RiskTierCritical, after.RiskTier)
}

func TestVault_RemoveItemPlain(t *testing.T) {
	v := newTestVault(t, Config{})

	item, err := v.AddItem(context.Background(), AddParams{Name: "doc", Content: []byte("data")})
	require.NoError(t, err)

	job, err := v.RemoveItem(context.Background(), item.ID, false)
	require.NoError(t, err)
	assert.Nil(t, job)

	_, err = v.Item(context.Background(), item.ID)
	assert.ErrorIs(t, err, store.ErrItemNotFound)
	_, err = v.blobs.Read(context.Background(), item.ID)
	assert.ErrorIs(t, err, store.ErrBlobNotFound)
}

func TestVault_RemoveItemSecure(t *testing.T) {
	v := newTestVault(t, Config{})

	item, err := v.AddItem(context.Background(), AddParams{Name: "doc", Content: []byte("data")})
	require.NoError(t, err)

	job, err := v.RemoveItem(context.Background(), item.ID, true)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, models.JobCompleted, job.Status)
	assert.Equal(t, []string{item.ID}, v.deleter.destroyed)

	_, err = v.Item(context.Background(), item.ID)
	assert.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestVault_QuarantineReleaseIdempotent(t *testing.T) {
	v := newTestVault(t, Config{})

	item, err := v.AddItem(context.Background(), AddParams{Name: "doc", Content: []byte("data")})
	require.NoError(t, err)

	require.NoError(t, v.QuarantineItem(context.Background(), item.ID, "manual hold", models.RiskTierHigh))
	require.NoError(t, v.QuarantineItem(context.Background(), item.ID, "again", models.RiskTierHigh))

	held, err := v.Item(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, held.Quarantined)
	assert.Equal(t, "manual hold", held.QuarantineReason)

	require.NoError(t, v.ReleaseItem(context.Background(), item.ID))
	require.NoError(t, v.ReleaseItem(context.Background(), item.ID))

	released, err := v.Item(context.Background(), item.ID)
	require.NoError(t, err)
	assert.False(t, released.Quarantined)
	assert.Empty(t, released.QuarantineReason)

	// one quarantine, one release over the vault lifetime
	stats, err := v.Stats(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, stats.FalsePositiveRate, 1e-9)
}

func TestVault_ListItemsByTag(t *testing.T) {
	v := newTestVault(t, Config{})

	_, err := v.AddItem(context.Background(), AddParams{Name: "a", Content: []byte("a"), Tags: []string{"finance", "q3"}})
	require.NoError(t, err)
	_, err = v.AddItem(context.Background(), AddParams{Name: "b", Content: []byte("b"), Tags: []string{"legal"}})
	require.NoError(t, err)

	finance, err := v.ListItems(context.Background(), "finance")
	require.NoError(t, err)
	require.Len(t, finance, 1)
	assert.Equal(t, "a", finance[0].Name)

	all, err := v.ListItems(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestVault_SecurityScoreDropsWithQuarantineRatio(t *testing.T) {
	v := newTestVault(t, Config{})

	a, err := v.AddItem(context.Background(), AddParams{Name: "a", Content: []byte("aa")})
	require.NoError(t, err)
	_, err = v.AddItem(context.Background(), AddParams{Name: "b", Content: []byte("bb")})
	require.NoError(t, err)

	before, err := v.Stats(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100, before.SecurityScore, 1e-9)
	assert.Equal(t, int64(4), before.TotalSize)

	require.NoError(t, v.QuarantineItem(context.Background(), a.ID, "hold", models.RiskTierMedium))

	after, err := v.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, after.QuarantinedItems)
	assert.Less(t, after.SecurityScore, before.SecurityScore)
}

func TestVault_UpdateVerdict(t *testing.T) {
	v := newTestVault(t, Config{})

	item, err := v.AddItem(context.Background(), AddParams{Name: "doc", Content: []byte("data")})
	require.NoError(t, err)

	verdict := models.Verdict{IsUnsafe: true, Confidence: 0.7, Categories: []string{"phishing"}, RiskTier: models.RiskTierHigh}
	require.NoError(t, v.UpdateVerdict(context.Background(), item.ID, verdict))

	got, err := v.Item(context.Background(), item.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Metadata.LastVerdict)
	assert.Equal(t, verdict, *got.Metadata.LastVerdict)
	assert.Equal(t, models.RiskTierHigh, got.RiskTier)
	// a verdict alone never flips the quarantine flag
	assert.False(t, got.Quarantined)
}
