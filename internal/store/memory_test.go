package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-content-vault/models"
)

func TestMemoryCatalog_CRUD(t *testing.T) {
	ctx := context.Background()
	catalog := NewMemoryCatalog()

	item := models.VaultItem{
		ID:      "item-1",
		Name:    "a.txt",
		Nonce:   []byte("nonce"),
		AddedAt: time.Now(),
		Metadata: models.ItemMetadata{
			OriginalSize: 5,
			ContentHash:  "hash",
			Tags:         []string{"docs"},
		},
	}
	require.NoError(t, catalog.SaveItem(ctx, item))

	got, err := catalog.GetItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.Name)
	assert.Equal(t, []string{"docs"}, got.Metadata.Tags)

	got.Quarantined = true
	got.QuarantineReason = "manual"
	require.NoError(t, catalog.UpdateItem(ctx, got))

	got, err = catalog.GetItem(ctx, "item-1")
	require.NoError(t, err)
	assert.True(t, got.Quarantined)

	items, err := catalog.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, catalog.DeleteItem(ctx, "item-1"))
	_, err = catalog.GetItem(ctx, "item-1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMemoryCatalog_NotFound(t *testing.T) {
	ctx := context.Background()
	catalog := NewMemoryCatalog()

	_, err := catalog.GetItem(ctx, "ghost")
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, catalog.UpdateItem(ctx, models.VaultItem{ID: "ghost"}), ErrItemNotFound)
	assert.ErrorIs(t, catalog.DeleteItem(ctx, "ghost"), ErrItemNotFound)
}

func TestMemoryEvents_AppendListOrder(t *testing.T) {
	ctx := context.Background()
	events := NewMemoryEvents()

	for _, id := range []string{"e1", "e2", "e3"} {
		require.NoError(t, events.AppendEvent(ctx, models.QuarantineEvent{
			ID: id, Timestamp: time.Now(), Action: models.ActionQuarantined,
		}))
	}

	// most-recent-first
	all, err := events.ListEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "e3", all[0].ID)
	assert.Equal(t, "e1", all[2].ID)

	limited, err := events.ListEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "e3", limited[0].ID)
}

func TestMemoryEvents_UpdateAttachesReview(t *testing.T) {
	ctx := context.Background()
	events := NewMemoryEvents()

	require.NoError(t, events.AppendEvent(ctx, models.QuarantineEvent{ID: "e1"}))

	event, err := events.GetEvent(ctx, "e1")
	require.NoError(t, err)
	event.Review = &models.ReviewState{Reviewed: true, Reviewer: "alice"}
	require.NoError(t, events.UpdateEvent(ctx, event))

	got, err := events.GetEvent(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got.Review)
	assert.Equal(t, "alice", got.Review.Reviewer)

	assert.ErrorIs(t, events.UpdateEvent(ctx, models.QuarantineEvent{ID: "ghost"}), ErrEventNotFound)
	_, err = events.GetEvent(ctx, "ghost")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestMemoryBlobStore_Roundtrip(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()

	data := []byte("sealed payload")
	require.NoError(t, blobs.Write(ctx, "b1", data))

	// the store keeps its own copy
	data[0] = 'X'
	got, err := blobs.Read(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []byte("sealed payload"), got)

	size, err := blobs.Size(ctx, "b1")
	require.NoError(t, err)
	assert.EqualValues(t, len(got), size)
}

func TestMemoryBlobStore_OverwriteSemantics(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	require.NoError(t, blobs.Write(ctx, "b1", []byte("0123456789")))

	require.NoError(t, blobs.Overwrite(ctx, "b1", 2, []byte("xxx")))
	got, err := blobs.Read(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []byte("01xxx56789"), got)

	// the extent never grows
	assert.Error(t, blobs.Overwrite(ctx, "b1", 8, []byte("xxx")))

	require.NoError(t, blobs.Sync(ctx, "b1"))
	require.NoError(t, blobs.Remove(ctx, "b1"))

	_, err = blobs.Read(ctx, "b1")
	assert.ErrorIs(t, err, ErrBlobNotFound)
	assert.ErrorIs(t, blobs.Sync(ctx, "b1"), ErrBlobNotFound)
	assert.ErrorIs(t, blobs.Overwrite(ctx, "b1", 0, []byte("x")), ErrBlobNotFound)
}
