package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-content-vault/models"
)

// memoryCatalog is the in-memory implementation of [CatalogStore], used by
// tests and ephemeral vaults.
type memoryCatalog struct {
	mu    sync.RWMutex
	items map[string]models.VaultItem
	order []string
}

// NewMemoryCatalog constructs an empty in-memory [CatalogStore].
func NewMemoryCatalog() CatalogStore {
	return &memoryCatalog{items: make(map[string]models.VaultItem)}
}

func (s *memoryCatalog) SaveItem(_ context.Context, item models.VaultItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return ErrItemExists
	}
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return nil
}

func (s *memoryCatalog) GetItem(_ context.Context, id string) (models.VaultItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		return models.VaultItem{}, ErrItemNotFound
	}
	return item, nil
}

func (s *memoryCatalog) UpdateItem(_ context.Context, item models.VaultItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; !exists {
		return ErrItemNotFound
	}
	s.items[item.ID] = item
	return nil
}

func (s *memoryCatalog) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ErrItemNotFound
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memoryCatalog) ListItems(_ context.Context) ([]models.VaultItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.VaultItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

// memoryBlobStore is the in-memory implementation of [BlobStore]. Sync is a
// no-op since nothing is durable anyway; Overwrite still honors the extent
// semantics so the secure-deletion service behaves identically over it.
type memoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBlobStore constructs an empty in-memory [BlobStore].
func NewMemoryBlobStore() BlobStore {
	return &memoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *memoryBlobStore) Write(_ context.Context, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[id] = append([]byte(nil), data...)
	return nil
}

func (s *memoryBlobStore) Read(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.blobs[id]
	if !exists {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *memoryBlobStore) Size(_ context.Context, id string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.blobs[id]
	if !exists {
		return 0, ErrBlobNotFound
	}
	return int64(len(data)), nil
}

func (s *memoryBlobStore) Overwrite(_ context.Context, id string, offset int64, chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, exists := s.blobs[id]
	if !exists {
		return ErrBlobNotFound
	}
	if offset < 0 || offset+int64(len(chunk)) > int64(len(data)) {
		return fmt.Errorf("overwrite out of extent: offset %d, chunk %d, extent %d", offset, len(chunk), len(data))
	}
	copy(data[offset:], chunk)
	return nil
}

func (s *memoryBlobStore) Sync(_ context.Context, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.blobs[id]; !exists {
		return ErrBlobNotFound
	}
	return nil
}

func (s *memoryBlobStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blobs[id]; !exists {
		return ErrBlobNotFound
	}
	delete(s.blobs, id)
	return nil
}

// memoryEvents is the in-memory implementation of [EventStore].
type memoryEvents struct {
	mu     sync.RWMutex
	events []models.QuarantineEvent
	index  map[string]int
}

// NewMemoryEvents constructs an empty in-memory [EventStore].
func NewMemoryEvents() EventStore {
	return &memoryEvents{index: make(map[string]int)}
}

func (s *memoryEvents) AppendEvent(_ context.Context, event models.QuarantineEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index[event.ID] = len(s.events)
	s.events = append(s.events, event)
	return nil
}

func (s *memoryEvents) GetEvent(_ context.Context, id string) (models.QuarantineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, exists := s.index[id]
	if !exists {
		return models.QuarantineEvent{}, ErrEventNotFound
	}
	return s.events[i], nil
}

func (s *memoryEvents) UpdateEvent(_ context.Context, event models.QuarantineEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[event.ID]
	if !exists {
		return ErrEventNotFound
	}
	s.events[i] = event
	return nil
}

func (s *memoryEvents) ListEvents(_ context.Context, limit int) ([]models.QuarantineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]models.QuarantineEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
