package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory batch store for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	batches map[string]*Batch
}

// NewMemoryStore creates an empty in-memory batch store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{batches: make(map[string]*Batch)}
}

// Insert records a batch.
func (s *MemoryStore) Insert(ctx context.Context, batch *Batch) error {
	copied := *batch
	s.mu.Lock()
	s.batches[batch.ID] = &copied
	s.mu.Unlock()
	return nil
}

// Get retrieves a batch by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.batches[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

// ListByOwner returns an owner's batches, newest first.
func (s *MemoryStore) ListByOwner(ctx context.Context, owner string) ([]*Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Batch
	for _, b := range s.batches {
		if b.Owner == owner {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Delete removes a batch record.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.batches, id)
	s.mu.Unlock()
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
