package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/taskgraph/pkg/graphdoc"
)

// MemoryStore is an in-memory store for development and testing.
// It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*graphdoc.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*graphdoc.Document)}
}

// Get retrieves a graph document by ID.
func (s *MemoryStore) Get(ctx context.Context, graphID string) (*graphdoc.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[graphID]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

// Put stores a graph document.
func (s *MemoryStore) Put(ctx context.Context, doc *graphdoc.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.GraphID] = doc
	return nil
}

// Delete removes a graph document.
func (s *MemoryStore) Delete(ctx context.Context, graphID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[graphID]; !ok {
		return ErrNotFound
	}
	delete(s.docs, graphID)
	return nil
}

// List returns all stored graph IDs in sorted order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Close does nothing for the in-memory backend.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
