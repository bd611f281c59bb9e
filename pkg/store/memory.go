package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dagboard/dagboard/pkg/observability"
)

// MemoryStore is an in-memory store for development and testing.
// Documents are copied on the way in and out, so callers never share
// state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]Document),
		now:  time.Now,
	}
}

func (s *MemoryStore) SaveGraph(ctx context.Context, doc *Document) (*Document, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *doc
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := s.now()
	if prev, ok := s.docs[stored.ID]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	stored.Nodes = slices.Clone(stored.Nodes)
	stored.Edges = slices.Clone(stored.Edges)

	s.docs[stored.ID] = stored
	observability.Store().OnSave(ctx, stored.ID, time.Since(start), nil)
	out := stored
	return &out, nil
}

func (s *MemoryStore) LoadGraph(ctx context.Context, id string) (*Document, error) {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		observability.Store().OnLoad(ctx, id, time.Since(start), ErrNotFound)
		return nil, ErrNotFound
	}
	doc.Nodes = slices.Clone(doc.Nodes)
	doc.Edges = slices.Clone(doc.Edges)
	observability.Store().OnLoad(ctx, id, time.Since(start), nil)
	return &doc, nil
}

func (s *MemoryStore) ListGraphs(ctx context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.docs))
	for _, doc := range s.docs {
		doc.Nodes = slices.Clone(doc.Nodes)
		doc.Edges = slices.Clone(doc.Edges)
		docs = append(docs, doc)
	}
	slices.SortFunc(docs, func(a, b Document) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return docs, nil
}

func (s *MemoryStore) DeleteGraph(ctx context.Context, id string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		observability.Store().OnDelete(ctx, id, time.Since(start), ErrNotFound)
		return ErrNotFound
	}
	delete(s.docs, id)
	observability.Store().OnDelete(ctx, id, time.Since(start), nil)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
