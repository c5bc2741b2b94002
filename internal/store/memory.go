package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps documents in process memory. It backs tests and the
// "memory" driver for local runs.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string]map[string]Document{}}
}

func (m *MemoryStore) Create(_ context.Context, collection string, doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("failed to create document in %s: empty id", collection)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.collections[collection]
	if !ok {
		docs = map[string]Document{}
		m.collections[collection] = docs
	}
	docs[doc.ID] = cloneDocument(doc)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneDocument(doc)
	return &out, nil
}

func (m *MemoryStore) Merge(_ context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	merged, err := MergeJSON(doc.Data, fields)
	if err != nil {
		return fmt.Errorf("failed to merge document %s/%s: %w", collection, id, err)
	}
	doc.Data = merged
	m.collections[collection][id] = doc
	return nil
}

func (m *MemoryStore) List(_ context.Context, collection string, opts ListOptions) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]Document, 0, len(m.collections[collection]))
	for _, doc := range m.collections[collection] {
		docs = append(docs, cloneDocument(doc))
	}
	if opts.Newest {
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		})
	}
	if opts.Limit > 0 && len(docs) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs, nil
}

func cloneDocument(doc Document) Document {
	data := make([]byte, len(doc.Data))
	copy(data, doc.Data)
	doc.Data = data
	return doc
}
