// ABOUTME: In-process remote store backed by a map.
// ABOUTME: Used for dry runs and tests.
package remote

import (
	"context"
	"sort"
	"sync"
)

// Memory is a Store kept entirely in memory.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string][]byte)}
}

func (m *Memory) Upsert(_ context.Context, collection, id string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.docs[collection]
	if !ok {
		c = make(map[string][]byte)
		m.docs[collection] = c
	}
	c[id] = append([]byte(nil), doc...)
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs[collection], id)
	return nil
}

func (m *Memory) Get(_ context.Context, collection, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// IDs returns the sorted document ids in a collection.
func (m *Memory) IDs(collection string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.docs[collection]))
	for id := range m.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
