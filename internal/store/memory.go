// ABOUTME: In-memory implementation of the Store interface
// ABOUTME: Mutex-guarded maps for tests and ephemeral deployments

package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemStore implements Store with in-process maps. Value and index updates for
// a record happen under one lock, so readers observe either the previous or
// the new state, never a mix.
type MemStore struct {
	mu sync.RWMutex

	// records[collection][id] = value
	records map[string]map[string][]byte

	// indexes[collection][name][key] = set of record ids
	indexes map[string]map[IndexName]map[string]map[string]struct{}

	// memberships[collection][id] = index entries the record currently holds,
	// kept so Put and Delete can clear stale rows without scanning
	memberships map[string]map[string][]Index
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		records:     make(map[string]map[string][]byte),
		indexes:     make(map[string]map[IndexName]map[string]map[string]struct{}),
		memberships: make(map[string]map[string][]Index),
	}
}

// Get retrieves a record value by primary id. Returns ErrNotFound for absent ids.
func (m *MemStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.records[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(value), nil
}

// GetAll retrieves every record in a collection. Ordering is unspecified.
func (m *MemStore) GetAll(ctx context.Context, collection string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []Record
	for id, value := range m.records[collection] {
		records = append(records, Record{ID: id, Value: cloneBytes(value)})
	}
	return records, nil
}

// GetByIndex retrieves every record indexed under the given composite key.
func (m *MemStore) GetByIndex(ctx context.Context, collection string, idx Index) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []Record
	for id := range m.indexes[collection][idx.Name][idx.Value] {
		if value, ok := m.records[collection][id]; ok {
			records = append(records, Record{ID: id, Value: cloneBytes(value)})
		}
	}
	return records, nil
}

// Put upserts a record and replaces its index memberships atomically.
func (m *MemStore) Put(ctx context.Context, collection, id string, value json.RawMessage, indexes ...Index) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records[collection] == nil {
		m.records[collection] = make(map[string][]byte)
	}
	m.records[collection][id] = cloneBytes(value)

	m.clearMembershipsLocked(collection, id)

	for _, idx := range indexes {
		if m.indexes[collection] == nil {
			m.indexes[collection] = make(map[IndexName]map[string]map[string]struct{})
		}
		if m.indexes[collection][idx.Name] == nil {
			m.indexes[collection][idx.Name] = make(map[string]map[string]struct{})
		}
		if m.indexes[collection][idx.Name][idx.Value] == nil {
			m.indexes[collection][idx.Name][idx.Value] = make(map[string]struct{})
		}
		m.indexes[collection][idx.Name][idx.Value][id] = struct{}{}
	}

	if m.memberships[collection] == nil {
		m.memberships[collection] = make(map[string][]Index)
	}
	m.memberships[collection][id] = append([]Index(nil), indexes...)

	return nil
}

// Delete removes a record and all its index entries. Absent ids are a no-op.
func (m *MemStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearMembershipsLocked(collection, id)
	delete(m.memberships[collection], id)
	delete(m.records[collection], id)

	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error { return nil }

// clearMembershipsLocked removes the record's current index entries.
// Callers must hold the write lock.
func (m *MemStore) clearMembershipsLocked(collection, id string) {
	for _, idx := range m.memberships[collection][id] {
		bucket := m.indexes[collection][idx.Name][idx.Value]
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(m.indexes[collection][idx.Name], idx.Value)
		}
	}
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
