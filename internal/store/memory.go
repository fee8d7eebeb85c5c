package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps blobs and awards in process memory. State is lost on
// exit; it backs tests and the "memory" backend.
type MemoryStore struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	awards []AwardEventRecord
	seq    int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Load returns a copy of the blob under key, or ErrNotFound.
func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

// Save stores a copy of value under key.
func (m *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = slices.Clone(value)
	return nil
}

// Delete removes the blob under key.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

// AppendAward journals an award with the next sequence number.
func (m *MemoryStore) AppendAward(_ context.Context, data AwardEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.awards = append(m.awards, AwardEventRecord{AwardEventData: data, Sequence: m.seq})
	return nil
}

// AwardTotals sums journaled awards per kind and overall.
func (m *MemoryStore) AwardTotals(_ context.Context) (map[string]int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKind := make(map[string]int)
	total := 0
	for _, a := range m.awards {
		byKind[a.Kind] += a.Amount
		total += a.Amount
	}
	return byKind, total, nil
}

// QueryAwards returns journaled awards newest first, filtered by opts.
func (m *MemoryStore) QueryAwards(_ context.Context, opts QueryOpts) ([]AwardEventRecord, error) {
	m.mu.Lock()
	newest := slices.Clone(m.awards)
	m.mu.Unlock()
	slices.Reverse(newest)
	return filter(newest, opts), nil
}

// ClearAwards empties the journal.
func (m *MemoryStore) ClearAwards(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.awards = nil
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
