package resourcekit

import (
	"context"
	"errors"
	"net/url"
	"sync"
)

// ErrStoreClosed indicates an operation on a closed memory store.
var ErrStoreClosed = errors.New("store closed")

// MemoryDriver opens in-process byte stores for the "memory" scheme.
// Each distinct URI gets its own store. Useful for tests and examples.
type MemoryDriver struct{}

// Open implements Driver.
func (MemoryDriver) Open(_ context.Context, _ *url.URL, _ map[string]any) (Resource, error) {
	return NewMemoryStore(), nil
}

// MemoryStore is a concurrency-safe in-process key/value byte store.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Put stores value under key, overwriting any previous value.
func (m *MemoryStore) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy to avoid retaining the caller's slice.
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Get returns the value for key and whether it exists.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false
	}

	// Copy so callers cannot mutate the stored value.
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Delete removes key from the store.
func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close implements Resource. Subsequent writes fail with
// ErrStoreClosed; Close is idempotent.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}
