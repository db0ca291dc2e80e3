package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/kanakku-money/kanakku/internal/common"
)

// MemoryAlertStore is a mutex-guarded in-memory AlertStore. It backs tests
// and ad-hoc runs that should not touch the database; Close makes every
// subsequent call fail with ErrStoreClosed, mirroring a closed datastore.
type MemoryAlertStore struct {
	values map[string]bool
	mu     sync.Mutex
	closed bool
}

// NewMemoryAlertStore creates an empty in-memory alert store.
func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{values: make(map[string]bool)}
}

// Get returns the stored flag, false if absent.
func (m *MemoryAlertStore) Get(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, common.ErrStoreClosed
	}
	return m.values[key], nil
}

// Set stores a flag value.
func (m *MemoryAlertStore) Set(_ context.Context, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return common.ErrStoreClosed
	}
	m.values[key] = value
	return nil
}

// Remove deletes a flag; removing an absent key is not an error.
func (m *MemoryAlertStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return common.ErrStoreClosed
	}
	delete(m.values, key)
	return nil
}

// Keys returns all stored keys in sorted order.
func (m *MemoryAlertStore) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, common.ErrStoreClosed
	}
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close marks the store closed; all later calls fail.
func (m *MemoryAlertStore) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
