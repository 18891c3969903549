// internal/store/kv.go
//
// Key-value persistence for player records.
// This is the server-side stand-in for browser local storage: string keys,
// string values, nothing else. Backends:
//   - memory (this file): process-local, lost on restart.
//   - SQLite (sqlite.go): durable single-node storage.
//   - Redis (redis.go): shared storage for several server instances.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("not found")

// KV is the persistence collaborator.
type KV interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set creates or replaces key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// memory is an in-memory map-based KV implementation.
type memory struct {
	mu   sync.RWMutex      // guards vals
	vals map[string]string // keyed by full (namespaced) key
}

// NewMemory constructs a new in-memory KV.
func NewMemory() KV {
	return &memory{vals: make(map[string]string)}
}

func (m *memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vals[key]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (m *memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
	return nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, key)
	return nil
}
