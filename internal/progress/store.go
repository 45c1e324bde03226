package progress

import (
	"context"
	"fmt"
	"sync"
)

// Store is a minimal client-local key-value store.
type Store interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put replaces the value under key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// Open creates a store for the named driver. path is a directory for the
// file and badger drivers and a database file for sqlite.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile:
		return OpenFileStore(path)
	case DriverSQLite:
		return OpenSQLiteStore(path)
	case DriverBadger:
		return OpenBadgerStore(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.mu.Lock()
	m.data[key] = v
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
