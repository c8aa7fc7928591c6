package cart

import (
	"context"
	"sync"

	"restaurant-booking-platform/internal/models"
)

// MemoryStore is an in-process snapshot store. It backs tests and local
// development runs without Redis.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]string
}

// NewMemoryStore creates an empty in-memory snapshot store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]string)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (models.CartSnapshot, bool, error) {
	m.mu.RLock()
	data, ok := m.snaps[key]
	m.mu.RUnlock()
	if !ok {
		return models.CartSnapshot{}, false, nil
	}

	snap, ok := DecodeSnapshot(data)
	if !ok {
		return models.CartSnapshot{}, false, nil
	}
	return snap, true, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, snap models.CartSnapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.snaps[key] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.snaps, key)
	m.mu.Unlock()
	return nil
}

// SeedRaw stores a raw payload without encoding, for exercising the
// malformed-snapshot path in tests
func (m *MemoryStore) SeedRaw(key, data string) {
	m.mu.Lock()
	m.snaps[key] = data
	m.mu.Unlock()
}
