package storage

import (
	"context"
	"sync"

	"github.com/yourusername/savdo-bot/internal/domain/repository"
)

type memoryKVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKVStore xotirada ishlovchi kalit-qiymat saqlash (testlar uchun)
func NewMemoryKVStore() repository.KVStore {
	return &memoryKVStore{data: make(map[string][]byte)}
}

func (m *memoryKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.data[key]
	if !exists {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *memoryKVStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *memoryKVStore) Close() error {
	return nil
}
