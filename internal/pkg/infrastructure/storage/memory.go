package storage

import (
	"context"
	"sync"

	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
)

// InMemory is a collection store for development mode and tests. Collections
// are copied on save and load so callers never share slices with the store.
type InMemory struct {
	mu          sync.Mutex
	collections map[string][]types.AlarmRecord
}

func NewInMemory() *InMemory {
	return &InMemory{
		collections: make(map[string][]types.AlarmRecord),
	}
}

func (s *InMemory) SaveCollection(ctx context.Context, key string, records []types.AlarmRecord) error {
	if key == "" {
		return ErrNoKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[key] = append([]types.AlarmRecord{}, records...)

	return nil
}

func (s *InMemory) LoadCollection(ctx context.Context, key string) ([]types.AlarmRecord, error) {
	if key == "" {
		return nil, ErrNoKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.collections[key]
	if !ok {
		return nil, ErrNoRows
	}

	return append([]types.AlarmRecord{}, records...), nil
}
