package database

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStateRepository is a map-backed StateRepository used by tests
// and local development. Values are copied on the way in and out so
// callers cannot mutate stored state through a retained slice.
type MemoryStateRepository struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{values: make(map[string]json.RawMessage)}
}

func (r *MemoryStateRepository) Get(_ context.Context, key string) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out, nil
}

func (r *MemoryStateRepository) Set(_ context.Context, key string, value json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	r.values[key] = stored
	return nil
}

func (r *MemoryStateRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}
