package objectstore

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// InMemory keeps objects in a map for tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewInMemory returns an empty in-memory object store.
func NewInMemory() *InMemory {
	return &InMemory{objects: make(map[string][]byte)}
}

// Put stores the object bytes under the key.
func (s *InMemory) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read object body: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "memory://" + key, nil
}

// Get returns stored object bytes, or false when absent.
func (s *InMemory) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len reports how many objects are stored.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
