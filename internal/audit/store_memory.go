package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps events in a slice per case.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

// NewInMemoryStore returns an empty in-memory audit store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.CaseID] = append(s.events[event.CaseID], event)
	return nil
}

func (s *InMemoryStore) ListByCase(_ context.Context, caseID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[caseID]...), nil
}
