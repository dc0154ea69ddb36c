package inspection

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"verifai/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in a map. Used by tests and local runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryStore returns an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*Session)}
}

func (s *InMemoryStore) Upsert(_ context.Context, caseID string, lat, long float64, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if existing, ok := s.sessions[caseID]; ok {
		existing.GPSLat = lat
		existing.GPSLong = long
		existing.VerificationCode = code
		existing.Status = StatusPending
		existing.UpdatedAt = now
		return nil
	}
	s.sessions[caseID] = &Session{
		CaseID:           caseID,
		GPSLat:           lat,
		GPSLong:          long,
		VerificationCode: code,
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, caseID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *session
	copied.AIResult = append(json.RawMessage(nil), session.AIResult...)
	return &copied, nil
}

func (s *InMemoryStore) SetVideo(_ context.Context, caseID, videoURL string) error {
	return s.mutate(caseID, func(session *Session) {
		session.VideoURL = videoURL
		session.Status = StatusProcessing
	})
}

func (s *InMemoryStore) SetResult(_ context.Context, caseID string, verdict json.RawMessage) error {
	return s.mutate(caseID, func(session *Session) {
		session.AIResult = append(json.RawMessage(nil), verdict...)
		session.Status = StatusCompleted
	})
}

func (s *InMemoryStore) SetReport(_ context.Context, caseID, reportURL string) error {
	return s.mutate(caseID, func(session *Session) {
		session.ReportURL = reportURL
	})
}

// Len reports how many sessions exist, for upsert-not-duplicate assertions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *InMemoryStore) mutate(caseID string, apply func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[caseID]
	if !ok {
		return sentinel.ErrNotFound
	}
	apply(session)
	session.UpdatedAt = time.Now()
	return nil
}
