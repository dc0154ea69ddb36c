// Package audit records an append-only trail of session transitions so a
// disbursement decision can later be traced back to what the system saw.
package audit

import (
	"context"
	"time"
)

// Action labels what happened to a session.
type Action string

const (
	ActionGeofenceDenied        Action = "geofence_denied"
	ActionSessionInitiated      Action = "session_initiated"
	ActionVideoSubmitted        Action = "video_submitted"
	ActionVerificationCompleted Action = "verification_completed"
	ActionReportFailed          Action = "report_failed"
)

// Event is emitted from the orchestrator to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	CaseID    string
	Action    Action
	Detail    string
}

// Store persists events in append order.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCase(ctx context.Context, caseID string) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

// NewPublisher wraps a store as an event sink.
func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit appends one event, stamping it if the caller did not.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

// List returns all events recorded for a case in append order.
func (p *Publisher) List(ctx context.Context, caseID string) ([]Event, error) {
	return p.store.ListByCase(ctx, caseID)
}
