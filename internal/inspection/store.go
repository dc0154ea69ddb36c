package inspection

import (
	"context"
	"encoding/json"
)

// Store persists inspection sessions. Implementations must keep each
// per-record operation atomic: a concurrent reader never observes a
// half-applied transition. Missing records surface sentinel.ErrNotFound.
type Store interface {
	// Upsert creates or resets the session for a case: coordinates and code
	// are overwritten and status returns to pending. Never duplicates.
	Upsert(ctx context.Context, caseID string, lat, long float64, code string) error

	// Get returns the session for a case.
	Get(ctx context.Context, caseID string) (*Session, error)

	// SetVideo records the uploaded recording and moves the attempt to
	// processing.
	SetVideo(ctx context.Context, caseID, videoURL string) error

	// SetResult records the verdict and moves the attempt to completed.
	SetResult(ctx context.Context, caseID string, verdict json.RawMessage) error

	// SetReport records the certificate artifact URL.
	SetReport(ctx context.Context, caseID, reportURL string) error
}
