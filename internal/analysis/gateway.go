// Package analysis adjudicates submitted inspection videos. The orchestrator
// sees a single blocking Analyze call; uploading, remote processing and
// polling are internal to the gateway.
package analysis

import (
	"context"
	"errors"
)

// ErrTimeout is returned when the remote asset never leaves its processing
// state within the configured deadline.
var ErrTimeout = errors.New("analysis timed out")

// Gateway adjudicates a video against the code issued for its session.
// Implementations may block for tens of seconds.
type Gateway interface {
	Analyze(ctx context.Context, videoURL, expectedCode string) (*Verdict, error)
}
