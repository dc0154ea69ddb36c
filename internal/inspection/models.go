package inspection

import (
	"encoding/json"
	"time"
)

// Status tracks one verification attempt. Transitions are monotonic within
// an attempt (pending -> processing -> completed); re-initiation resets to
// pending. There is no failed terminal state: analysis failures live inside
// the completed verdict payload so every attempt ends inspectable.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// Session is the sole persisted entity, keyed by the client-supplied case ID.
type Session struct {
	CaseID           string          `json:"case_id"`
	GPSLat           float64         `json:"gps_lat"`
	GPSLong          float64         `json:"gps_long"`
	VerificationCode string          `json:"verification_code"`
	Status           Status          `json:"status"`
	VideoURL         string          `json:"video_url,omitempty"`
	AIResult         json.RawMessage `json:"ai_result,omitempty"`
	ReportURL        string          `json:"report_url,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// InitiateResult is the outcome of the first protocol phase. The code is
// deliberately returned to the caller: it is the shared secret the caller's
// own recording must speak.
type InitiateResult struct {
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
	SessionID        string `json:"session_id,omitempty"`
	VerificationCode string `json:"verification_code,omitempty"`
}

// SubmitResult is the terminal response of the second phase. ReportURL is nil
// when certificate rendering failed; the verdict stands regardless.
type SubmitResult struct {
	Status    string          `json:"status"`
	VideoURL  string          `json:"video_url"`
	AIVerdict json.RawMessage `json:"ai_verdict"`
	ReportURL *string         `json:"report_url"`
}
