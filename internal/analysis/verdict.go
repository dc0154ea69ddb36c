package analysis

import (
	"encoding/json"
	"strings"
)

// Status is the overall outcome of a video audit.
type Status string

const (
	StatusApproved     Status = "APPROVED"
	StatusRejected     Status = "REJECTED"
	StatusManualReview Status = "MANUAL_REVIEW"
)

// Verdict is the structured output of the inventory/fraud/liveness analysis.
// Raw and Error are escape fields: when the vendor returns something that is
// not parseable as this schema, the payload is preserved there instead of
// failing the whole submission.
type Verdict struct {
	VerificationStatus Status           `json:"verification_status"`
	Liveness           *LivenessCheck   `json:"liveness_check,omitempty"`
	Stock              *StockAssessment `json:"stock_assessment,omitempty"`
	Risk               *RiskAssessment  `json:"risk_assessment,omitempty"`
	AuditorReasoning   string           `json:"auditor_reasoning,omitempty"`
	Raw                string           `json:"raw,omitempty"`
	Error              string           `json:"error,omitempty"`
}

// LivenessCheck reports whether the issued code was spoken correctly.
// Matching is exact-string: "9430" against expected "9435" fails.
type LivenessCheck struct {
	CodeSpokenCorrectly     bool   `json:"code_spoken_correctly"`
	DetectedCodeTranscript  string `json:"detected_code_transcript"`
	VoiceLivenessConfidence string `json:"voice_liveness_confidence"`
}

// StockAssessment judges whether the footage shows commercial collateral.
type StockAssessment struct {
	IsWarehouseEnvironment   bool   `json:"is_warehouse_environment"`
	InventoryVisible         bool   `json:"inventory_visible"`
	InventoryDescription     string `json:"inventory_description"`
	CommercialVolumeDetected bool   `json:"commercial_volume_detected"`
}

// RiskAssessment lists fraud indicators with an overall confidence 0-100.
type RiskAssessment struct {
	FraudFlagsDetected     []string `json:"fraud_flags_detected"`
	OverallConfidenceScore int      `json:"overall_confidence_score"`
}

// DegradedVerdict wraps unparseable vendor output. Partial data beats total
// failure: the submission still completes, routed to manual review.
func DegradedVerdict(raw string) *Verdict {
	return &Verdict{
		VerificationStatus: StatusManualReview,
		AuditorReasoning:   "vendor output did not match the audit schema; routed to manual review",
		Raw:                raw,
	}
}

// ErrorVerdict wraps a gateway failure so the session can still reach its
// terminal state with an inspectable payload.
func ErrorVerdict(err error) *Verdict {
	return &Verdict{
		VerificationStatus: StatusManualReview,
		AuditorReasoning:   "analysis failed; routed to manual review",
		Error:              err.Error(),
	}
}

// ParseVerdict interprets raw model output. Markdown code fences are
// stripped before decoding; anything that does not decode into the schema,
// or decodes without an overall status, becomes a degraded verdict.
func ParseVerdict(text string) *Verdict {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var v Verdict
	if err := json.Unmarshal([]byte(clean), &v); err != nil {
		return DegradedVerdict(text)
	}
	switch v.VerificationStatus {
	case StatusApproved, StatusRejected, StatusManualReview:
		return &v
	default:
		return DegradedVerdict(text)
	}
}
