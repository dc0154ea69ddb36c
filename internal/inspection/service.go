package inspection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"verifai/internal/analysis"
	"verifai/internal/audit"
	"verifai/internal/geofence"
	"verifai/internal/objectstore"
	"verifai/internal/otp"
	"verifai/internal/platform/metrics"
	dErrors "verifai/pkg/domain-errors"
	"verifai/pkg/platform/sentinel"
)

// geofenceReason is returned verbatim to clients outside the fence.
const geofenceReason = "You are too far from the location!"

// Analyzer adjudicates a stored video against the code issued for a session.
type Analyzer interface {
	Analyze(ctx context.Context, videoURL, expectedCode string) (*analysis.Verdict, error)
}

// Reporter renders a durable certificate for a completed verdict.
type Reporter interface {
	Render(ctx context.Context, caseID string, verdict *analysis.Verdict) (string, error)
}

// AuditPublisher records session transitions. Emission is best-effort from
// the orchestrator's point of view.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the verification orchestrator. It is stateless between calls;
// all state lives in the session store, so concurrent requests only contend
// on individual records. Two concurrent submits for one case race
// last-writer-wins on the session fields, which is accepted behavior.
type Service struct {
	fence    *geofence.Fence
	codes    otp.Issuer
	store    Store
	videos   objectstore.Store
	analyzer Analyzer
	reporter Reporter
	auditor  AuditPublisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger; defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditPublisher sets the audit sink.
func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

// NewService wires the orchestrator.
func NewService(
	fence *geofence.Fence,
	codes otp.Issuer,
	store Store,
	videos objectstore.Store,
	analyzer Analyzer,
	reporter Reporter,
	opts ...Option,
) *Service {
	s := &Service{
		fence:    fence,
		codes:    codes,
		store:    store,
		videos:   videos,
		analyzer: analyzer,
		reporter: reporter,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initiate is phase one: geofence check, then code issuance. A rejection is
// side-effect-free; an accepted attempt upserts the session, so re-initiating
// a case resets it rather than duplicating it.
func (s *Service) Initiate(ctx context.Context, caseID string, lat, long float64) (*InitiateResult, error) {
	if caseID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "case_id is required")
	}

	distance := s.fence.Distance(lat, long)
	s.logger.InfoContext(ctx, "geofence check", "case_id", caseID, "distance_m", distance)

	if distance > s.fence.Radius() {
		s.metrics.IncGeofenceDenied()
		s.emit(ctx, audit.ActionGeofenceDenied, caseID, geofenceReason)
		return &InitiateResult{Allowed: false, Reason: geofenceReason}, nil
	}

	code := s.codes.Issue()
	if err := s.store.Upsert(ctx, caseID, lat, long, code); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session")
	}

	s.metrics.IncSessionInitiated()
	s.emit(ctx, audit.ActionSessionInitiated, caseID, "")

	return &InitiateResult{
		Allowed:          true,
		SessionID:        caseID,
		VerificationCode: code,
	}, nil
}

// Submit is phase two: persist the video, adjudicate it against the stored
// code, and render the certificate. Analysis and report failures degrade the
// result but never abort it; once analysis returns anything the session is
// completed. The expected code comes from the store only, never the request.
func (s *Service) Submit(ctx context.Context, caseID, filename, contentType string, video io.Reader) (*SubmitResult, error) {
	key := objectstore.VideoKey(caseID, filename)
	videoURL, err := s.videos.Put(ctx, key, contentType, video)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store video")
	}
	s.logger.InfoContext(ctx, "video uploaded", "case_id", caseID, "video_url", videoURL)

	if err := s.store.SetVideo(ctx, caseID, videoURL); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "session not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update session")
	}
	s.metrics.IncVideoSubmitted()
	s.emit(ctx, audit.ActionVideoSubmitted, caseID, videoURL)

	session, err := s.store.Get(ctx, caseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "session not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}

	verdict := s.analyze(ctx, videoURL, session.VerificationCode)

	raw, err := json.Marshal(verdict)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode verdict")
	}
	if err := s.store.SetResult(ctx, caseID, raw); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist verdict")
	}
	s.metrics.IncVerification(string(verdict.VerificationStatus))
	s.emit(ctx, audit.ActionVerificationCompleted, caseID, string(verdict.VerificationStatus))

	result := &SubmitResult{
		Status:    "success",
		VideoURL:  videoURL,
		AIVerdict: raw,
	}

	if reportURL := s.renderReport(ctx, caseID, verdict); reportURL != "" {
		result.ReportURL = &reportURL
	}
	return result, nil
}

// analyze never fails: gateway errors become an error-shaped verdict so the
// session still reaches its terminal state.
func (s *Service) analyze(ctx context.Context, videoURL, expectedCode string) *analysis.Verdict {
	start := time.Now()
	verdict, err := s.analyzer.Analyze(ctx, videoURL, expectedCode)
	s.metrics.ObserveAnalysis(time.Since(start))
	if err != nil {
		if errors.Is(err, analysis.ErrTimeout) {
			s.logger.ErrorContext(ctx, "analysis timed out", "video_url", videoURL)
		} else {
			s.logger.ErrorContext(ctx, "analysis failed", "video_url", videoURL, "error", err)
		}
		return analysis.ErrorVerdict(err)
	}
	return verdict
}

// renderReport is best-effort: any failure is logged and the session keeps
// its completed verdict with no report reference.
func (s *Service) renderReport(ctx context.Context, caseID string, verdict *analysis.Verdict) string {
	reportURL, err := s.reporter.Render(ctx, caseID, verdict)
	if err != nil {
		s.metrics.IncReportFailure()
		s.emit(ctx, audit.ActionReportFailed, caseID, err.Error())
		s.logger.ErrorContext(ctx, "report generation failed", "case_id", caseID, "error", err)
		return ""
	}
	if err := s.store.SetReport(ctx, caseID, reportURL); err != nil {
		// The artifact exists; losing the pointer must not fail the request.
		s.logger.ErrorContext(ctx, "failed to persist report url", "case_id", caseID, "error", err)
	}
	return reportURL
}

func (s *Service) emit(ctx context.Context, action audit.Action, caseID, detail string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, audit.Event{CaseID: caseID, Action: action, Detail: detail}); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "case_id", caseID, "action", action, "error", err)
	}
}
