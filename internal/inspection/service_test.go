package inspection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"verifai/internal/analysis"
	"verifai/internal/audit"
	"verifai/internal/geofence"
	"verifai/internal/objectstore"
	dErrors "verifai/pkg/domain-errors"
)

// Reference deployment target used across the orchestrator tests.
const (
	targetLat  = 19.073892
	targetLong = 72.845470
)

// stubIssuer returns codes from a fixed queue, then repeats the last one.
type stubIssuer struct {
	codes []string
	next  int
}

func (s *stubIssuer) Issue() string {
	if s.next < len(s.codes)-1 {
		s.next++
		return s.codes[s.next-1]
	}
	return s.codes[len(s.codes)-1]
}

// stubAnalyzer encodes exact-string code matching: the spoken transcript must
// equal the expected code character for character.
type stubAnalyzer struct {
	spoken       string
	err          error
	expectedSeen string
}

func (a *stubAnalyzer) Analyze(_ context.Context, _, expectedCode string) (*analysis.Verdict, error) {
	a.expectedSeen = expectedCode
	if a.err != nil {
		return nil, a.err
	}
	match := a.spoken == expectedCode
	status := analysis.StatusRejected
	if match {
		status = analysis.StatusApproved
	}
	return &analysis.Verdict{
		VerificationStatus: status,
		Liveness: &analysis.LivenessCheck{
			CodeSpokenCorrectly:     match,
			DetectedCodeTranscript:  a.spoken,
			VoiceLivenessConfidence: "HIGH",
		},
		AuditorReasoning: "stubbed audit",
	}, nil
}

type stubReporter struct {
	url   string
	err   error
	calls int
}

func (r *stubReporter) Render(context.Context, string, *analysis.Verdict) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.url, nil
}

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *InMemoryStore
	videos   *objectstore.InMemory
	analyzer *stubAnalyzer
	reporter *stubReporter
	issuer   *stubIssuer
	auditLog *audit.InMemoryStore
	svc      *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
	s.videos = objectstore.NewInMemory()
	s.analyzer = &stubAnalyzer{spoken: "9435"}
	s.reporter = &stubReporter{url: "memory://reports/report_CASE-1.pdf"}
	s.issuer = &stubIssuer{codes: []string{"9435", "4582"}}
	s.auditLog = audit.NewInMemoryStore()
	s.svc = NewService(
		geofence.New(targetLat, targetLong, 500),
		s.issuer,
		s.store,
		s.videos,
		s.analyzer,
		s.reporter,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(audit.NewPublisher(s.auditLog)),
	)
}

func (s *ServiceSuite) submitVideo(caseID string) (*SubmitResult, error) {
	return s.svc.Submit(s.ctx, caseID, "walkthrough.mp4", "video/mp4", strings.NewReader("video-bytes"))
}

func (s *ServiceSuite) TestInitiateRejectsOutsideFence() {
	// ~610 meters north of the target with a 500 meter radius.
	result, err := s.svc.Initiate(s.ctx, "CASE-1", targetLat+0.0055, targetLong)
	s.Require().NoError(err)

	s.False(result.Allowed)
	s.NotEmpty(result.Reason)
	s.Empty(result.VerificationCode)

	// Rejection is side-effect-free: no session record.
	s.Equal(0, s.store.Len())
}

func (s *ServiceSuite) TestInitiateAtExactTarget() {
	result, err := s.svc.Initiate(s.ctx, "CASE-1", targetLat, targetLong)
	s.Require().NoError(err)

	s.True(result.Allowed)
	s.Equal("CASE-1", result.SessionID)
	s.Regexp(`^[1-9]\d{3}$`, result.VerificationCode)

	session, err := s.store.Get(s.ctx, "CASE-1")
	s.Require().NoError(err)
	s.Equal(result.VerificationCode, session.VerificationCode)
	s.Equal(StatusPending, session.Status)
}

func (s *ServiceSuite) TestReinitiateResetsWithoutDuplicating() {
	first, err := s.svc.Initiate(s.ctx, "CASE-1", targetLat, targetLong)
	s.Require().NoError(err)

	second, err := s.svc.Initiate(s.ctx, "CASE-1", targetLat+0.001, targetLong)
	s.Require().NoError(err)

	s.Equal(1, s.store.Len())
	s.NotEqual(first.VerificationCode, second.VerificationCode)

	session, err := s.store.Get(s.ctx, "CASE-1")
	s.Require().NoError(err)
	s.Equal(second.VerificationCode, session.VerificationCode)
	s.Equal(StatusPending, session.Status)
}

func (s *ServiceSuite) TestInitiateRequiresCaseID() {
	_, err := s.svc.Initiate(s.ctx, "", targetLat, targetLong)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestSubmitUnknownSession() {
	_, err := s.submitVideo("NEVER-CREATED")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))

	// No session record was created by the failed submit.
	s.Equal(0, s.store.Len())
}

func (s *ServiceSuite) TestSubmitHappyPath() {
	initiated, err := s.svc.Initiate(s.ctx, "CASE-1", targetLat, targetLong)
	s.Require().NoError(err)

	result, err := s.submitVideo("CASE-1")
	s.Require().NoError(err)

	s.Equal("success", result.Status)
	s.Contains(result.VideoURL, "videos/CASE-1/")
	s.Require().NotNil(result.ReportURL)
	s.Equal(s.reporter.url, *result.ReportURL)

	// The analyzer saw the code the store holds, not anything client-supplied.
	s.Equal(initiated.VerificationCode, s.analyzer.expectedSeen)

	var verdict analysis.Verdict
	s.Require().NoError(json.Unmarshal(result.AIVerdict, &verdict))
	s.Equal(analysis.StatusApproved, verdict.VerificationStatus)

	session, err := s.store.Get(s.ctx, "CASE-1")
	s.Require().NoError(err)
	s.Equal(StatusCompleted, session.Status)
	s.NotEmpty(session.AIResult)
	s.Equal(result.VideoURL, session.VideoURL)
	s.Equal(s.reporter.url, session.ReportURL)
}

func (s *ServiceSuite) TestSubmitExactCodeMatchSemantics() {
	s.issuer.codes = []string{"9435"}
	s.analyzer.spoken = "9430"

	_, err := s.svc.Initiate(s.ctx, "CASE-1", targetLat, targetLong)
	s.Require().NoError(err)

	result, err := s.submitVideo("CASE-1")
	s.Require().NoError(err)

	var verdict analysis.Verdict
	s.Require().NoError(json.Unmarshal(result.AIVerdict, &verdict))
	s.Require().NotNil(verdict.Liveness)
	s.False(verdict.Liveness.CodeSpokenCorrectly)
	s.Equal(analysis.StatusRejected, verdict.VerificationStatus)
}

func (s *ServiceSuite) TestSubmitCompletesDespiteAnalyzerFailure() {
	s.analyzer.err = errors.New("vendor unreachable")

	_, err := s.svc.Initiate(s.ctx, "CASE-1", targetLat, targetLong)
	s.Require().NoError(err)

	result, err := s.submitVideo("CASE-1")
	s.Require().NoError(err)
	s.Equal("success", result.Status)

	var verdict analysis.Verdict
	s.Require().NoError(json.Unmarshal(result.AIVerdict, &verdict))
	s.Equal(analysis.StatusManualReview, verdict.VerificationStatus)
	s.Contains(verdict.Error, "vendor unreachable")

	// Completed is unconditional once analysis returns anything.
	session, err := s.store.Get(s.ctx, "CASE-1")
	s.Require().NoError(err)
	s.Equal(StatusCompleted, session.Status)
	s.NotEmpty(session.AIResult)
}

func (s *ServiceSuite) TestSubmitCompletesDespiteReportFailure() {
	s.reporter.err = errors.New("bucket unavailable")

	_, err := s.svc.Initiate(s.ctx, "CASE-1", targetLat, targetLong)
	s.Require().NoError(err)

	result, err := s.submitVideo("CASE-1")
	s.Require().NoError(err)

	s.Equal("success", result.Status)
	s.Nil(result.ReportURL)

	session, err := s.store.Get(s.ctx, "CASE-1")
	s.Require().NoError(err)
	s.Equal(StatusCompleted, session.Status)
	s.Empty(session.ReportURL)
}

func (s *ServiceSuite) TestAuditTrail() {
	_, err := s.svc.Initiate(s.ctx, "CASE-1", targetLat, targetLong)
	s.Require().NoError(err)

	_, err = s.submitVideo("CASE-1")
	s.Require().NoError(err)

	events, err := s.auditLog.ListByCase(s.ctx, "CASE-1")
	s.Require().NoError(err)

	actions := make([]audit.Action, 0, len(events))
	for _, event := range events {
		actions = append(actions, event.Action)
	}
	s.Equal([]audit.Action{
		audit.ActionSessionInitiated,
		audit.ActionVideoSubmitted,
		audit.ActionVerificationCompleted,
	}, actions)
}
