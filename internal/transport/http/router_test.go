package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"verifai/internal/inspection"
	inspectionHandler "verifai/internal/inspection/handler"
	"verifai/internal/platform/middleware"
)

type noopService struct{}

func (noopService) Initiate(context.Context, string, float64, float64) (*inspection.InitiateResult, error) {
	return &inspection.InitiateResult{Allowed: true, SessionID: "CASE-1", VerificationCode: "9435"}, nil
}

func (noopService) Submit(context.Context, string, string, string, io.Reader) (*inspection.SubmitResult, error) {
	return &inspection.SubmitResult{Status: "success"}, nil
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }

func newTestRouter(t *testing.T, validator middleware.TokenValidator, health ...HealthChecker) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(RouterConfig{
		Logger:     logger,
		Inspection: inspectionHandler.New(noopService{}, nil, 1<<20, logger),
		Validator:  validator,
		Health:     health,
	})
}

func TestRootAnnouncesAPI(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "VerifAI API is Online")
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil, healthFunc(func(context.Context) error { return nil }))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestHealthzDegraded(t *testing.T) {
	router := newTestRouter(t, nil, healthFunc(func(context.Context) error {
		return errors.New("redis unreachable")
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "degraded")
}

func TestVerificationEndpointsBehindAuth(t *testing.T) {
	const key = "test-signing-key"
	router := newTestRouter(t, middleware.NewHMACValidator(key))

	body := `{"case_id":"CASE-1","lat":19.073892,"long":72.845470}`

	req := httptest.NewRequest(http.MethodPost, "/initiate-session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "field-agent",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(key))
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/initiate-session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpointsStayOpen(t *testing.T) {
	router := newTestRouter(t, middleware.NewHMACValidator("test-signing-key"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
