// Package httptransport assembles the public HTTP surface: the verification
// endpoints, health, and metrics, behind the shared middleware chain.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	inspectionHandler "verifai/internal/inspection/handler"
	"verifai/internal/platform/metrics"
	"verifai/internal/platform/middleware"
	"verifai/internal/transport/http/shared"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouterConfig carries everything the router needs; nil fields disable the
// corresponding feature.
type RouterConfig struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Inspection *inspectionHandler.Handler
	Validator  middleware.TokenValidator
	Health     []HealthChecker
}

// NewRouter wires the middleware chain and all endpoints. Liveness and
// metrics stay outside auth; the verification endpoints sit behind it when a
// validator is configured.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Latency(cfg.Metrics))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "VerifAI API is Online",
		})
	})
	r.Get("/healthz", handleHealth(cfg.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.Validator != nil {
			r.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
		}
		cfg.Inspection.Register(r)
	})

	return otelhttp.NewHandler(r, "verifai")
}

func handleHealth(checks []HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(r.Context()); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
