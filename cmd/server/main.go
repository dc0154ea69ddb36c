package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"verifai/internal/analysis"
	"verifai/internal/audit"
	"verifai/internal/geofence"
	"verifai/internal/inspection"
	inspectionHandler "verifai/internal/inspection/handler"
	"verifai/internal/objectstore"
	"verifai/internal/otp"
	"verifai/internal/platform/config"
	"verifai/internal/platform/httpserver"
	"verifai/internal/platform/logger"
	"verifai/internal/platform/metrics"
	"verifai/internal/platform/middleware"
	redisplatform "verifai/internal/platform/redis"
	"verifai/internal/ratelimit"
	"verifai/internal/report"
	httptransport "verifai/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services; nothing here should grow beyond wiring.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Without a database URL the service runs fully in-memory: sessions,
	// audit trail, and artifacts all live in the process. Useful for local
	// runs and demos, useless for production.
	var (
		sessions   inspection.Store
		auditStore audit.Store
		videos     objectstore.Store
		reports    objectstore.Store
		health     []httptransport.HealthChecker
	)
	if cfg.DatabaseURL == "" {
		log.Warn("no DATABASE_URL configured, running in-memory")
		sessions = inspection.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
		videos = objectstore.NewInMemory()
		reports = objectstore.NewInMemory()
	} else {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		sessions = inspection.NewPostgres(db)
		auditStore = audit.NewPostgres(db)
		health = append(health, healthFunc(db.PingContext))

		videoStore, err := objectstore.NewS3FromEnv(ctx, cfg.VideosBucket, cfg.AWSRegion)
		if err != nil {
			log.Error("failed to configure video storage", "error", err)
			os.Exit(1)
		}
		reportStore, err := objectstore.NewS3FromEnv(ctx, cfg.ReportsBucket, cfg.AWSRegion)
		if err != nil {
			log.Error("failed to configure report storage", "error", err)
			os.Exit(1)
		}
		videos, reports = videoStore, reportStore
	}

	var limiter ratelimit.Limiter = ratelimit.NewFixedWindow(cfg.InitiateRateLimit, cfg.InitiateRateWindow)
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		limiter = ratelimit.NewRedisWindow(redisClient, cfg.InitiateRateLimit, cfg.InitiateRateWindow)
		health = append(health, redisClient)
	}

	if cfg.GeminiAPIKey == "" {
		log.Warn("no GEMINI_API_KEY configured, submissions will land in manual review")
	}
	analyzer := analysis.NewGemini(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.AnalysisPollInterval,
		cfg.AnalysisTimeout,
		analysis.WithLogger(log),
	)

	service := inspection.NewService(
		geofence.New(cfg.TargetLat, cfg.TargetLong, cfg.MaxDistanceM),
		otp.NewIssuer(),
		sessions,
		videos,
		analyzer,
		report.NewPDF(reports),
		inspection.WithLogger(log),
		inspection.WithMetrics(m),
		inspection.WithAuditPublisher(audit.NewPublisher(auditStore)),
	)

	var validator middleware.TokenValidator
	if cfg.JWTSigningKey != "" {
		validator = middleware.NewHMACValidator(cfg.JWTSigningKey)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:     log,
		Metrics:    m,
		Inspection: inspectionHandler.New(service, limiter, cfg.MaxUploadBytes, log),
		Validator:  validator,
		Health:     health,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting verifai", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }
