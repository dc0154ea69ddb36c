package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"verifai/internal/inspection"
	"verifai/internal/platform/middleware"
	"verifai/internal/ratelimit"
	"verifai/internal/transport/http/shared"
	dErrors "verifai/pkg/domain-errors"
)

// Service defines the verification operations the HTTP layer delegates to.
type Service interface {
	Initiate(ctx context.Context, caseID string, lat, long float64) (*inspection.InitiateResult, error)
	Submit(ctx context.Context, caseID, filename, contentType string, video io.Reader) (*inspection.SubmitResult, error)
}

// Handler exposes the two-phase verification protocol over HTTP.
type Handler struct {
	logger         *slog.Logger
	service        Service
	limiter        ratelimit.Limiter
	maxUploadBytes int64
}

// New creates a verification Handler. A nil limiter disables rate limiting.
func New(service Service, limiter ratelimit.Limiter, maxUploadBytes int64, logger *slog.Logger) *Handler {
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	return &Handler{
		logger:         logger,
		service:        service,
		limiter:        limiter,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register registers the verification routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.With(middleware.ContentTypeJSON).Post("/initiate-session", h.handleInitiate)
	r.Post("/upload-video/{session_id}", h.handleUpload)
}

type initiateRequest struct {
	CaseID string  `json:"case_id"`
	Lat    float64 `json:"lat"`
	Long   float64 `json:"long"`
}

// handleInitiate runs the geofence check and, on success, issues the spoken
// verification code for the session.
func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid initiate request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Long < -180 || req.Long > 180 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "coordinates out of range"))
		return
	}

	ok, err := h.limiter.Allow(ctx, req.CaseID)
	if err != nil {
		// A broken limiter must not take the API down; fail open.
		h.logger.WarnContext(ctx, "rate limiter unavailable",
			"request_id", requestID,
			"error", err.Error(),
		)
	} else if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many initiation attempts"))
		return
	}

	result, err := h.service.Initiate(ctx, req.CaseID, req.Lat, req.Long)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to initiate session",
			"request_id", requestID,
			"case_id", req.CaseID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to initiate session"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}

// handleUpload accepts the multipart recording, runs the full adjudication
// pipeline, and returns the verdict. This request blocks for the duration of
// the analysis.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	caseID := chi.URLParam(r, "session_id")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "video exceeds the upload limit"))
			return
		}
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "video file is required"))
		return
	}
	defer file.Close()

	result, err := h.service.Submit(ctx, caseID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to process submission",
			"request_id", requestID,
			"case_id", caseID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to process submission"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}
