// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindtrace/engine/internal/analysis"
	"github.com/mindtrace/engine/internal/domain"
	"github.com/mindtrace/engine/internal/server"
)

// TrendsProvider serves per-patient emotion history summaries.
type TrendsProvider interface {
	Trends(ctx context.Context, patientID string) (*domain.EmotionTrends, error)
}

// Option configures the handler set.
type Option func(*Handler)

// WithTrends enables the trends endpoint.
func WithTrends(trends TrendsProvider) Option {
	return func(h *Handler) {
		h.trends = trends
	}
}

// WithVision lets the health endpoint report the vision service state.
func WithVision(vision domain.VisionClient) Option {
	return func(h *Handler) {
		h.vision = vision
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// Handler holds the HTTP handlers for the engine's endpoints.
type Handler struct {
	orchestrator *analysis.Orchestrator
	trends       TrendsProvider
	vision       domain.VisionClient
	logger       *slog.Logger
}

// New creates the handler set.
func New(orchestrator *analysis.Orchestrator, opts ...Option) *Handler {
	h := &Handler{orchestrator: orchestrator, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts all endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/v1/analysis/session", h.analyzeSession)
	r.Post("/v1/analysis/basic", h.analyzeBasic)
	r.Post("/v1/analysis/voice", h.analyzeVoice)
	r.Get("/v1/patients/{patientID}/trends", h.patientTrends)
	r.Get("/health", h.health)
}

type analysisRequest struct {
	PatientID  string                `json:"patientId"`
	Image      string                `json:"image"`
	Transcript string                `json:"transcript"`
	Audio      *domain.AudioMetadata `json:"audioMetadata"`
}

func (r analysisRequest) sessionRequest() analysis.SessionRequest {
	return analysis.SessionRequest{
		PatientID:  r.PatientID,
		Image:      r.Image,
		Transcript: r.Transcript,
		Audio:      r.Audio,
	}
}

func (h *Handler) analyzeSession(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domain.ErrInvalidRequest("invalid JSON body"))
		return
	}

	result, err := h.orchestrator.AnalyzeSession(r.Context(), req.sessionRequest())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	server.AddLogField(r.Context(), "session_id", result.SessionID)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) analyzeBasic(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domain.ErrInvalidRequest("invalid JSON body"))
		return
	}

	result, err := h.orchestrator.AnalyzeBasic(r.Context(), req.sessionRequest())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) analyzeVoice(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domain.ErrInvalidRequest("invalid JSON body"))
		return
	}

	result, err := h.orchestrator.AnalyzeVoiceOnly(r.Context(), req.Transcript, req.Audio)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	server.AddLogField(r.Context(), "strategy", string(result.Strategy))
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) patientTrends(w http.ResponseWriter, r *http.Request) {
	if h.trends == nil {
		h.writeError(w, r, domain.ErrNotFound("trends are not available without session storage"))
		return
	}

	patientID := chi.URLParam(r, "patientID")
	trends, err := h.trends.Trends(r.Context(), patientID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, trends)
}

type healthResponse struct {
	Status string        `json:"status"`
	Vision *visionHealth `json:"visionService,omitempty"`
}

type visionHealth struct {
	Healthy bool `json:"healthy"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if h.vision != nil {
		resp.Vision = &visionHealth{Healthy: h.vision.Healthy(r.Context())}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	server.AddError(r.Context(), err)

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		apiErr = domain.ErrServer("internal error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.HTTPStatusCode())
	json.NewEncoder(w).Encode(map[string]*domain.APIError{"error": apiErr})
}
