// Package http exposes the orchestration engine to the polling console.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenticum/agenticum/internal/orchestrator"
	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

// Server wires the engine, dispatcher and evaluator into the JSON API.
type Server struct {
	engine     *orchestrator.Engine
	dispatcher *orchestrator.Dispatcher
	evaluator  *orchestrator.Evaluator
	blobs      ports.BlobStore
	registry   *prometheus.Registry
	logger     *slog.Logger
}

type Option func(*Server)

// WithEvaluator enables the A/B evaluation endpoint.
func WithEvaluator(evaluator *orchestrator.Evaluator) Option {
	return func(s *Server) {
		s.evaluator = evaluator
	}
}

// WithBlobStore enables serving generated media under /assets/.
func WithBlobStore(blobs ports.BlobStore) Option {
	return func(s *Server) {
		s.blobs = blobs
	}
}

// WithMetricsRegistry exposes the registry on /metrics.
func WithMetricsRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the API server.
func NewServer(engine *orchestrator.Engine, dispatcher *orchestrator.Dispatcher, opts ...Option) *Server {
	s := &Server{
		engine:     engine,
		dispatcher: dispatcher,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/orchestrate", s.handleOrchestrate)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{sessionID}", s.handleGetSession)
		r.Post("/sessions/{sessionID}/approve", s.handleApprove)
		r.Post("/abtest", s.handleABTest)
	})
	r.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	if s.blobs != nil {
		r.Get("/assets/*", s.handleAsset)
	}
	return r
}

// corsMiddleware keeps the console origin-agnostic, matching the demo
// deployment where the console is served from anywhere.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type orchestrateRequest struct {
	Intent string `json:"intent"`
}

func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	var req orchestrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Intent == "" {
		writeError(w, http.StatusBadRequest, "'intent' required (string)")
		return
	}

	sessionID, err := s.engine.Start(r.Context(), req.Intent)
	if err != nil {
		s.logger.Error("failed to start session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"sessionId": sessionID,
		"status":    string(domain.SessionStarted),
	})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "'sessionID' required")
		return
	}

	var approval domain.Approval
	if err := json.NewDecoder(r.Body).Decode(&approval); err != nil {
		writeError(w, http.StatusBadRequest, "invalid approval body")
		return
	}

	// Validate synchronously so the caller gets 404/400 instead of a
	// silently dropped background job.
	session, err := s.engine.GetSession(r.Context(), sessionID)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	if session.Status != domain.SessionAwaitingApproval {
		writeError(w, http.StatusConflict, "session is not awaiting approval")
		return
	}
	if !approval.Approved {
		writeError(w, http.StatusBadRequest, "approval rejected; session stays paused")
		return
	}

	if err := s.dispatcher.Enqueue(sessionID, approval); err != nil {
		writeError(w, http.StatusServiceUnavailable, "resume queue is full, retry shortly")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"sessionId": sessionID,
		"status":    "queued",
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.engine.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.ListSessions(r.Context())
	if err != nil {
		s.logger.Error("failed to list sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": ids})
}

type abTestRequest struct {
	AssetA string `json:"assetA"`
	AssetB string `json:"assetB"`
}

func (s *Server) handleABTest(w http.ResponseWriter, r *http.Request) {
	if s.evaluator == nil {
		writeError(w, http.StatusNotImplemented, "evaluation is not configured")
		return
	}

	var req abTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AssetA == "" || req.AssetB == "" {
		writeError(w, http.StatusBadRequest, "'assetA' and 'assetB' required")
		return
	}

	result, err := s.evaluator.Evaluate(r.Context(), req.AssetA, req.AssetB)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "evaluation produced no verdict")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	data, mimeType, err := s.blobs.Open(r.Context(), path)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}
	w.Header().Set("Content-Type", mimeType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	s.logger.Error("session lookup failed", "error", err)
	writeError(w, http.StatusInternalServerError, "session lookup failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
