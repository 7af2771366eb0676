// Package httpapi exposes the assistant over HTTP: one query endpoint,
// session management, health, and prometheus metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

// Turner runs one user turn. The vaya.Assistant satisfies it.
type Turner interface {
	Ask(ctx context.Context, sessionID, query string) (*domain.TurnResult, error)
}

// Server holds the handler dependencies.
type Server struct {
	assistant Turner
	store     ports.MemoryStore
	logger    *slog.Logger
}

// QueryRequest is the POST /query body. A missing session_id starts a new
// session.
type QueryRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Query     string `json:"query"`
}

// QueryResponse is the POST /query reply.
type QueryResponse struct {
	SessionID  string   `json:"session_id"`
	Response   string   `json:"response"`
	PlanStatus string   `json:"plan_status"`
	Errors     []string `json:"errors,omitempty"`
}

// NewHandler builds the router. registry may be nil to skip /metrics.
func NewHandler(assistant Turner, store ports.MemoryStore, logger *slog.Logger, registry *prometheus.Registry) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{assistant: assistant, store: store, logger: logger}

	r := chi.NewRouter()
	r.Post("/query", s.handleQuery)
	r.Get("/health", s.handleHealth)
	r.Get("/sessions", s.handleListSessions)
	r.Get("/sessions/{id}", s.handleGetSession)
	r.Delete("/sessions/{id}", s.handleDeleteSession)
	if registry != nil {
		r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)
	}
	return r
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	result, err := s.assistant.Ask(r.Context(), req.SessionID, req.Query)
	if err != nil {
		s.logger.Error("turn failed", "session", req.SessionID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		SessionID:  req.SessionID,
		Response:   result.Response,
		PlanStatus: string(result.Status),
		Errors:     result.Errors,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, "listing sessions failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "loading session failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		http.Error(w, "deleting session failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
