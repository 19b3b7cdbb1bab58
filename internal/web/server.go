// Package web serves the local HTTP surface: sync state, a manual sync
// trigger and the review queue.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	stdsync "sync"

	"github.com/conorfennell/wordsync/internal/domain"
	"github.com/conorfennell/wordsync/internal/srs"
	"github.com/conorfennell/wordsync/internal/storage"
	"github.com/conorfennell/wordsync/internal/study"
	"github.com/conorfennell/wordsync/internal/sync"
)

// Syncer is the part of the orchestrator the server drives.
type Syncer interface {
	Sync(ctx context.Context) (sync.SyncState, error)
	State() sync.SyncState
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	syncer Syncer
	study  *study.Service
	router *http.ServeMux
	logger *slog.Logger

	mu      stdsync.Mutex
	summary *study.Summary
}

// NewServer creates and configures a new server.
func NewServer(syncer Syncer, svc *study.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		syncer: syncer,
		study:  svc,
		router: http.NewServeMux(),
		logger: logger,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /sync/state", s.handleGetSyncState())
	s.router.HandleFunc("POST /sync", s.handlePostSync())
	s.router.HandleFunc("GET /deck", s.handleGetDeck())
	s.router.HandleFunc("GET /review/next", s.handleGetNextReview())
	s.router.HandleFunc("POST /review/{id}", s.handlePostReview())
}

func (s *Server) handleGetSyncState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, s.syncer.State())
	}
}

// handlePostSync runs a round in the foreground and returns the resulting
// state. A request made while a round is running gets 409.
func (s *Server) handlePostSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := s.syncer.Sync(r.Context())
		switch {
		case errors.Is(err, sync.ErrSyncInProgress):
			s.writeJSON(w, http.StatusConflict, state)
		case err != nil:
			s.logger.Warn("manual sync failed", "error", err)
			s.writeJSON(w, http.StatusBadGateway, state)
		default:
			s.writeJSON(w, http.StatusOK, state)
		}
	}
}

// OnSyncComplete drops the cached deck summary so the next request sees
// merged changes.
func (s *Server) OnSyncComplete(context.Context) {
	s.invalidate()
}

func (s *Server) invalidate() {
	s.mu.Lock()
	s.summary = nil
	s.mu.Unlock()
}

func (s *Server) deckSummary(ctx context.Context) (study.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary != nil {
		return *s.summary, nil
	}
	summary, err := s.study.Summary(ctx)
	if err != nil {
		return study.Summary{}, err
	}
	s.summary = &summary
	return summary, nil
}

// handleGetDeck reports how many items are due.
func (s *Server) handleGetDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.deckSummary(r.Context())
		if err != nil {
			s.internalError(w, "Error getting deck summary", err)
			return
		}
		s.writeJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) handleGetNextReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next, err := s.study.Next(r.Context())
		if err != nil {
			s.internalError(w, "Error getting next due item", err)
			return
		}
		if next == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.writeJSON(w, http.StatusOK, next)
	}
}

type reviewRequest struct {
	Quality int  `json:"quality"`
	Reverse bool `json:"reverse"`
}

func (s *Server) handlePostReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid review body", http.StatusBadRequest)
			return
		}
		q := srs.Quality(req.Quality)
		if !q.Valid() {
			http.Error(w, "Invalid quality", http.StatusBadRequest)
			return
		}
		dir := domain.Forward
		if req.Reverse {
			dir = domain.Reverse
		}

		out, err := s.study.Answer(r.Context(), r.PathValue("id"), q, dir)
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			s.internalError(w, "Error recording review", err)
			return
		}
		s.invalidate()
		s.writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Error writing response", "error", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
