// Package server implements the companion HTTP surface: external
// automation (a file watcher, an editor plugin) posts snapshots with an
// op list and receives the transformed snapshot, and can browse the
// backup store.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/railsmith/railsmith/pkg/backup"
	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/pipeline"
	"github.com/railsmith/railsmith/pkg/synth"
)

// Server holds the companion server's dependencies.
type Server struct {
	Runner  *pipeline.Runner
	Backups *backup.Store
	Logger  *log.Logger
}

// New creates a server. Backups may be nil, which disables the backup
// endpoints.
func New(runner *pipeline.Runner, backups *backup.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Backups: backups, Logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/transform", s.handleTransform)
		r.Get("/backups", s.handleListBackups)
		r.Get("/backups/{id}", s.handleGetBackup)
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("companion server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// =============================================================================
// Handlers
// =============================================================================

// transformRequest is the POST /v1/transform payload: the snapshot in
// clipboard shape plus the op list.
type transformRequest struct {
	Snapshot json.RawMessage       `json:"snapshot"`
	Ops      []pipeline.Invocation `json:"ops"`
	Refresh  bool                  `json:"refresh,omitempty"`
}

// transformResponse carries the transformed snapshot. On partial
// failure the error fields name what went wrong and Completed lists the
// operations that did run; Snapshot then holds the partial result.
type transformResponse struct {
	Snapshot  json.RawMessage `json:"snapshot,omitempty"`
	Completed []string        `json:"completed"`
	CacheHit  bool            `json:"cache_hit"`
	Error     string          `json:"error,omitempty"`
	Code      errors.Code     `json:"code,omitempty"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	snap, err := synth.UnmarshalSnapshot(req.Snapshot)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	result, err := s.Runner.Execute(r.Context(), snap, pipeline.Options{
		Ops:      req.Ops,
		Declared: false, // API callers control their own order
		Refresh:  req.Refresh,
		Logger:   s.Logger,
	})
	resp := transformResponse{Completed: []string{}}
	status := http.StatusOK
	if result != nil {
		resp.Completed = result.Completed
		resp.CacheHit = result.CacheHit
		if data, merr := synth.MarshalSnapshot(result.Snapshot); merr == nil {
			resp.Snapshot = data
		}
	}
	if err != nil {
		resp.Error = errors.UserMessage(err)
		resp.Code = errors.GetCode(err)
		status = statusFor(err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	if s.Backups == nil {
		s.writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "backups disabled"))
		return
	}
	entries, err := s.Backups.List(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	if entries == nil {
		entries = []backup.Entry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetBackup(w http.ResponseWriter, r *http.Request) {
	if s.Backups == nil {
		s.writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "backups disabled"))
		return
	}
	snap, err := s.Backups.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	data, err := synth.MarshalSnapshot(snap)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Error Mapping
// =============================================================================

// errorResponse is the JSON shape of every error reply.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

// statusFor maps the typed error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInternal:
		return http.StatusInternalServerError
	case "":
		return http.StatusInternalServerError
	default:
		// Malformed input and parameter errors are the caller's fault.
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.Logger.Debug("request failed", "status", status, "err", err)
	s.writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", "err", err)
	}
}
