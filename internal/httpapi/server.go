// Package httpapi serves a read-only view of the batch monitor: the jobs in
// the jobs directory and the run history ledger.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"batchmon/internal/core"
	"batchmon/internal/ledger"
)

// Server exposes jobs and run history over HTTP. It never compiles or runs
// anything.
type Server struct {
	JobsDir   string
	Scheduler *core.Scheduler
	Ledger    *ledger.Ledger // optional
}

// New creates a monitor server. l may be nil when history is disabled.
func New(jobsDir string, s *core.Scheduler, l *ledger.Ledger) *Server {
	return &Server{JobsDir: jobsDir, Scheduler: s, Ledger: l}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/jobs", s.handleListJobs)
	r.Route("/history", func(r chi.Router) {
		r.Get("/", s.handleHistory)
		r.Get("/verify", s.handleVerifyHistory)
	})
	return r
}

// GET /jobs
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := make([]core.Job, 0)
	for job, err := range s.Scheduler.Jobs(s.JobsDir) {
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		jobs = append(jobs, job)
	}
	writeJSON(w, map[string]any{
		"dir":  core.ExpandHome(s.JobsDir),
		"jobs": jobs,
	})
}

// GET /history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.Ledger == nil {
		http.Error(w, "run history disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, s.Ledger.Records())
}

// GET /history/verify
func (s *Server) handleVerifyHistory(w http.ResponseWriter, r *http.Request) {
	if s.Ledger == nil {
		http.Error(w, "run history disabled", http.StatusNotFound)
		return
	}
	if err := s.Ledger.Verify(); err != nil {
		http.Error(w, "ledger verification failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := w.Write([]byte("ledger verification ok")); err != nil {
		slog.Error("write response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
