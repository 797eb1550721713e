// Package api provides the HTTP API for mutation runs, quality scoring
// and the job queue.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mutant-hq/mutant/internal/config"
	"github.com/mutant-hq/mutant/internal/db"
	"github.com/mutant-hq/mutant/internal/jobs"
)

// JobRepository is the subset of the job store the API touches. It is
// an interface so handler tests can substitute a mock.
type JobRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*jobs.Job, error)
	ListRecent(ctx context.Context, limit int) ([]*jobs.Job, error)
	ListByStatus(ctx context.Context, status jobs.JobStatus, limit int) ([]*jobs.Job, error)
	ListPendingByType(ctx context.Context, jobType jobs.JobType, limit int) ([]*jobs.Job, error)
	ListBySource(ctx context.Context, sourcePath string, limit int) ([]*jobs.Job, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Retry(ctx context.Context, id uuid.UUID) error
}

// Server represents the API server
type Server struct {
	cfg      *config.Config
	router   *chi.Mux
	store    *db.Store
	jobRepo  JobRepository
	pipeline *jobs.Pipeline
}

// Deps carries the optional backends. Handlers that need a missing
// backend respond 503 rather than failing at startup, so the server can
// run in a degraded mode without Postgres or NATS.
type Deps struct {
	Store    *db.Store
	JobRepo  JobRepository
	Pipeline *jobs.Pipeline
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		store:    deps.Store,
		jobRepo:  deps.JobRepo,
		pipeline: deps.Pipeline,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(corsMiddleware)
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.healthCheck)
	s.router.Get("/ready", s.readyCheck)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Mutation runs
		r.Route("/mutation/runs", func(r chi.Router) {
			r.Post("/", s.createMutationRun)
			r.Get("/", s.listMutationRuns)
			r.Get("/{runID}", s.getMutationRun)
			r.Get("/{runID}/score", s.getMutationScore)
		})

		// Quality scoring
		r.Post("/quality", s.createQualityJob)

		// Job queue
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.listJobs)
			r.Get("/{jobID}", s.getJob)
			r.Post("/{jobID}/cancel", s.cancelJob)
			r.Post("/{jobID}/retry", s.retryJob)
		})
	})
}

// corsMiddleware allows browser dashboards on other origins to call the
// read endpoints.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Health check handlers
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyCheck(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  "database unreachable",
			})
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
