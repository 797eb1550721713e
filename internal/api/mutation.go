package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mutant-hq/mutant/internal/jobs"
)

// CreateMutationRequest is the request body for enqueueing a mutation run
type CreateMutationRequest struct {
	SourcePath  string `json:"source_path"`
	TestPath    string `json:"test_path,omitempty"`
	TestCommand string `json:"test_command"`
	Budget      string `json:"budget,omitempty"`
}

// EnqueuedResponse is returned when a job has been accepted for
// asynchronous processing.
type EnqueuedResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`
}

// ScoreResponse is the compact machine-readable mutation score
type ScoreResponse struct {
	Total        int `json:"total"`
	Killed       int `json:"killed"`
	Survived     int `json:"survived"`
	ScorePercent int `json:"scorePercent"`
}

// createMutationRun enqueues a mutation testing job
func (s *Server) createMutationRun(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		respondError(w, http.StatusServiceUnavailable, "job system not available")
		return
	}

	var req CreateMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload := jobs.MutationPayload{
		SourcePath:  req.SourcePath,
		TestPath:    req.TestPath,
		TestCommand: req.TestCommand,
		Budget:      req.Budget,
	}

	job, err := s.pipeline.StartMutation(r.Context(), payload)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("source", req.SourcePath).
		Msg("enqueued mutation run")

	respondJSON(w, http.StatusAccepted, EnqueuedResponse{
		JobID:  job.ID,
		Status: string(job.Status),
	})
}

// listMutationRuns lists run history, optionally filtered by source path
func (s *Server) listMutationRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "run history not available")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	source := r.URL.Query().Get("source")

	var runs interface{}
	var err error
	if source != "" {
		runs, err = s.store.ListRunsBySource(r.Context(), source, limit)
	} else {
		runs, err = s.store.ListRuns(r.Context(), limit, offset)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to list mutation runs")
		respondError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	respondJSON(w, http.StatusOK, runs)
}

// getMutationRun gets a persisted mutation run by ID
func (s *Server) getMutationRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "run history not available")
		return
	}

	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get mutation run")
		respondError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if run == nil {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// getMutationScore returns the compact score for a run
func (s *Server) getMutationScore(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "run history not available")
		return
	}

	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get mutation run")
		respondError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if run == nil {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}

	respondJSON(w, http.StatusOK, ScoreResponse{
		Total:        run.Total,
		Killed:       run.Killed,
		Survived:     run.Survived,
		ScorePercent: run.ScorePercent,
	})
}
