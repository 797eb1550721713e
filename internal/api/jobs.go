package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mutant-hq/mutant/internal/jobs"
)

// JobResponse is the API response for a job
type JobResponse struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Priority     int             `json:"priority"`
	SourcePath   *string         `json:"source_path,omitempty"`
	RunID        *uuid.UUID      `json:"run_id,omitempty"`
	ParentJobID  *uuid.UUID      `json:"parent_job_id,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	RetryCount   int             `json:"retry_count"`
	MaxRetries   int             `json:"max_retries"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
	StartedAt    *string         `json:"started_at,omitempty"`
	CompletedAt  *string         `json:"completed_at,omitempty"`
	WorkerID     *string         `json:"worker_id,omitempty"`
}

// JobStatusResponse includes job and its children
type JobStatusResponse struct {
	Job      *JobResponse   `json:"job"`
	Children []*JobResponse `json:"children,omitempty"`
}

// jobToResponse converts a job to API response format
func jobToResponse(j *jobs.Job) *JobResponse {
	if j == nil {
		return nil
	}

	resp := &JobResponse{
		ID:           j.ID,
		Type:         string(j.Type),
		Status:       string(j.Status),
		Priority:     j.Priority,
		SourcePath:   j.SourcePath,
		RunID:        j.RunID,
		ParentJobID:  j.ParentJobID,
		Payload:      j.Payload,
		ErrorMessage: j.ErrorMessage,
		RetryCount:   j.RetryCount,
		MaxRetries:   j.MaxRetries,
		CreatedAt:    j.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    j.UpdatedAt.Format(time.RFC3339),
		WorkerID:     j.WorkerID,
	}
	if j.Result != nil {
		resp.Result = *j.Result
	}

	if j.StartedAt != nil {
		s := j.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &s
	}
	if j.CompletedAt != nil {
		s := j.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}

	return resp
}

// listJobs lists jobs with optional filters
func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	if s.jobRepo == nil {
		respondError(w, http.StatusServiceUnavailable, "job system not available")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	status := r.URL.Query().Get("status")
	jobType := r.URL.Query().Get("type")
	source := r.URL.Query().Get("source")

	var jobList []*jobs.Job
	var err error

	switch {
	case source != "":
		jobList, err = s.jobRepo.ListBySource(r.Context(), source, limit)
	case status != "":
		jobList, err = s.jobRepo.ListByStatus(r.Context(), jobs.JobStatus(status), limit)
	case jobType != "":
		jobList, err = s.jobRepo.ListPendingByType(r.Context(), jobs.JobType(jobType), limit)
	default:
		jobList, err = s.jobRepo.ListRecent(r.Context(), limit)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to list jobs")
		respondError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	responses := make([]*JobResponse, len(jobList))
	for i, j := range jobList {
		responses[i] = jobToResponse(j)
	}

	respondJSON(w, http.StatusOK, responses)
}

// getJob gets a job by ID with its children
func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		respondError(w, http.StatusServiceUnavailable, "job system not available")
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	report, err := s.pipeline.GetJobStatus(r.Context(), jobID)
	if err != nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	children := make([]*JobResponse, len(report.Children))
	for i, c := range report.Children {
		children[i] = jobToResponse(c)
	}

	resp := &JobStatusResponse{
		Job:      jobToResponse(report.Job),
		Children: children,
	}

	respondJSON(w, http.StatusOK, resp)
}

// cancelJob cancels a pending job
func (s *Server) cancelJob(w http.ResponseWriter, r *http.Request) {
	if s.jobRepo == nil {
		respondError(w, http.StatusServiceUnavailable, "job system not available")
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	if err := s.jobRepo.Cancel(r.Context(), jobID); err != nil {
		log.Error().Err(err).Str("job_id", jobID.String()).Msg("failed to cancel job")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// retryJob retries a failed job
func (s *Server) retryJob(w http.ResponseWriter, r *http.Request) {
	if s.jobRepo == nil {
		respondError(w, http.StatusServiceUnavailable, "job system not available")
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	if err := s.jobRepo.Retry(r.Context(), jobID); err != nil {
		log.Error().Err(err).Str("job_id", jobID.String()).Msg("failed to retry job")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Re-fetch and return
	job, _ := s.jobRepo.GetByID(r.Context(), jobID)
	respondJSON(w, http.StatusOK, jobToResponse(job))
}
