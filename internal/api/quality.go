package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mutant-hq/mutant/internal/jobs"
)

// CreateQualityRequest is the request body for enqueueing a quality
// scoring job.
type CreateQualityRequest struct {
	SourcePath  string `json:"source_path"`
	TestPath    string `json:"test_path"`
	TestCommand string `json:"test_command,omitempty"`
	Budget      string `json:"budget,omitempty"`
	RunMutation bool   `json:"run_mutation,omitempty"`
}

// createQualityJob enqueues a test quality scoring job
func (s *Server) createQualityJob(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		respondError(w, http.StatusServiceUnavailable, "job system not available")
		return
	}

	var req CreateQualityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload := jobs.QualityPayload{
		SourcePath:  req.SourcePath,
		TestPath:    req.TestPath,
		TestCommand: req.TestCommand,
		Budget:      req.Budget,
		RunMutation: req.RunMutation,
	}

	job, err := s.pipeline.StartQuality(r.Context(), payload)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("test", req.TestPath).
		Msg("enqueued quality job")

	respondJSON(w, http.StatusAccepted, EnqueuedResponse{
		JobID:  job.ID,
		Status: string(job.Status),
	})
}
