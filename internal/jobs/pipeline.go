// Package jobs provides pipeline orchestration for mutation workflows
package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	mutantnats "github.com/mutant-hq/mutant/internal/nats"
)

// Pipeline enqueues mutation and quality jobs and publishes notifications
type Pipeline struct {
	repo *Repository
	nats *mutantnats.Client
}

// NewPipeline creates a new pipeline manager
func NewPipeline(repo *Repository, nats *mutantnats.Client) *Pipeline {
	return &Pipeline{
		repo: repo,
		nats: nats,
	}
}

// StartMutation enqueues a mutation testing job for a source file
func (p *Pipeline) StartMutation(ctx context.Context, payload MutationPayload) (*Job, error) {
	if payload.SourcePath == "" {
		return nil, fmt.Errorf("source path is required")
	}
	if payload.TestCommand == "" {
		return nil, fmt.Errorf("test command is required")
	}

	job, err := NewJob(JobTypeMutation, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	job.SourcePath = &payload.SourcePath

	if err := p.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	if err := p.publishJob(ctx, job); err != nil {
		log.Error().Err(err).Str("job_id", job.ID.String()).Msg("failed to publish job")
		// Job is in DB, worker can poll for it
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("source", payload.SourcePath).
		Str("budget", payload.Budget).
		Msg("enqueued mutation job")

	return job, nil
}

// StartQuality enqueues a quality scoring job for a test file
func (p *Pipeline) StartQuality(ctx context.Context, payload QualityPayload) (*Job, error) {
	if payload.TestPath == "" {
		return nil, fmt.Errorf("test path is required")
	}
	if payload.SourcePath == "" {
		return nil, fmt.Errorf("source path is required")
	}
	if payload.RunMutation && payload.TestCommand == "" {
		return nil, fmt.Errorf("test command is required when a mutation run is requested")
	}

	job, err := NewJob(JobTypeQuality, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	job.SourcePath = &payload.SourcePath

	if err := p.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	if err := p.publishJob(ctx, job); err != nil {
		log.Error().Err(err).Str("job_id", job.ID.String()).Msg("failed to publish job")
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("test", payload.TestPath).
		Bool("run_mutation", payload.RunMutation).
		Msg("enqueued quality job")

	return job, nil
}

// ChainJob creates a child job linked to a parent
func (p *Pipeline) ChainJob(ctx context.Context, parentID uuid.UUID, jobType JobType, payload interface{}) (*Job, error) {
	job, err := NewJob(jobType, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	job.ParentJobID = &parentID

	// Inherit source path from parent if not set
	parent, err := p.repo.GetByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parent job: %w", err)
	}
	if parent != nil && parent.SourcePath != nil {
		job.SourcePath = parent.SourcePath
	}

	if err := p.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	if err := p.publishJob(ctx, job); err != nil {
		log.Error().Err(err).Str("job_id", job.ID.String()).Msg("failed to publish job")
	}

	log.Debug().
		Str("job_id", job.ID.String()).
		Str("parent_id", parentID.String()).
		Str("type", string(jobType)).
		Msg("created chained job")

	return job, nil
}

// publishJob publishes a job notification to NATS
func (p *Pipeline) publishJob(ctx context.Context, job *Job) error {
	if p.nats == nil {
		return nil // NATS not configured, workers will poll DB
	}

	msg := &JobMessage{
		JobID:    job.ID,
		Type:     job.Type,
		Priority: job.Priority,
	}

	data, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	subject := mutantnats.SubjectForJobType(string(job.Type))
	if subject == "" {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	_, err = p.nats.Publish(ctx, subject, data)
	return err
}

// GetJobStatus returns the current status of a job and its children
func (p *Pipeline) GetJobStatus(ctx context.Context, jobID uuid.UUID) (*JobStatusReport, error) {
	job, err := p.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job not found")
	}

	children, err := p.repo.GetChildJobs(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &JobStatusReport{
		Job:      job,
		Children: children,
	}, nil
}

// JobStatusReport contains a job and its child jobs
type JobStatusReport struct {
	Job      *Job   `json:"job"`
	Children []*Job `json:"children,omitempty"`
}

// RetryFailedJobs requeues all jobs in retrying status
func (p *Pipeline) RetryFailedJobs(ctx context.Context) (int, error) {
	jobs, err := p.repo.ListByStatus(ctx, StatusRetrying, 100)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, job := range jobs {
		if err := p.repo.Retry(ctx, job.ID); err != nil {
			log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("failed to retry job")
			continue
		}

		// Republish to NATS
		job.Status = StatusPending
		if err := p.publishJob(ctx, job); err != nil {
			log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("failed to republish job")
		}

		count++
	}

	return count, nil
}
