// Package jobs defines job types and payloads for async processing
package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of async job
type JobType string

const (
	JobTypeMutation JobType = "mutation"
	JobTypeQuality  JobType = "quality"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusRetrying  JobStatus = "retrying"
	StatusCancelled JobStatus = "cancelled"
)

// Job represents an async job in the system
type Job struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	Type         JobType          `json:"type" db:"type"`
	Status       JobStatus        `json:"status" db:"status"`
	Priority     int              `json:"priority" db:"priority"`
	SourcePath   *string          `json:"source_path,omitempty" db:"source_path"`
	RunID        *uuid.UUID       `json:"run_id,omitempty" db:"run_id"`
	ParentJobID  *uuid.UUID       `json:"parent_job_id,omitempty" db:"parent_job_id"`
	Payload      json.RawMessage  `json:"payload" db:"payload"`
	Result       *json.RawMessage `json:"result,omitempty" db:"result"`
	ErrorMessage *string          `json:"error_message,omitempty" db:"error_message"`
	ErrorDetails *json.RawMessage `json:"error_details,omitempty" db:"error_details"`
	RetryCount   int              `json:"retry_count" db:"retry_count"`
	MaxRetries   int              `json:"max_retries" db:"max_retries"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
	StartedAt    *time.Time       `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	LockedUntil  *time.Time       `json:"locked_until,omitempty" db:"locked_until"`
	WorkerID     *string          `json:"worker_id,omitempty" db:"worker_id"`
}

// MutationPayload is the payload for mutation testing jobs
type MutationPayload struct {
	SourcePath  string `json:"source_path"`
	TestPath    string `json:"test_path,omitempty"`
	TestCommand string `json:"test_command"`
	Budget      string `json:"budget,omitempty"` // "quick", "thorough", "all"
}

// QualityPayload is the payload for test quality scoring jobs
type QualityPayload struct {
	SourcePath  string `json:"source_path"`
	TestPath    string `json:"test_path"`
	TestCommand string `json:"test_command,omitempty"`
	Budget      string `json:"budget,omitempty"`
	RunMutation bool   `json:"run_mutation"` // Include a mutation run in the score
}

// MutationResult is the result of a mutation testing job
type MutationResult struct {
	RunID           uuid.UUID `json:"run_id"`
	MutantsTotal    int       `json:"mutants_total"`
	MutantsKilled   int       `json:"mutants_killed"`
	MutantsSurvived int       `json:"mutants_survived"`
	ScorePercent    int       `json:"score_percent"`
	CommitSHA       string    `json:"commit_sha,omitempty"`
}

// QualityResult is the result of a quality scoring job
type QualityResult struct {
	Score          float64 `json:"score"`
	Grade          string  `json:"grade"`
	Passed         bool    `json:"passed"`
	AssertionCount int     `json:"assertion_count"`
	IssueCount     int     `json:"issue_count"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// NewJob creates a new job with defaults
func NewJob(jobType JobType, payload interface{}) (*Job, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Status:     StatusPending,
		Priority:   0,
		Payload:    payloadBytes,
		RetryCount: 0,
		MaxRetries: 3,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}, nil
}

// SetPayload marshals and sets the payload
func (j *Job) SetPayload(payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	j.Payload = data
	return nil
}

// GetPayload unmarshals the payload into the provided struct
func (j *Job) GetPayload(v interface{}) error {
	return json.Unmarshal(j.Payload, v)
}

// SetResult marshals and sets the result
func (j *Job) SetResult(result interface{}) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	raw := json.RawMessage(data)
	j.Result = &raw
	return nil
}

// GetResult unmarshals the result into the provided struct
func (j *Job) GetResult(v interface{}) error {
	if j.Result == nil {
		return nil
	}
	return json.Unmarshal(*j.Result, v)
}

// CanRetry returns true if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// JobMessage is the message sent via NATS for job notifications
type JobMessage struct {
	JobID    uuid.UUID `json:"job_id"`
	Type     JobType   `json:"type"`
	Priority int       `json:"priority"`
}

// Encode serializes the job message to JSON
func (m *JobMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeJobMessage deserializes a job message from JSON
func DecodeJobMessage(data []byte) (*JobMessage, error) {
	var m JobMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
