package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mutant-hq/mutant/internal/jobs"
)

func TestJobToResponse(t *testing.T) {
	source := "internal/calc/calc.go"
	runID := uuid.New()
	now := time.Now()
	started := now.Add(time.Second)

	job := &jobs.Job{
		ID:         uuid.New(),
		Type:       jobs.JobTypeMutation,
		Status:     jobs.StatusRunning,
		Priority:   5,
		SourcePath: &source,
		RunID:      &runID,
		Payload:    json.RawMessage(`{"source_path":"internal/calc/calc.go"}`),
		RetryCount: 1,
		MaxRetries: 3,
		CreatedAt:  now,
		UpdatedAt:  now,
		StartedAt:  &started,
	}

	resp := jobToResponse(job)

	if resp.ID != job.ID {
		t.Error("ID mismatch")
	}
	if resp.Type != "mutation" {
		t.Errorf("Type = %s, want mutation", resp.Type)
	}
	if resp.Status != "running" {
		t.Errorf("Status = %s, want running", resp.Status)
	}
	if resp.Priority != 5 {
		t.Errorf("Priority = %d, want 5", resp.Priority)
	}
	if resp.SourcePath == nil || *resp.SourcePath != source {
		t.Error("SourcePath mismatch")
	}
	if resp.RunID == nil || *resp.RunID != runID {
		t.Error("RunID mismatch")
	}
	if resp.RetryCount != 1 {
		t.Errorf("RetryCount = %d, want 1", resp.RetryCount)
	}
	if resp.StartedAt == nil {
		t.Error("StartedAt should be set")
	}
	if resp.CompletedAt != nil {
		t.Error("CompletedAt should be nil")
	}
}

func TestJobToResponse_Nil(t *testing.T) {
	if resp := jobToResponse(nil); resp != nil {
		t.Error("jobToResponse(nil) should return nil")
	}
}

func TestJobToResponse_Result(t *testing.T) {
	result := json.RawMessage(`{"mutants_total":5,"mutants_killed":4}`)

	job := &jobs.Job{
		ID:        uuid.New(),
		Type:      jobs.JobTypeMutation,
		Status:    jobs.StatusCompleted,
		Result:    &result,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	resp := jobToResponse(job)

	if len(resp.Result) == 0 {
		t.Fatal("Result should be set")
	}

	var decoded map[string]int
	if err := json.Unmarshal(resp.Result, &decoded); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if decoded["mutants_killed"] != 4 {
		t.Errorf("mutants_killed = %d, want 4", decoded["mutants_killed"])
	}
}

func TestJobStatusResponse_JSON(t *testing.T) {
	job := &jobs.Job{
		ID:        uuid.New(),
		Type:      jobs.JobTypeQuality,
		Status:    jobs.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	resp := JobStatusResponse{
		Job: jobToResponse(job),
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if _, ok := raw["job"]; !ok {
		t.Error("response should have job key")
	}
	if _, ok := raw["children"]; ok {
		t.Error("children should be omitted when empty")
	}
}

func TestJobResponse_Timestamps(t *testing.T) {
	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	job := &jobs.Job{
		ID:        uuid.New(),
		Type:      jobs.JobTypeMutation,
		Status:    jobs.StatusPending,
		CreatedAt: created,
		UpdatedAt: created,
	}

	resp := jobToResponse(job)

	if resp.CreatedAt != "2025-03-10T12:00:00Z" {
		t.Errorf("CreatedAt = %s, want RFC3339", resp.CreatedAt)
	}
}
