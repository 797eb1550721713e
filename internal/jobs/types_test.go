package jobs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJobType_Constants(t *testing.T) {
	tests := []struct {
		jobType JobType
		want    string
	}{
		{JobTypeMutation, "mutation"},
		{JobTypeQuality, "quality"},
	}

	for _, tt := range tests {
		if string(tt.jobType) != tt.want {
			t.Errorf("JobType %v = %s, want %s", tt.jobType, string(tt.jobType), tt.want)
		}
	}
}

func TestJobStatus_Constants(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   string
	}{
		{StatusPending, "pending"},
		{StatusRunning, "running"},
		{StatusCompleted, "completed"},
		{StatusFailed, "failed"},
		{StatusRetrying, "retrying"},
		{StatusCancelled, "cancelled"},
	}

	for _, tt := range tests {
		if string(tt.status) != tt.want {
			t.Errorf("JobStatus %v = %s, want %s", tt.status, string(tt.status), tt.want)
		}
	}
}

func TestNewJob(t *testing.T) {
	payload := MutationPayload{
		SourcePath:  "internal/pricing/calc.go",
		TestCommand: "go test ./internal/pricing/",
		Budget:      "quick",
	}

	job, err := NewJob(JobTypeMutation, payload)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	if job.ID == uuid.Nil {
		t.Error("job.ID should not be nil")
	}
	if job.Type != JobTypeMutation {
		t.Errorf("job.Type = %s, want mutation", job.Type)
	}
	if job.Status != StatusPending {
		t.Errorf("job.Status = %s, want pending", job.Status)
	}
	if job.RetryCount != 0 {
		t.Errorf("job.RetryCount = %d, want 0", job.RetryCount)
	}
	if job.MaxRetries != 3 {
		t.Errorf("job.MaxRetries = %d, want 3", job.MaxRetries)
	}
}

func TestJob_GetSetPayload(t *testing.T) {
	job := &Job{
		ID:        uuid.New(),
		Type:      JobTypeMutation,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	original := MutationPayload{
		SourcePath:  "calc.go",
		TestPath:    "calc_test.go",
		TestCommand: "go test ./...",
		Budget:      "thorough",
	}

	if err := job.SetPayload(original); err != nil {
		t.Fatalf("SetPayload failed: %v", err)
	}

	var retrieved MutationPayload
	if err := job.GetPayload(&retrieved); err != nil {
		t.Fatalf("GetPayload failed: %v", err)
	}

	if retrieved.SourcePath != original.SourcePath {
		t.Errorf("SourcePath = %s, want %s", retrieved.SourcePath, original.SourcePath)
	}
	if retrieved.TestCommand != original.TestCommand {
		t.Errorf("TestCommand = %s, want %s", retrieved.TestCommand, original.TestCommand)
	}
	if retrieved.Budget != original.Budget {
		t.Errorf("Budget = %s, want %s", retrieved.Budget, original.Budget)
	}
}

func TestJob_GetSetResult(t *testing.T) {
	job := &Job{
		ID:     uuid.New(),
		Type:   JobTypeMutation,
		Status: StatusCompleted,
	}

	original := MutationResult{
		RunID:           uuid.New(),
		MutantsTotal:    10,
		MutantsKilled:   8,
		MutantsSurvived: 2,
		ScorePercent:    80,
	}

	if err := job.SetResult(original); err != nil {
		t.Fatalf("SetResult failed: %v", err)
	}

	var retrieved MutationResult
	if err := job.GetResult(&retrieved); err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}

	if retrieved.RunID != original.RunID {
		t.Error("RunID mismatch")
	}
	if retrieved.MutantsKilled != original.MutantsKilled {
		t.Errorf("MutantsKilled = %d, want %d", retrieved.MutantsKilled, original.MutantsKilled)
	}
	if retrieved.ScorePercent != original.ScorePercent {
		t.Errorf("ScorePercent = %d, want %d", retrieved.ScorePercent, original.ScorePercent)
	}
}

func TestJob_GetResult_Nil(t *testing.T) {
	job := &Job{ID: uuid.New()}

	var result MutationResult
	if err := job.GetResult(&result); err != nil {
		t.Errorf("GetResult with nil result should not error: %v", err)
	}
	if result.MutantsTotal != 0 {
		t.Errorf("MutantsTotal = %d, want 0", result.MutantsTotal)
	}
}

func TestJob_CanRetry(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		maxRetries int
		want       bool
	}{
		{"can retry", 0, 3, true},
		{"can retry once more", 2, 3, true},
		{"cannot retry", 3, 3, false},
		{"exceeded", 5, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &Job{
				RetryCount: tt.retryCount,
				MaxRetries: tt.maxRetries,
			}
			if got := job.CanRetry(); got != tt.want {
				t.Errorf("CanRetry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJobMessage_Encode(t *testing.T) {
	msg := &JobMessage{
		JobID:    uuid.New(),
		Type:     JobTypeQuality,
		Priority: 5,
	}

	data, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeJobMessage(data)
	if err != nil {
		t.Fatalf("DecodeJobMessage failed: %v", err)
	}

	if decoded.JobID != msg.JobID {
		t.Errorf("JobID mismatch")
	}
	if decoded.Type != msg.Type {
		t.Errorf("Type = %s, want %s", decoded.Type, msg.Type)
	}
	if decoded.Priority != msg.Priority {
		t.Errorf("Priority = %d, want %d", decoded.Priority, msg.Priority)
	}
}

func TestDecodeJobMessage_Invalid(t *testing.T) {
	if _, err := DecodeJobMessage([]byte("not json")); err == nil {
		t.Error("DecodeJobMessage should fail for invalid JSON")
	}
}

func TestPayload_JSON(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
	}{
		{"MutationPayload", MutationPayload{SourcePath: "calc.go", TestCommand: "go test ./...", Budget: "quick"}},
		{"QualityPayload", QualityPayload{SourcePath: "calc.go", TestPath: "calc_test.go", RunMutation: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.payload)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if len(data) == 0 {
				t.Error("marshaled data should not be empty")
			}
		})
	}
}

func TestResult_JSON(t *testing.T) {
	tests := []struct {
		name   string
		result interface{}
	}{
		{"MutationResult", MutationResult{RunID: uuid.New(), MutantsTotal: 10, MutantsKilled: 8, ScorePercent: 80}},
		{"QualityResult", QualityResult{Score: 0.85, Grade: "B", Passed: true, AssertionCount: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if len(data) == 0 {
				t.Error("marshaled data should not be empty")
			}
		})
	}
}
