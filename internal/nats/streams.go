// Package nats provides stream configuration for mutation job processing
package nats

import (
	"context"
	"time"
)

// Stream names
const (
	StreamJobs = "MUTANT_JOBS"
)

// Subject patterns for job routing
const (
	// SubjectJobsAll matches all job subjects
	SubjectJobsAll = "mutant.jobs.>"

	// Job type subjects
	SubjectJobMutation = "mutant.jobs.mutation"
	SubjectJobQuality  = "mutant.jobs.quality"
)

// Consumer names
const (
	ConsumerMutation = "mutation-worker"
	ConsumerQuality  = "quality-worker"
)

// DefaultStreamConfig returns the default stream configuration for jobs
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:        StreamJobs,
		Subjects:    []string{SubjectJobsAll},
		MaxMsgs:     100000,
		MaxBytes:    1024 * 1024 * 500, // 500MB
		MaxAge:      7 * 24 * time.Hour,
		Replicas:    1,
		Description: "Mutant job processing stream",
	}
}

// SetupStreams creates all required streams and consumers
func (c *Client) SetupStreams(ctx context.Context) error {
	// Create main jobs stream
	_, err := c.CreateStream(ctx, DefaultStreamConfig())
	if err != nil {
		return err
	}

	// Create consumers for each worker type
	consumers := []struct {
		name    string
		subject string
	}{
		{ConsumerMutation, SubjectJobMutation},
		{ConsumerQuality, SubjectJobQuality},
	}

	for _, cons := range consumers {
		if _, err := c.CreateConsumer(ctx, StreamJobs, cons.name, cons.subject); err != nil {
			return err
		}
	}

	return nil
}

// SubjectForJobType returns the NATS subject for a job type
func SubjectForJobType(jobType string) string {
	switch jobType {
	case "mutation":
		return SubjectJobMutation
	case "quality":
		return SubjectJobQuality
	default:
		return ""
	}
}

// ConsumerForJobType returns the consumer name for a job type
func ConsumerForJobType(jobType string) string {
	switch jobType {
	case "mutation":
		return ConsumerMutation
	case "quality":
		return ConsumerQuality
	default:
		return ""
	}
}
