package queue

import (
	"encoding/json"
	"time"
)

// Status represents the lifecycle state of a job.
type Status string

const (
	// StatusPending marks a job eligible for claiming.
	StatusPending Status = "pending"
	// StatusDelayed marks a job waiting for its delay_until timestamp,
	// either an initial enqueue delay or a retry backoff.
	StatusDelayed Status = "delayed"
	// StatusActive marks a job claimed by a worker and being processed.
	StatusActive Status = "active"
	// StatusCompleted marks a successfully processed job. Terminal.
	StatusCompleted Status = "completed"
	// StatusFailed marks a job that exhausted its attempts or hit a
	// non-retryable failure. Terminal.
	StatusFailed Status = "failed"
)

// Terminal reports whether the status allows no further processing.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// DefaultMaxAttempts is applied when enqueue options don't override it.
const DefaultMaxAttempts int16 = 3

// MaxAttemptsCeiling caps the per-job retry budget.
const MaxAttemptsCeiling int16 = 10

// Job represents a unit of deferred work with its own retry lifecycle.
type Job struct {
	ID          int64           `json:"id"`
	Queue       string          `json:"queue"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Status      Status          `json:"status"`
	Attempts    int16           `json:"attempts"`
	MaxAttempts int16           `json:"max_attempts"`
	DelayUntil  *time.Time      `json:"delay_until,omitempty"`
	Error       *string         `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	FailedAt    *time.Time      `json:"failed_at,omitempty"`
}

// FailureReport summarizes terminal outcomes for a queue over a time window.
// TotalJobs counts jobs that reached a terminal status inside the window;
// jobs still pending or active are not part of the rate.
type FailureReport struct {
	FailureRate float64 `json:"failure_rate"`
	TotalJobs   int64   `json:"total_jobs"`
	FailedJobs  int64   `json:"failed_jobs"`
}

// RetryBackoff returns the delay before the given failed attempt is retried:
// 2^(attempt-1) minutes, so attempt 1 retries after 1 minute, attempt 2
// after 2 minutes, attempt 3 after 4 minutes.
func RetryBackoff(attempt int16) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(1<<(attempt-1)) * time.Minute
}
