package queue

import (
	"context"
	"time"
)

// EnqueuerStorage is the narrow interface the producer side needs.
type EnqueuerStorage interface {
	// CreateJob persists a new job and assigns its ID.
	CreateJob(ctx context.Context, job *Job) error
}

// Storage is the full job-store contract the worker polls against.
// Implementations must keep every transition safe under concurrent callers:
// multiple worker processes may promote, claim and update the same table at
// the same time.
type Storage interface {
	EnqueuerStorage

	// GetJob returns the job by ID or ErrJobNotFound.
	GetJob(ctx context.Context, id int64) (*Job, error)

	// PromoteDelayed flips every delayed job whose delay_until has passed to
	// pending in one bulk update and reports how many rows changed.
	PromoteDelayed(ctx context.Context, now time.Time) (int64, error)

	// ClaimJobs atomically claims up to limit pending jobs from the queue,
	// oldest first, marking them active with processed_at set. Rows already
	// claimed by a concurrent worker are skipped, never double-claimed.
	ClaimJobs(ctx context.Context, queue string, limit int, now time.Time) ([]*Job, error)

	// CompleteJob transitions an active job to completed.
	// Returns ErrJobNotActive if the job is missing or not active.
	CompleteJob(ctx context.Context, id int64) error

	// FailJob records a failed attempt on an active job: increments attempts
	// and stores errMsg. When terminal is false the job becomes delayed until
	// retryAt; when true it becomes failed with failed_at set.
	// Returns ErrJobNotActive if the job is missing or not active.
	FailJob(ctx context.Context, id int64, errMsg string, retryAt time.Time, terminal bool) error

	// StaleActiveJobs returns active jobs whose processed_at is at or before
	// olderThan, i.e. jobs whose handler exceeded the processing deadline.
	StaleActiveJobs(ctx context.Context, olderThan time.Time) ([]*Job, error)

	// PendingCount returns the number of pending jobs in the queue.
	PendingCount(ctx context.Context, queue string) (int64, error)

	// FailureRate aggregates terminal outcomes for jobs processed within the
	// trailing window. An empty window yields a zero report, not an error.
	FailureRate(ctx context.Context, queue string, window time.Duration) (FailureReport, error)
}
