package queue

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStorage implements Storage with an in-process map. It mirrors the
// Postgres semantics exactly, including claim ordering and state guards, and
// exists for tests and local development without a database.
type MemoryStorage struct {
	mu   sync.Mutex
	seq  int64
	jobs map[int64]*Job
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory job store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{jobs: make(map[int64]*Job)}
}

// CreateJob stores a copy of the job and assigns the next sequential ID.
func (ms *MemoryStorage) CreateJob(ctx context.Context, job *Job) error {
	if job == nil {
		return ErrPayloadNil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.seq++
	job.ID = ms.seq

	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = now
	}
	if job.Status == "" {
		job.Status = StatusPending
	}
	if job.MaxAttempts == 0 {
		job.MaxAttempts = DefaultMaxAttempts
	}

	ms.jobs[job.ID] = cloneJob(job)
	return nil
}

// GetJob returns a copy of the job by ID or ErrJobNotFound.
func (ms *MemoryStorage) GetJob(ctx context.Context, id int64) (*Job, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[id]
	if !exists {
		return nil, ErrJobNotFound
	}
	return cloneJob(job), nil
}

// PromoteDelayed flips every due delayed job to pending.
func (ms *MemoryStorage) PromoteDelayed(ctx context.Context, now time.Time) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var promoted int64
	for _, job := range ms.jobs {
		if job.Status == StatusDelayed && job.DelayUntil != nil && !job.DelayUntil.After(now) {
			job.Status = StatusPending
			job.UpdatedAt = now
			promoted++
		}
	}
	return promoted, nil
}

// ClaimJobs claims up to limit pending jobs from the queue, oldest first.
func (ms *MemoryStorage) ClaimJobs(ctx context.Context, queue string, limit int, now time.Time) ([]*Job, error) {
	if limit <= 0 {
		return nil, nil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	var due []*Job
	for _, job := range ms.jobs {
		if job.Queue == queue && job.Status == StatusPending {
			due = append(due, job)
		}
	}
	slices.SortFunc(due, func(a, b *Job) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(due) > limit {
		due = due[:limit]
	}

	claimed := make([]*Job, 0, len(due))
	for _, job := range due {
		processedAt := now
		job.Status = StatusActive
		job.ProcessedAt = &processedAt
		job.UpdatedAt = now
		claimed = append(claimed, cloneJob(job))
	}
	return claimed, nil
}

// CompleteJob transitions an active job to completed.
func (ms *MemoryStorage) CompleteJob(ctx context.Context, id int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[id]
	if !exists || job.Status != StatusActive {
		return ErrJobNotActive
	}

	now := time.Now()
	job.Status = StatusCompleted
	job.CompletedAt = &now
	job.UpdatedAt = now
	return nil
}

// FailJob records a failed attempt on an active job.
func (ms *MemoryStorage) FailJob(ctx context.Context, id int64, errMsg string, retryAt time.Time, terminal bool) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[id]
	if !exists || job.Status != StatusActive {
		return ErrJobNotActive
	}

	now := time.Now()
	job.Attempts++
	job.Error = &errMsg
	job.UpdatedAt = now

	if terminal {
		job.Status = StatusFailed
		job.FailedAt = &now
		return nil
	}

	delayUntil := retryAt
	job.Status = StatusDelayed
	job.DelayUntil = &delayUntil
	return nil
}

// StaleActiveJobs lists active jobs claimed at or before olderThan.
func (ms *MemoryStorage) StaleActiveJobs(ctx context.Context, olderThan time.Time) ([]*Job, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var stale []*Job
	for _, job := range ms.jobs {
		if job.Status == StatusActive && job.ProcessedAt != nil && !job.ProcessedAt.After(olderThan) {
			stale = append(stale, cloneJob(job))
		}
	}
	slices.SortFunc(stale, func(a, b *Job) int {
		return a.ProcessedAt.Compare(*b.ProcessedAt)
	})
	return stale, nil
}

// PendingCount returns the number of pending jobs in the queue.
func (ms *MemoryStorage) PendingCount(ctx context.Context, queue string) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var count int64
	for _, job := range ms.jobs {
		if job.Queue == queue && job.Status == StatusPending {
			count++
		}
	}
	return count, nil
}

// FailureRate aggregates terminal outcomes for jobs processed in the window.
func (ms *MemoryStorage) FailureRate(ctx context.Context, queue string, window time.Duration) (FailureReport, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	since := time.Now().Add(-window)

	var report FailureReport
	for _, job := range ms.jobs {
		if job.Queue != queue || !job.Status.Terminal() {
			continue
		}
		if job.ProcessedAt == nil || job.ProcessedAt.Before(since) {
			continue
		}
		report.TotalJobs++
		if job.Status == StatusFailed {
			report.FailedJobs++
		}
	}
	if report.TotalJobs > 0 {
		report.FailureRate = float64(report.FailedJobs) / float64(report.TotalJobs)
	}
	return report, nil
}

// cloneJob copies the job including its pointer fields so callers can never
// mutate stored state through a returned value.
func cloneJob(job *Job) *Job {
	clone := *job
	if job.Payload != nil {
		clone.Payload = slices.Clone(job.Payload)
	}
	if job.DelayUntil != nil {
		t := *job.DelayUntil
		clone.DelayUntil = &t
	}
	if job.Error != nil {
		s := *job.Error
		clone.Error = &s
	}
	if job.ProcessedAt != nil {
		t := *job.ProcessedAt
		clone.ProcessedAt = &t
	}
	if job.CompletedAt != nil {
		t := *job.CompletedAt
		clone.CompletedAt = &t
	}
	if job.FailedAt != nil {
		t := *job.FailedAt
		clone.FailedAt = &t
	}
	return &clone
}
