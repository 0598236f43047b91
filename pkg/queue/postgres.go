package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// jobColumns is the scan order shared by every query returning job rows.
const jobColumns = `id, queue_name, payload, status, attempts, max_attempts, delay_until, error, created_at, updated_at, processed_at, completed_at, failed_at`

// PostgresStorage implements Storage on a pgx connection pool. Claims rely on
// FOR UPDATE SKIP LOCKED, so any number of worker processes can poll the same
// jobs table without double-claiming a row.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

var _ Storage = (*PostgresStorage)(nil)

// NewPostgresStorage creates a Postgres-backed job store.
func NewPostgresStorage(pool *pgxpool.Pool) (*PostgresStorage, error) {
	if pool == nil {
		return nil, ErrStorageNil
	}
	return &PostgresStorage{pool: pool}, nil
}

// CreateJob persists a new job and assigns its ID from the sequence.
func (s *PostgresStorage) CreateJob(ctx context.Context, job *Job) error {
	if job == nil {
		return ErrPayloadNil
	}

	query := `
		INSERT INTO jobs (queue_name, payload, status, attempts, max_attempts, delay_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		job.Queue,
		job.Payload,
		string(job.Status),
		job.Attempts,
		job.MaxAttempts,
		job.DelayUntil,
		job.CreatedAt,
		job.UpdatedAt,
	).Scan(&job.ID)
	if err != nil {
		return fmt.Errorf("failed to insert job into queue %q: %w", job.Queue, err)
	}
	return nil
}

// GetJob returns the job by ID or ErrJobNotFound.
func (s *PostgresStorage) GetJob(ctx context.Context, id int64) (*Job, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job %d: %w", id, err)
	}
	return job, nil
}

// PromoteDelayed flips every due delayed job to pending in one bulk update.
func (s *PostgresStorage) PromoteDelayed(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = 'pending', updated_at = $1 WHERE status = 'delayed' AND delay_until <= $1`,
		now)
	if err != nil {
		return 0, fmt.Errorf("failed to promote delayed jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ClaimJobs atomically claims up to limit pending jobs, oldest first.
// SKIP LOCKED makes the select-then-update race-free across processes: rows
// locked by a concurrent claimer are invisible here instead of blocking.
func (s *PostgresStorage) ClaimJobs(ctx context.Context, queue string, limit int, now time.Time) ([]*Job, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		WITH claimable AS (
			SELECT id
			FROM jobs
			WHERE queue_name = $1 AND status = 'pending'
			ORDER BY created_at, id
			FOR UPDATE SKIP LOCKED
			LIMIT $2
		)
		UPDATE jobs
		SET status = 'active', processed_at = $3, updated_at = $3
		FROM claimable
		WHERE jobs.id = claimable.id
		RETURNING jobs.id, jobs.queue_name, jobs.payload, jobs.status, jobs.attempts, jobs.max_attempts,
			jobs.delay_until, jobs.error, jobs.created_at, jobs.updated_at, jobs.processed_at,
			jobs.completed_at, jobs.failed_at`

	rows, err := s.pool.Query(ctx, query, queue, limit, now)
	if err != nil {
		return nil, fmt.Errorf("failed to claim jobs from queue %q: %w", queue, err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claimed job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read claimed jobs: %w", err)
	}
	return jobs, nil
}

// CompleteJob transitions an active job to completed.
func (s *PostgresStorage) CompleteJob(ctx context.Context, id int64) error {
	now := time.Now()
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = 'completed', completed_at = $2, updated_at = $2 WHERE id = $1 AND status = 'active'`,
		id, now)
	if err != nil {
		return fmt.Errorf("failed to complete job %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotActive
	}
	return nil
}

// FailJob records a failed attempt: backoff retry via delayed, or terminal
// failed when the budget is exhausted or the failure was non-retryable.
func (s *PostgresStorage) FailJob(ctx context.Context, id int64, errMsg string, retryAt time.Time, terminal bool) error {
	now := time.Now()

	var (
		tag pgconn.CommandTag
		err error
	)
	if terminal {
		tag, err = s.pool.Exec(ctx,
			`UPDATE jobs SET status = 'failed', attempts = attempts + 1, error = $2, failed_at = $3, updated_at = $3
			 WHERE id = $1 AND status = 'active'`,
			id, errMsg, now)
	} else {
		tag, err = s.pool.Exec(ctx,
			`UPDATE jobs SET status = 'delayed', attempts = attempts + 1, error = $2, delay_until = $3, updated_at = $4
			 WHERE id = $1 AND status = 'active'`,
			id, errMsg, retryAt, now)
	}
	if err != nil {
		return fmt.Errorf("failed to record failure for job %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotActive
	}
	return nil
}

// StaleActiveJobs lists active jobs claimed at or before olderThan.
func (s *PostgresStorage) StaleActiveJobs(ctx context.Context, olderThan time.Time) ([]*Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = 'active' AND processed_at <= $1 ORDER BY processed_at`,
		olderThan)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stale jobs: %w", err)
	}
	return jobs, nil
}

// PendingCount returns the number of pending jobs in the queue.
func (s *PostgresStorage) PendingCount(ctx context.Context, queue string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM jobs WHERE queue_name = $1 AND status = 'pending'`,
		queue).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending jobs in queue %q: %w", queue, err)
	}
	return count, nil
}

// FailureRate aggregates terminal outcomes for jobs processed in the window.
func (s *PostgresStorage) FailureRate(ctx context.Context, queue string, window time.Duration) (FailureReport, error) {
	since := time.Now().Add(-window)

	query := `
		SELECT
			count(*) FILTER (WHERE status IN ('completed', 'failed')),
			count(*) FILTER (WHERE status = 'failed')
		FROM jobs
		WHERE queue_name = $1 AND processed_at >= $2`

	var report FailureReport
	err := s.pool.QueryRow(ctx, query, queue, since).Scan(&report.TotalJobs, &report.FailedJobs)
	if err != nil {
		return FailureReport{}, fmt.Errorf("failed to aggregate failure rate for queue %q: %w", queue, err)
	}
	if report.TotalJobs > 0 {
		report.FailureRate = float64(report.FailedJobs) / float64(report.TotalJobs)
	}
	return report, nil
}

func scanJob(row pgx.Row) (*Job, error) {
	var (
		job    Job
		status string
	)
	err := row.Scan(
		&job.ID,
		&job.Queue,
		&job.Payload,
		&status,
		&job.Attempts,
		&job.MaxAttempts,
		&job.DelayUntil,
		&job.Error,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.ProcessedAt,
		&job.CompletedAt,
		&job.FailedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Status = Status(status)
	return &job, nil
}
