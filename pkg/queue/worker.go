package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// settleTimeout bounds the detached bookkeeping writes that record a job
// outcome, so graceful shutdown can finish settling in-flight jobs.
const settleTimeout = 10 * time.Second

// Worker drives the poll loop: promote due delayed jobs, claim pending jobs
// per registered queue up to its concurrency, dispatch them to processors,
// and record outcomes. A reaper pass recovers jobs whose processor exceeded
// the processing deadline.
//
// Correctness under horizontal scaling relies on Storage.ClaimJobs being
// contention-safe; the worker holds no cross-process locks.
type Worker struct {
	storage  Storage
	registry *Registry
	workerID uuid.UUID

	pollInterval time.Duration
	reapAfter    time.Duration
	reapInterval time.Duration
	logger       *slog.Logger

	mu       sync.Mutex // guards inflight
	inflight map[string]int

	wg       sync.WaitGroup
	stopMu   sync.Mutex // synchronizes WaitGroup adds with Stop
	stopping atomic.Bool

	runMu  sync.Mutex // guards ctx and cancel
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWorker creates a poll-loop worker over the given storage and registry.
func NewWorker(storage Storage, registry *Registry, opts ...WorkerOption) (*Worker, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}
	if registry == nil {
		return nil, ErrRegistryNil
	}

	options := &workerOptions{
		pollInterval: 2 * time.Second,
		reapAfter:    15 * time.Minute,
		reapInterval: time.Minute,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Worker{
		storage:      storage,
		registry:     registry,
		workerID:     uuid.New(),
		pollInterval: options.pollInterval,
		reapAfter:    options.reapAfter,
		reapInterval: options.reapInterval,
		logger:       options.logger,
		inflight:     make(map[string]int),
	}, nil
}

// Start begins polling in the background. The registry must have at least one
// processor; later registrations are picked up on the next tick.
func (w *Worker) Start(ctx context.Context) error {
	w.runMu.Lock()
	if w.cancel != nil {
		w.runMu.Unlock()
		return fmt.Errorf("worker already started")
	}
	if w.registry.Len() == 0 {
		w.runMu.Unlock()
		return ErrNoProcessors
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.runMu.Unlock()

	w.stopping.Store(false)

	go w.run()

	w.logger.Info("queue worker started",
		slog.String("worker_id", w.workerID.String()),
		slog.Any("queues", w.registry.Queues()),
		slog.Duration("poll_interval", w.pollInterval))

	return nil
}

// Stop cancels the poll loop and waits for in-flight jobs to settle.
func (w *Worker) Stop() error {
	w.runMu.Lock()
	if w.cancel == nil {
		w.runMu.Unlock()
		return fmt.Errorf("worker not started")
	}

	w.stopMu.Lock()
	w.stopping.Store(true)
	w.stopMu.Unlock()

	cancel := w.cancel
	w.cancel = nil
	w.runMu.Unlock()

	cancel()

	w.logger.Info("queue worker stopping, waiting for in-flight jobs",
		slog.String("worker_id", w.workerID.String()))

	w.wg.Wait()

	w.logger.Info("queue worker stopped",
		slog.String("worker_id", w.workerID.String()))

	return nil
}

// Run starts the worker and returns a function suitable for errgroup.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return w.Stop()
	}
}

// PendingCount returns the number of claimable jobs in the queue.
func (w *Worker) PendingCount(ctx context.Context, queue string) (int64, error) {
	return w.storage.PendingCount(ctx, queue)
}

// FailureRate aggregates terminal outcomes for jobs processed within the
// trailing window.
func (w *Worker) FailureRate(ctx context.Context, queue string, window time.Duration) (FailureReport, error) {
	return w.storage.FailureRate(ctx, queue, window)
}

// run is the main processing loop. Any error inside a cycle is logged and the
// loop keeps ticking; a bad cycle must never stop future polling.
func (w *Worker) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	reapTicker := time.NewTicker(w.reapInterval)
	defer reapTicker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.tick()
		case <-reapTicker.C:
			w.reap()
		}
	}
}

// tick runs one poll cycle: promotion first, then claims per queue.
func (w *Worker) tick() {
	if w.stopping.Load() {
		return
	}

	now := time.Now()

	promoted, err := w.storage.PromoteDelayed(w.ctx, now)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.logger.Error("failed to promote delayed jobs",
				slog.String("worker_id", w.workerID.String()),
				slog.String("error", err.Error()))
		}
	} else if promoted > 0 {
		w.logger.Debug("promoted delayed jobs", slog.Int64("count", promoted))
	}

	for _, proc := range w.registry.Snapshot() {
		if proc.Paused {
			continue
		}

		free := proc.Concurrency - w.inflightCount(proc.Queue)
		if free <= 0 {
			continue
		}

		jobs, err := w.storage.ClaimJobs(w.ctx, proc.Queue, free, now)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				w.logger.Error("failed to claim jobs",
					slog.String("worker_id", w.workerID.String()),
					slog.String("queue", proc.Queue),
					slog.String("error", err.Error()))
			}
			continue
		}

		for _, job := range jobs {
			w.dispatch(proc.Processor, job)
		}
	}
}

// dispatch hands a claimed job to its processor on a dedicated goroutine.
func (w *Worker) dispatch(p Processor, job *Job) {
	w.stopMu.Lock()
	if w.stopping.Load() {
		w.stopMu.Unlock()
		// The claimed row stays active; the reaper recovers it after the
		// processing deadline.
		return
	}
	w.wg.Add(1)
	w.stopMu.Unlock()

	w.addInflight(job.Queue, 1)

	go func() {
		defer w.wg.Done()
		defer w.addInflight(job.Queue, -1)

		w.process(p, job)
	}()
}

// process executes a job and settles its outcome. Panics are recovered and
// treated as failures so one bad payload cannot take the worker down.
func (w *Worker) process(p Processor, job *Job) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("processor panicked",
				slog.String("worker_id", w.workerID.String()),
				slog.Int64("job_id", job.ID),
				slog.String("queue", job.Queue),
				slog.Any("panic", r))
			w.settleFailure(job, fmt.Errorf("panic in processor: %v", r), time.Since(start))
		}
	}()

	w.logger.Debug("claimed job",
		slog.String("worker_id", w.workerID.String()),
		slog.Int64("job_id", job.ID),
		slog.String("queue", job.Queue),
		slog.Int("attempt", int(job.Attempts)+1))

	// The processor context is detached from the worker lifecycle so graceful
	// shutdown lets in-flight jobs finish; its deadline matches the reaper
	// threshold so a hung call is abandoned around the time it gets reaped.
	ctx, cancel := context.WithTimeout(context.Background(), w.reapAfter)
	defer cancel()

	err := p.Process(ctx, job)
	duration := time.Since(start)

	if err != nil {
		w.settleFailure(job, err, duration)
		return
	}
	w.settleSuccess(job, duration)
}

// settleSuccess marks a job completed.
func (w *Worker) settleSuccess(job *Job, duration time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()

	if err := w.storage.CompleteJob(ctx, job.ID); err != nil {
		w.logger.Error("failed to mark job completed",
			slog.String("worker_id", w.workerID.String()),
			slog.Int64("job_id", job.ID),
			slog.String("error", err.Error()))
		return
	}

	w.logger.Info("job completed",
		slog.String("worker_id", w.workerID.String()),
		slog.Int64("job_id", job.ID),
		slog.String("queue", job.Queue),
		slog.Duration("duration", duration))
}

// settleFailure records a failed attempt. The attempt either schedules a
// backoff retry or, when the budget is exhausted or the error carries the
// non-retryable marker, goes terminal immediately.
func (w *Worker) settleFailure(job *Job, execErr error, duration time.Duration) {
	attempt := job.Attempts + 1
	terminal := attempt >= job.MaxAttempts || IsNonRetryable(execErr)
	retryAt := time.Now().Add(RetryBackoff(attempt))

	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()

	if err := w.storage.FailJob(ctx, job.ID, execErr.Error(), retryAt, terminal); err != nil {
		w.logger.Error("failed to record job failure",
			slog.String("worker_id", w.workerID.String()),
			slog.Int64("job_id", job.ID),
			slog.String("error", err.Error()))
		return
	}

	if terminal {
		w.logger.Warn("job failed terminally",
			slog.String("worker_id", w.workerID.String()),
			slog.Int64("job_id", job.ID),
			slog.String("queue", job.Queue),
			slog.Int("attempt", int(attempt)),
			slog.Int("max_attempts", int(job.MaxAttempts)),
			slog.Duration("duration", duration),
			slog.String("error", execErr.Error()))
		return
	}

	w.logger.Error("job failed, retry scheduled",
		slog.String("worker_id", w.workerID.String()),
		slog.Int64("job_id", job.ID),
		slog.String("queue", job.Queue),
		slog.Int("attempt", int(attempt)),
		slog.Int("max_attempts", int(job.MaxAttempts)),
		slog.Time("retry_at", retryAt),
		slog.String("error", execErr.Error()))
}

// reap recovers active jobs whose processor exceeded the processing deadline.
// A reaped job is charged a failed attempt and re-enters the normal
// backoff-or-terminal path.
func (w *Worker) reap() {
	cutoff := time.Now().Add(-w.reapAfter)

	stale, err := w.storage.StaleActiveJobs(w.ctx, cutoff)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.logger.Error("failed to list stale active jobs",
				slog.String("worker_id", w.workerID.String()),
				slog.String("error", err.Error()))
		}
		return
	}

	for _, job := range stale {
		attempt := job.Attempts + 1
		terminal := attempt >= job.MaxAttempts
		retryAt := time.Now().Add(RetryBackoff(attempt))

		ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
		err := w.storage.FailJob(ctx, job.ID, ErrProcessingTimeout.Error(), retryAt, terminal)
		cancel()
		if err != nil {
			// The job may have settled between listing and failing.
			if !errors.Is(err, ErrJobNotActive) {
				w.logger.Error("failed to reap stale job",
					slog.String("worker_id", w.workerID.String()),
					slog.Int64("job_id", job.ID),
					slog.String("error", err.Error()))
			}
			continue
		}

		w.logger.Warn("reaped stale active job",
			slog.String("worker_id", w.workerID.String()),
			slog.Int64("job_id", job.ID),
			slog.String("queue", job.Queue),
			slog.Int("attempt", int(attempt)),
			slog.Bool("terminal", terminal))
	}
}

func (w *Worker) inflightCount(queue string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inflight[queue]
}

func (w *Worker) addInflight(queue string, delta int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inflight[queue] += delta
	if w.inflight[queue] <= 0 {
		delete(w.inflight, queue)
	}
}
