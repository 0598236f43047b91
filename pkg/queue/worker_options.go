package queue

import (
	"log/slog"
	"time"
)

// WorkerOption is a functional option for configuring a worker
type WorkerOption func(*workerOptions)

type workerOptions struct {
	pollInterval time.Duration
	reapAfter    time.Duration
	reapInterval time.Duration
	logger       *slog.Logger
}

// WithPollInterval sets how often the worker promotes and claims jobs.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithReapAfter sets the processing deadline: active jobs older than this are
// treated as failed attempts by the reaper. It also bounds each processor
// invocation's context.
func WithReapAfter(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.reapAfter = d
		}
	}
}

// WithReapInterval sets how often the reaper pass scans for stale jobs.
func WithReapInterval(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.reapInterval = d
		}
	}
}

// WithWorkerLogger sets the logger for the worker
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(o *workerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
