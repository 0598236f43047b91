package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Enqueuer is the producer side of the queue. It validates payloads
// synchronously; everything after a successful Enqueue is asynchronous and
// observable only through job status.
type Enqueuer struct {
	storage EnqueuerStorage
}

// NewEnqueuer creates a new Enqueuer backed by the given storage.
func NewEnqueuer(storage EnqueuerStorage) (*Enqueuer, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}
	return &Enqueuer{storage: storage}, nil
}

// Enqueue adds a new job to the named queue and returns its ID.
//
// With WithDelay or WithRunAt pointing to the future, the job is created as
// delayed and becomes claimable once promoted; otherwise it is pending
// immediately. Only validation and storage errors are returned here; handler
// failures surface later through job status and events.
func (e *Enqueuer) Enqueue(ctx context.Context, queue string, payload any, opts ...EnqueueOption) (int64, error) {
	if queue == "" {
		return 0, ErrQueueNameEmpty
	}
	if payload == nil {
		return 0, ErrPayloadNil
	}

	options := &enqueueOptions{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(options)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return 0, errors.Join(ErrPayloadMarshal, fmt.Errorf("payload of type %T: %w", payload, err))
	}

	now := time.Now()
	job := &Job{
		Queue:       queue,
		Payload:     payloadBytes,
		Status:      StatusPending,
		Attempts:    0,
		MaxAttempts: options.maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if runAt := options.runAt(now); runAt.After(now) {
		job.Status = StatusDelayed
		job.DelayUntil = &runAt
	}

	if err := e.storage.CreateJob(ctx, job); err != nil {
		return 0, errors.Join(ErrJobCreate, fmt.Errorf("queue %q: %w", queue, err))
	}

	return job.ID, nil
}
