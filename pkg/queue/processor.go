package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

type (
	// Processor handles jobs dispatched from a single queue.
	Processor interface {
		Process(ctx context.Context, job *Job) error
	}

	// ProcessorFunc adapts a plain function to the Processor interface.
	ProcessorFunc func(ctx context.Context, job *Job) error

	// TypedProcessorFunc handles a decoded payload plus the carrying job,
	// which provides the job ID and attempt counters.
	TypedProcessorFunc[T any] func(ctx context.Context, payload T, job *Job) error
)

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, job *Job) error {
	return f(ctx, job)
}

// NewProcessor wraps a typed function into a Processor that unmarshals the
// job payload into T before invoking it. A payload that cannot be decoded is
// a non-retryable failure: re-running the job cannot fix malformed JSON.
func NewProcessor[T any](fn TypedProcessorFunc[T]) Processor {
	return ProcessorFunc(func(ctx context.Context, job *Job) error {
		var payload T
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return NonRetryable(errors.Join(ErrPayloadUnmarshal, fmt.Errorf("payload of type %T: %w", payload, err)))
		}
		return fn(ctx, payload, job)
	})
}
