package queue

import "errors"

// Common errors
var (
	// ErrStorageNil is returned when a nil storage is provided
	ErrStorageNil = errors.New("storage cannot be nil")

	// ErrRegistryNil is returned when a nil registry is provided
	ErrRegistryNil = errors.New("registry cannot be nil")

	// ErrQueueNameEmpty is returned when a queue name is empty
	ErrQueueNameEmpty = errors.New("queue name cannot be empty")

	// ErrQueueNotRegistered is returned when the queue has no registered processor
	ErrQueueNotRegistered = errors.New("queue is not registered")

	// ErrProcessorNil is returned when registering a nil processor
	ErrProcessorNil = errors.New("processor cannot be nil")

	// ErrNoProcessors is returned when the worker starts with an empty registry
	ErrNoProcessors = errors.New("no processors registered")

	// ErrPayloadNil is returned when attempting to enqueue a nil payload
	ErrPayloadNil = errors.New("payload cannot be nil")

	// ErrPayloadMarshal is returned when payload marshaling fails
	ErrPayloadMarshal = errors.New("failed to marshal payload to JSON")

	// ErrPayloadUnmarshal is returned when a typed processor cannot decode a payload
	ErrPayloadUnmarshal = errors.New("failed to unmarshal job payload")

	// ErrJobCreate is returned when job creation in storage fails
	ErrJobCreate = errors.New("failed to create job in storage")

	// ErrJobNotFound is returned when a job does not exist in storage
	ErrJobNotFound = errors.New("job not found")

	// ErrJobNotActive is returned when completing or failing a job that is
	// missing or not in active status
	ErrJobNotActive = errors.New("job is not active")

	// ErrProcessingTimeout is recorded as the failure reason when the reaper
	// recovers a job whose handler exceeded the processing deadline
	ErrProcessingTimeout = errors.New("processing deadline exceeded")

	// ErrNonRetryable marks failures that must go terminal on the current
	// attempt instead of consuming the remaining retry budget
	ErrNonRetryable = errors.New("non-retryable failure")
)

// NonRetryable wraps err so the worker fails the job terminally on this
// attempt. The wrapped error still matches its own sentinels via errors.Is.
// Returns nil if err is nil.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{err: err}
}

// IsNonRetryable reports whether err carries the non-retryable marker.
func IsNonRetryable(err error) bool {
	return errors.Is(err, ErrNonRetryable)
}

type nonRetryableError struct {
	err error
}

func (e *nonRetryableError) Error() string { return e.err.Error() }

func (e *nonRetryableError) Unwrap() error { return e.err }

func (e *nonRetryableError) Is(target error) bool { return target == ErrNonRetryable }
