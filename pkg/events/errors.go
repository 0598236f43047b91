package events

import "errors"

// Common errors
var (
	// ErrStorageNil is returned when a nil storage or writer is provided
	ErrStorageNil = errors.New("event storage cannot be nil")

	// ErrOwnerIDNil is returned when appending an event without an owner
	ErrOwnerIDNil = errors.New("owner id cannot be nil")

	// ErrEventTypeEmpty is returned when appending an event without a type
	ErrEventTypeEmpty = errors.New("event type cannot be empty")

	// ErrEventInvalid indicates an event failed validation before storage
	ErrEventInvalid = errors.New("invalid event")

	// ErrWriterClosed is returned when storing through a closed async writer
	ErrWriterClosed = errors.New("async event writer is closed")
)
