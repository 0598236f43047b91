package events

import (
	"context"

	"github.com/google/uuid"
)

// Writer stores single events. The Log appends through a Writer, which may
// be a direct storage or an AsyncWriter batching in front of one.
type Writer interface {
	Store(ctx context.Context, event Event) error
}

// BatchWriter stores events in bulk. A batch either fully succeeds or fully
// fails.
type BatchWriter interface {
	StoreBatch(ctx context.Context, batch []Event) error
}

// Storage is the full persistence contract: single and bulk writes plus the
// per-owner read used by operational tooling.
type Storage interface {
	Writer
	BatchWriter

	// ListByOwner returns the owner's most recent events, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]Event, error)
}
