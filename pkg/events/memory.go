package events

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStorage implements Storage with an in-process slice, for tests and
// local development without a database.
type MemoryStorage struct {
	mu     sync.Mutex
	events []Event
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory event storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store appends one event.
func (ms *MemoryStorage) Store(ctx context.Context, event Event) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.events = append(ms.events, cloneEvent(event))
	return nil
}

// StoreBatch appends all events in the batch.
func (ms *MemoryStorage) StoreBatch(ctx context.Context, batch []Event) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, event := range batch {
		ms.events = append(ms.events, cloneEvent(event))
	}
	return nil
}

// ListByOwner returns the owner's most recent events, newest first.
func (ms *MemoryStorage) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]Event, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if limit <= 0 {
		return nil, nil
	}

	var out []Event
	for _, event := range ms.events {
		if event.OwnerID == ownerID {
			out = append(out, cloneEvent(event))
		}
	}
	slices.SortStableFunc(out, func(a, b Event) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len returns the number of stored events.
func (ms *MemoryStorage) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.events)
}

func cloneEvent(event Event) Event {
	event.Meta = maps.Clone(event.Meta)
	return event
}
