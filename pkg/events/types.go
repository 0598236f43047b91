package events

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event types appended by the posting pipeline.
const (
	// TypeJobCompleted records a successful submission attempt.
	TypeJobCompleted = "job.completed"
	// TypeJobFailed records a failed submission attempt. Appended on every
	// failed attempt, not only the terminal one.
	TypeJobFailed = "job.failed"
)

// Event is one append-only account event. Events are never mutated after
// being stored.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	EventType string         `json:"event_type"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate checks the required fields.
func (e *Event) Validate() error {
	if e.ID == uuid.Nil {
		return errors.Join(ErrEventInvalid, errors.New("id is required"))
	}
	if e.OwnerID == uuid.Nil {
		return errors.Join(ErrEventInvalid, errors.New("owner id is required"))
	}
	if e.EventType == "" {
		return errors.Join(ErrEventInvalid, errors.New("event type is required"))
	}
	if e.CreatedAt.IsZero() {
		return errors.Join(ErrEventInvalid, errors.New("created at is required"))
	}
	return nil
}
