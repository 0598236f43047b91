package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Log appends account events. It owns ID and timestamp assignment so callers
// only provide the domain facts: who, what, and the attempt details.
type Log struct {
	writer Writer
}

// NewLog creates an event log over the given writer.
func NewLog(writer Writer) (*Log, error) {
	if writer == nil {
		return nil, ErrStorageNil
	}
	return &Log{writer: writer}, nil
}

// Append stores one event for the owner. Meta may be nil.
func (l *Log) Append(ctx context.Context, ownerID uuid.UUID, eventType string, meta map[string]any) error {
	if ownerID == uuid.Nil {
		return ErrOwnerIDNil
	}
	if eventType == "" {
		return ErrEventTypeEmpty
	}

	return l.writer.Store(ctx, Event{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		EventType: eventType,
		Meta:      meta,
		CreatedAt: time.Now(),
	})
}
