package timing

import (
	"context"
	"time"
)

// EngagementStore persists append-only engagement events and aggregates them
// by hour of day. Events are never mutated after insert.
type EngagementStore interface {
	// Insert appends one engagement event.
	Insert(ctx context.Context, destination string, hourOfDay int, score float64, recordedAt time.Time) error

	// HourlyTotals sums scores per hour of day for a destination since the
	// given time, and returns the number of contributing events.
	HourlyTotals(ctx context.Context, destination string, since time.Time) ([24]float64, int64, error)
}
