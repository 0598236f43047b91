package timing

import (
	"context"
	"sync"
	"time"
)

type engagementEvent struct {
	destination string
	hourOfDay   int
	score       float64
	recordedAt  time.Time
}

// MemoryEngagementStore implements EngagementStore with an in-process slice,
// for tests and local development without a database.
type MemoryEngagementStore struct {
	mu     sync.Mutex
	events []engagementEvent
}

var _ EngagementStore = (*MemoryEngagementStore)(nil)

// NewMemoryEngagementStore creates an empty in-memory engagement store.
func NewMemoryEngagementStore() *MemoryEngagementStore {
	return &MemoryEngagementStore{}
}

// Insert appends one engagement event.
func (ms *MemoryEngagementStore) Insert(ctx context.Context, destination string, hourOfDay int, score float64, recordedAt time.Time) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.events = append(ms.events, engagementEvent{
		destination: destination,
		hourOfDay:   hourOfDay,
		score:       score,
		recordedAt:  recordedAt,
	})
	return nil
}

// HourlyTotals sums scores per hour of day since the given time.
func (ms *MemoryEngagementStore) HourlyTotals(ctx context.Context, destination string, since time.Time) ([24]float64, int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var totals [24]float64
	var samples int64
	for _, e := range ms.events {
		if e.destination != destination || e.recordedAt.Before(since) {
			continue
		}
		if e.hourOfDay >= 0 && e.hourOfDay < len(totals) {
			totals[e.hourOfDay] += e.score
			samples++
		}
	}
	return totals, samples, nil
}
