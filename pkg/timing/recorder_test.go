package timing_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postflow/pkg/timing"
)

type capturedInsert struct {
	destination string
	hourOfDay   int
	score       float64
}

type capturingStore struct {
	mu      sync.Mutex
	inserts []capturedInsert
	err     error
}

func (s *capturingStore) Insert(ctx context.Context, destination string, hourOfDay int, score float64, recordedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.inserts = append(s.inserts, capturedInsert{destination: destination, hourOfDay: hourOfDay, score: score})
	return nil
}

func (s *capturingStore) HourlyTotals(ctx context.Context, destination string, since time.Time) ([24]float64, int64, error) {
	return [24]float64{}, 0, nil
}

func newRecorder(t *testing.T, store timing.EngagementStore) *timing.Recorder {
	t.Helper()

	r, err := timing.NewRecorder(store,
		timing.WithRecorderLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return r
}

func TestNewRecorder(t *testing.T) {
	t.Parallel()

	_, err := timing.NewRecorder(nil)
	require.ErrorIs(t, err, timing.ErrStoreNil)
}

func TestRecorder_Record(t *testing.T) {
	t.Parallel()

	t.Run("scores and buckets in destination timezone", func(t *testing.T) {
		t.Parallel()

		store := &capturingStore{}
		r := newRecorder(t, store)

		// 20:30 UTC is 16:30 in New York during daylight saving time.
		r.Record(context.Background(), "r/golang", timing.Engagement{
			Reactions: 2,
			Comments:  3,
			PostedAt:  time.Date(2026, time.June, 15, 20, 30, 0, 0, time.UTC),
			Timezone:  "America/New_York",
		})

		require.Len(t, store.inserts, 1)
		assert.Equal(t, "r/golang", store.inserts[0].destination)
		assert.Equal(t, 16, store.inserts[0].hourOfDay)
		assert.InDelta(t, 11.0, store.inserts[0].score, 0.0001)
	})

	t.Run("unknown timezone keeps the post's own zone", func(t *testing.T) {
		t.Parallel()

		store := &capturingStore{}
		r := newRecorder(t, store)

		r.Record(context.Background(), "r/golang", timing.Engagement{
			Reactions: 1,
			PostedAt:  time.Date(2026, time.June, 15, 20, 30, 0, 0, time.UTC),
			Timezone:  "Not/AZone",
		})

		require.Len(t, store.inserts, 1)
		assert.Equal(t, 20, store.inserts[0].hourOfDay)
	})

	t.Run("empty destination drops the event", func(t *testing.T) {
		t.Parallel()

		store := &capturingStore{}
		r := newRecorder(t, store)

		r.Record(context.Background(), "", timing.Engagement{Reactions: 5})

		assert.Empty(t, store.inserts)
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		t.Parallel()

		store := &capturingStore{err: errors.New("store down")}
		r := newRecorder(t, store)

		// Must not panic or surface the error.
		r.Record(context.Background(), "r/golang", timing.Engagement{Reactions: 1})
	})

	t.Run("zero posted time defaults to now", func(t *testing.T) {
		t.Parallel()

		store := &capturingStore{}
		r := newRecorder(t, store)

		r.Record(context.Background(), "r/golang", timing.Engagement{Comments: 2})

		require.Len(t, store.inserts, 1)
		assert.InDelta(t, 6.0, store.inserts[0].score, 0.0001)
	})
}

func TestEngagement_Score(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, timing.Engagement{}.Score(), 0.0001)
	assert.InDelta(t, 5.0, timing.Engagement{Reactions: 5}.Score(), 0.0001)
	assert.InDelta(t, 9.0, timing.Engagement{Comments: 3}.Score(), 0.0001)
	assert.InDelta(t, 11.0, timing.Engagement{Reactions: 2, Comments: 3}.Score(), 0.0001)
}
