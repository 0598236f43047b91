package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postflow/pkg/events"
)

type failingWriter struct {
	err error
}

func (w failingWriter) Store(ctx context.Context, event events.Event) error {
	return w.err
}

func TestNewLog(t *testing.T) {
	t.Parallel()

	t.Run("nil writer", func(t *testing.T) {
		t.Parallel()

		_, err := events.NewLog(nil)
		require.ErrorIs(t, err, events.ErrStorageNil)
	})

	t.Run("valid writer", func(t *testing.T) {
		t.Parallel()

		log, err := events.NewLog(events.NewMemoryStorage())
		require.NoError(t, err)
		assert.NotNil(t, log)
	})
}

func TestLog_Append(t *testing.T) {
	t.Parallel()

	t.Run("stores a complete event", func(t *testing.T) {
		t.Parallel()

		storage := events.NewMemoryStorage()
		log, err := events.NewLog(storage)
		require.NoError(t, err)

		ownerID := uuid.New()
		before := time.Now()
		err = log.Append(context.Background(), ownerID, events.TypeJobCompleted, map[string]any{
			"external_id": "abc123",
			"attempt":     1,
		})
		require.NoError(t, err)

		stored, err := storage.ListByOwner(context.Background(), ownerID, 10)
		require.NoError(t, err)
		require.Len(t, stored, 1)

		event := stored[0]
		assert.NotEqual(t, uuid.Nil, event.ID)
		assert.Equal(t, ownerID, event.OwnerID)
		assert.Equal(t, events.TypeJobCompleted, event.EventType)
		assert.Equal(t, "abc123", event.Meta["external_id"])
		assert.WithinDuration(t, before, event.CreatedAt, 5*time.Second)
		require.NoError(t, event.Validate())
	})

	t.Run("nil owner", func(t *testing.T) {
		t.Parallel()

		storage := events.NewMemoryStorage()
		log, err := events.NewLog(storage)
		require.NoError(t, err)

		err = log.Append(context.Background(), uuid.Nil, events.TypeJobFailed, nil)
		require.ErrorIs(t, err, events.ErrOwnerIDNil)
		assert.Zero(t, storage.Len())
	})

	t.Run("empty event type", func(t *testing.T) {
		t.Parallel()

		storage := events.NewMemoryStorage()
		log, err := events.NewLog(storage)
		require.NoError(t, err)

		err = log.Append(context.Background(), uuid.New(), "", nil)
		require.ErrorIs(t, err, events.ErrEventTypeEmpty)
		assert.Zero(t, storage.Len())
	})

	t.Run("writer failure propagates", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("connection refused")
		log, err := events.NewLog(failingWriter{err: storeErr})
		require.NoError(t, err)

		err = log.Append(context.Background(), uuid.New(), events.TypeJobFailed, nil)
		require.ErrorIs(t, err, storeErr)
	})
}

func TestEvent_Validate(t *testing.T) {
	t.Parallel()

	valid := events.Event{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		EventType: events.TypeJobCompleted,
		CreatedAt: time.Now(),
	}
	require.NoError(t, valid.Validate())

	missingID := valid
	missingID.ID = uuid.Nil
	require.ErrorIs(t, missingID.Validate(), events.ErrEventInvalid)

	missingOwner := valid
	missingOwner.OwnerID = uuid.Nil
	require.ErrorIs(t, missingOwner.Validate(), events.ErrEventInvalid)

	missingType := valid
	missingType.EventType = ""
	require.ErrorIs(t, missingType.Validate(), events.ErrEventInvalid)

	missingTime := valid
	missingTime.CreatedAt = time.Time{}
	require.ErrorIs(t, missingTime.Validate(), events.ErrEventInvalid)
}
