package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postflow/pkg/events"
)

type failingBatchWriter struct {
	err error
}

func (w failingBatchWriter) StoreBatch(ctx context.Context, batch []events.Event) error {
	return w.err
}

func newEvent() events.Event {
	return events.Event{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		EventType: events.TypeJobCompleted,
		CreatedAt: time.Now(),
	}
}

func TestNewAsyncWriter(t *testing.T) {
	t.Parallel()

	_, err := events.NewAsyncWriter(nil, events.AsyncOptions{})
	require.ErrorIs(t, err, events.ErrStorageNil)
}

func TestAsyncWriter_Store(t *testing.T) {
	t.Parallel()

	t.Run("flushes on timeout", func(t *testing.T) {
		t.Parallel()

		storage := events.NewMemoryStorage()
		writer, err := events.NewAsyncWriter(storage, events.AsyncOptions{
			BatchTimeout: 10 * time.Millisecond,
		})
		require.NoError(t, err)
		defer writer.Close(context.Background())

		require.NoError(t, writer.Store(context.Background(), newEvent()))
		assert.Equal(t, 1, storage.Len(), "Store returns only after its batch is flushed")
	})

	t.Run("flushes when the batch fills", func(t *testing.T) {
		t.Parallel()

		storage := events.NewMemoryStorage()
		writer, err := events.NewAsyncWriter(storage, events.AsyncOptions{
			BatchSize:    2,
			BatchTimeout: time.Minute,
		})
		require.NoError(t, err)
		defer writer.Close(context.Background())

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = writer.Store(context.Background(), newEvent())
			}()
		}
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])
		assert.Equal(t, 2, storage.Len())
	})

	t.Run("reports storage failure to the caller", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("insert failed")
		writer, err := events.NewAsyncWriter(failingBatchWriter{err: storeErr}, events.AsyncOptions{
			BatchTimeout: 10 * time.Millisecond,
		})
		require.NoError(t, err)
		defer writer.Close(context.Background())

		err = writer.Store(context.Background(), newEvent())
		require.ErrorIs(t, err, storeErr)
	})
}

func TestAsyncWriter_Close(t *testing.T) {
	t.Parallel()

	t.Run("flushes buffered events", func(t *testing.T) {
		t.Parallel()

		storage := events.NewMemoryStorage()
		writer, err := events.NewAsyncWriter(storage, events.AsyncOptions{
			BatchSize:    100,
			BatchTimeout: time.Minute,
		})
		require.NoError(t, err)

		const total = 5
		var wg sync.WaitGroup
		errs := make([]error, total)
		for i := range total {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = writer.Store(context.Background(), newEvent())
			}()
		}

		// Give the worker a moment to collect the stores into its batch.
		time.Sleep(50 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, writer.Close(ctx))

		wg.Wait()
		for _, err := range errs {
			require.NoError(t, err)
		}
		assert.Equal(t, total, storage.Len())
	})

	t.Run("store after close", func(t *testing.T) {
		t.Parallel()

		storage := events.NewMemoryStorage()
		writer, err := events.NewAsyncWriter(storage, events.AsyncOptions{})
		require.NoError(t, err)

		require.NoError(t, writer.Close(context.Background()))

		err = writer.Store(context.Background(), newEvent())
		require.ErrorIs(t, err, events.ErrWriterClosed)
	})
}
