package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postflow/pkg/queue"
)

func TestProcessorFunc(t *testing.T) {
	t.Parallel()

	called := false
	p := queue.ProcessorFunc(func(ctx context.Context, job *queue.Job) error {
		called = true
		return nil
	})

	require.NoError(t, p.Process(context.Background(), &queue.Job{}))
	assert.True(t, called)
}

func TestNewProcessor(t *testing.T) {
	t.Parallel()

	t.Run("decodes payload", func(t *testing.T) {
		t.Parallel()

		type payload struct {
			PostID string `json:"post_id"`
			Count  int    `json:"count"`
		}

		var got payload
		var gotJob *queue.Job
		p := queue.NewProcessor(func(ctx context.Context, in payload, job *queue.Job) error {
			got = in
			gotJob = job
			return nil
		})

		raw, err := json.Marshal(payload{PostID: "p1", Count: 7})
		require.NoError(t, err)

		job := &queue.Job{ID: 42, Queue: "posts", Payload: raw}
		require.NoError(t, p.Process(context.Background(), job))
		assert.Equal(t, "p1", got.PostID)
		assert.Equal(t, 7, got.Count)
		require.NotNil(t, gotJob)
		assert.EqualValues(t, 42, gotJob.ID)
	})

	t.Run("propagates processor error", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("submit failed")
		p := queue.NewProcessor(func(ctx context.Context, in map[string]any, job *queue.Job) error {
			return sentinel
		})

		err := p.Process(context.Background(), &queue.Job{Payload: []byte(`{}`)})
		require.ErrorIs(t, err, sentinel)
		assert.False(t, queue.IsNonRetryable(err))
	})

	t.Run("malformed payload is non-retryable", func(t *testing.T) {
		t.Parallel()

		p := queue.NewProcessor(func(ctx context.Context, in struct {
			N int `json:"n"`
		}, job *queue.Job) error {
			t.Fatal("processor must not run with an undecodable payload")
			return nil
		})

		err := p.Process(context.Background(), &queue.Job{Payload: []byte(`{broken`)})
		require.ErrorIs(t, err, queue.ErrPayloadUnmarshal)
		assert.True(t, queue.IsNonRetryable(err), "retrying cannot fix a bad payload")
	})
}

func TestNonRetryable(t *testing.T) {
	t.Parallel()

	t.Run("nil passthrough", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, queue.NonRetryable(nil))
	})

	t.Run("marks and unwraps", func(t *testing.T) {
		t.Parallel()

		inner := errors.New("policy rejected")
		err := queue.NonRetryable(inner)

		assert.True(t, queue.IsNonRetryable(err))
		require.ErrorIs(t, err, queue.ErrNonRetryable)
		require.ErrorIs(t, err, inner)
		assert.Contains(t, err.Error(), "policy rejected")
	})

	t.Run("survives wrapping", func(t *testing.T) {
		t.Parallel()

		err := queue.NonRetryable(errors.New("policy rejected"))
		wrapped := errors.Join(errors.New("submit post"), err)

		assert.True(t, queue.IsNonRetryable(wrapped))
	})

	t.Run("plain errors are retryable", func(t *testing.T) {
		t.Parallel()

		assert.False(t, queue.IsNonRetryable(errors.New("timeout")))
	})
}
