package queue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/postflow/pkg/queue"
)

func TestRetryBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attempt int16
		want    time.Duration
	}{
		{attempt: 1, want: time.Minute},
		{attempt: 2, want: 2 * time.Minute},
		{attempt: 3, want: 4 * time.Minute},
		{attempt: 4, want: 8 * time.Minute},
		{attempt: 0, want: time.Minute},
		{attempt: -1, want: time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, queue.RetryBackoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.False(t, queue.StatusPending.Terminal())
	assert.False(t, queue.StatusDelayed.Terminal())
	assert.False(t, queue.StatusActive.Terminal())
	assert.True(t, queue.StatusCompleted.Terminal())
	assert.True(t, queue.StatusFailed.Terminal())
}
