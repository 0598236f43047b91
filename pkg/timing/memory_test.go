package timing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postflow/pkg/timing"
)

func TestMemoryEngagementStore_HourlyTotals(t *testing.T) {
	t.Parallel()

	store := timing.NewMemoryEngagementStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Insert(ctx, "r/golang", 9, 10, now))
	require.NoError(t, store.Insert(ctx, "r/golang", 9, 5, now))
	require.NoError(t, store.Insert(ctx, "r/golang", 20, 7, now))
	require.NoError(t, store.Insert(ctx, "r/rust", 9, 100, now))
	require.NoError(t, store.Insert(ctx, "r/golang", 9, 50, now.Add(-48*time.Hour)))

	totals, samples, err := store.HourlyTotals(ctx, "r/golang", now.Add(-time.Hour))
	require.NoError(t, err)

	assert.EqualValues(t, 3, samples)
	assert.InDelta(t, 15.0, totals[9], 0.0001)
	assert.InDelta(t, 7.0, totals[20], 0.0001)
	assert.Zero(t, totals[0])
}
