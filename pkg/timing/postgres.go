package timing

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresEngagementStore persists engagement events in the
// engagement_events table.
type PostgresEngagementStore struct {
	pool *pgxpool.Pool
}

var _ EngagementStore = (*PostgresEngagementStore)(nil)

// NewPostgresEngagementStore creates a store over the given pool.
func NewPostgresEngagementStore(pool *pgxpool.Pool) (*PostgresEngagementStore, error) {
	if pool == nil {
		return nil, ErrStoreNil
	}
	return &PostgresEngagementStore{pool: pool}, nil
}

// Insert appends one engagement event.
func (s *PostgresEngagementStore) Insert(ctx context.Context, destination string, hourOfDay int, score float64, recordedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO engagement_events (destination, hour_of_day, score, recorded_at)
		VALUES ($1, $2, $3, $4)`,
		destination, hourOfDay, score, recordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert engagement event: %w", err)
	}
	return nil
}

// HourlyTotals sums scores per hour of day since the given time.
func (s *PostgresEngagementStore) HourlyTotals(ctx context.Context, destination string, since time.Time) ([24]float64, int64, error) {
	var totals [24]float64
	var samples int64

	rows, err := s.pool.Query(ctx, `
		SELECT hour_of_day, sum(score), count(*)
		FROM engagement_events
		WHERE destination = $1 AND recorded_at >= $2
		GROUP BY hour_of_day`,
		destination, since,
	)
	if err != nil {
		return totals, 0, fmt.Errorf("aggregate engagement events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hour int16
		var sum float64
		var count int64
		if err := rows.Scan(&hour, &sum, &count); err != nil {
			return totals, 0, fmt.Errorf("scan engagement totals: %w", err)
		}
		if hour >= 0 && int(hour) < len(totals) {
			totals[hour] = sum
			samples += count
		}
	}
	if err := rows.Err(); err != nil {
		return totals, 0, fmt.Errorf("aggregate engagement events: %w", err)
	}

	return totals, samples, nil
}
