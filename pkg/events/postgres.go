package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage persists account events in the account_events table.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

var _ Storage = (*PostgresStorage)(nil)

// NewPostgresStorage creates a storage over the given pool.
func NewPostgresStorage(pool *pgxpool.Pool) (*PostgresStorage, error) {
	if pool == nil {
		return nil, ErrStorageNil
	}
	return &PostgresStorage{pool: pool}, nil
}

// Store appends one event.
func (s *PostgresStorage) Store(ctx context.Context, event Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO account_events (id, owner_id, event_type, meta, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.OwnerID, event.EventType, event.Meta, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account event: %w", err)
	}
	return nil
}

// StoreBatch appends a batch of events in one round trip.
func (s *PostgresStorage) StoreBatch(ctx context.Context, batch []Event) error {
	if len(batch) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, event := range batch {
		b.Queue(`
			INSERT INTO account_events (id, owner_id, event_type, meta, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			event.ID, event.OwnerID, event.EventType, event.Meta, event.CreatedAt,
		)
	}

	results := s.pool.SendBatch(ctx, b)
	defer results.Close()

	for range batch {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert account event batch: %w", err)
		}
	}
	return nil
}

// ListByOwner returns the owner's most recent events, newest first.
func (s *PostgresStorage) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]Event, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, event_type, meta, created_at
		FROM account_events
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list account events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.OwnerID, &event.EventType, &event.Meta, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account event: %w", err)
		}
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list account events: %w", err)
	}
	return out, nil
}
