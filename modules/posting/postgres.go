package posting

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPostStore persists scheduled posts in the scheduled_posts table.
type PostgresPostStore struct {
	pool *pgxpool.Pool
}

var _ PostStore = (*PostgresPostStore)(nil)

// NewPostgresPostStore creates a store over the given pool.
func NewPostgresPostStore(pool *pgxpool.Pool) (*PostgresPostStore, error) {
	if pool == nil {
		return nil, ErrPostsNil
	}
	return &PostgresPostStore{pool: pool}, nil
}

// Create inserts a new scheduled post record.
func (s *PostgresPostStore) Create(ctx context.Context, post *ScheduledPost) error {
	mediaKey := nullableString(post.MediaKey)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scheduled_posts (id, owner_id, subreddit, title, body, media_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		post.ID, post.OwnerID, post.Subreddit, post.Title, post.Body, mediaKey,
		post.Status, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scheduled post: %w", err)
	}
	return nil
}

// GetPost fetches one scheduled post by id.
func (s *PostgresPostStore) GetPost(ctx context.Context, postID uuid.UUID) (*ScheduledPost, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, owner_id, subreddit, title, body, media_key, status,
		       external_id, external_url, failure_reason, posted_at, created_at, updated_at
		FROM scheduled_posts
		WHERE id = $1`,
		postID,
	)

	var post ScheduledPost
	var mediaKey *string
	err := row.Scan(
		&post.ID, &post.OwnerID, &post.Subreddit, &post.Title, &post.Body, &mediaKey,
		&post.Status, &post.ExternalID, &post.ExternalURL, &post.FailureReason,
		&post.PostedAt, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("select scheduled post: %w", err)
	}
	if mediaKey != nil {
		post.MediaKey = *mediaKey
	}
	return &post, nil
}

// MarkPosted records a successful submission on the post record.
func (s *PostgresPostStore) MarkPosted(ctx context.Context, postID uuid.UUID, externalID, url string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE scheduled_posts
		SET status = $2, external_id = $3, external_url = $4,
		    failure_reason = NULL, posted_at = now(), updated_at = now()
		WHERE id = $1`,
		postID, PostStatusPosted, externalID, url,
	)
	if err != nil {
		return fmt.Errorf("mark post posted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// MarkFailed records the latest attempt's failure reason on the post record.
func (s *PostgresPostStore) MarkFailed(ctx context.Context, postID uuid.UUID, reason string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE scheduled_posts
		SET status = $2, failure_reason = $3, updated_at = now()
		WHERE id = $1`,
		postID, PostStatusFailed, reason,
	)
	if err != nil {
		return fmt.Errorf("mark post failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
