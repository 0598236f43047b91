package posting

import (
	"context"

	"github.com/google/uuid"
)

// PostStore persists scheduled post records. MarkPosted and MarkFailed
// overwrite each other: the record reflects the latest attempt's outcome.
type PostStore interface {
	Create(ctx context.Context, post *ScheduledPost) error
	GetPost(ctx context.Context, postID uuid.UUID) (*ScheduledPost, error)
	MarkPosted(ctx context.Context, postID uuid.UUID, externalID, url string) error
	MarkFailed(ctx context.Context, postID uuid.UUID, reason string) error
}
