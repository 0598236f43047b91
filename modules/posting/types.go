package posting

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QueueName is the queue the submission processor is registered on.
const QueueName = "post-submission"

// SubmitPostPayload is the job payload for one submission attempt. It carries
// identifiers and content only; account credentials and media bytes are
// resolved at processing time so retries always use current state.
type SubmitPostPayload struct {
	PostID    uuid.UUID `json:"post_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Subreddit string    `json:"subreddit"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	MediaKey  string    `json:"media_key,omitempty"`
}

// Validate reports whether the payload identifies a submittable post.
// Body is allowed to be empty for title-plus-media posts.
func (p SubmitPostPayload) Validate() error {
	var errs []error
	if p.PostID == uuid.Nil {
		errs = append(errs, errors.New("post_id is required"))
	}
	if p.OwnerID == uuid.Nil {
		errs = append(errs, errors.New("owner_id is required"))
	}
	if p.Subreddit == "" {
		errs = append(errs, errors.New("subreddit is required"))
	}
	if p.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPayloadInvalid, errors.Join(errs...))
	}
	return nil
}

// Submission is the content handed to the platform client.
type Submission struct {
	Subreddit string
	Title     string
	Body      string
	MediaURL  string
}

// SubmitResult identifies the published post on the platform.
type SubmitResult struct {
	ExternalID string
	URL        string
}

// Eligibility is the outcome of a pre-submission policy check.
type Eligibility struct {
	OK     bool
	Reason string
}

// PostStatus tracks the scheduled post record, reflecting the latest attempt.
type PostStatus string

const (
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPosted    PostStatus = "posted"
	PostStatusFailed    PostStatus = "failed"
)

// ScheduledPost is the originating record a submission job points back to.
type ScheduledPost struct {
	ID            uuid.UUID  `json:"id"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	Subreddit     string     `json:"subreddit"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	MediaKey      string     `json:"media_key,omitempty"`
	Status        PostStatus `json:"status"`
	ExternalID    *string    `json:"external_id,omitempty"`
	ExternalURL   *string    `json:"external_url,omitempty"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	PostedAt      *time.Time `json:"posted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
