package posting

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postflow/pkg/events"
	"github.com/dmitrymomot/postflow/pkg/logger"
	"github.com/dmitrymomot/postflow/pkg/queue"
)

// Submitter publishes content to the destination platform on behalf of one
// authorized account.
type Submitter interface {
	CheckEligibility(ctx context.Context, subreddit string) (Eligibility, error)
	Submit(ctx context.Context, sub Submission) (SubmitResult, error)
}

// AccountResolver finds the submission client for an owner's currently
// authorized account. It returns ErrNoActiveAccount when the owner has no
// usable account connected.
type AccountResolver interface {
	Resolve(ctx context.Context, ownerID uuid.UUID) (Submitter, error)
}

// MediaResolver turns a stored media key into a URL the platform can fetch.
type MediaResolver interface {
	Resolve(ctx context.Context, mediaKey string, ownerID uuid.UUID) (string, error)
}

// EventLog records per-attempt outcomes. Satisfied by *events.Log.
type EventLog interface {
	Append(ctx context.Context, ownerID uuid.UUID, eventType string, meta map[string]any) error
}

// Processor executes submission jobs from the post-submission queue.
//
// Every attempt updates the originating post record and appends an account
// event, success or failure, so the record always reflects the latest attempt
// and the audit trail covers each try.
type Processor struct {
	accounts AccountResolver
	posts    PostStore
	events   EventLog
	media    MediaResolver
	logger   *slog.Logger
}

// ProcessorOption configures the Processor.
type ProcessorOption func(*Processor)

// WithMediaResolver enables media attachment resolution. Without it, posts
// with a media key are submitted text-only.
func WithMediaResolver(m MediaResolver) ProcessorOption {
	return func(p *Processor) {
		if m != nil {
			p.media = m
		}
	}
}

// WithProcessorLogger sets the logger. Defaults to slog.Default().
func WithProcessorLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProcessor creates the submission processor.
func NewProcessor(accounts AccountResolver, posts PostStore, eventLog EventLog, opts ...ProcessorOption) (*Processor, error) {
	if accounts == nil {
		return nil, ErrAccountsNil
	}
	if posts == nil {
		return nil, ErrPostsNil
	}
	if eventLog == nil {
		return nil, ErrEventLogNil
	}

	p := &Processor{
		accounts: accounts,
		posts:    posts,
		events:   eventLog,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// QueueProcessor adapts the Processor for registry registration.
func (p *Processor) QueueProcessor() queue.Processor {
	return queue.NewProcessor(p.handle)
}

func (p *Processor) handle(ctx context.Context, payload SubmitPostPayload, job *queue.Job) error {
	attempt := int(job.Attempts) + 1
	log := p.logger.With(
		logger.JobID(job.ID),
		logger.PostID(payload.PostID),
		logger.OwnerID(payload.OwnerID),
		logger.Destination(payload.Subreddit),
		logger.Attempt(attempt),
	)

	if err := payload.Validate(); err != nil {
		log.ErrorContext(ctx, "unsubmittable payload", logger.Error(err))
		p.recordFailure(ctx, log, payload, job, err.Error())
		return queue.NonRetryable(err)
	}

	submitter, err := p.accounts.Resolve(ctx, payload.OwnerID)
	if err != nil || submitter == nil {
		if err == nil {
			err = ErrNoActiveAccount
		}
		log.WarnContext(ctx, "no submission client for owner", logger.Error(err))
		p.recordFailure(ctx, log, payload, job, err.Error())
		// Retryable: the owner may reconnect an account before the next attempt.
		return err
	}

	eligibility, err := submitter.CheckEligibility(ctx, payload.Subreddit)
	if err != nil {
		log.WarnContext(ctx, "eligibility check failed", logger.Error(err))
		p.recordFailure(ctx, log, payload, job, err.Error())
		return err
	}
	if !eligibility.OK {
		reason := eligibility.Reason
		if reason == "" {
			reason = ErrPolicyRejected.Error()
		}
		log.WarnContext(ctx, "submission rejected by policy", slog.String("reason", reason))
		p.recordFailure(ctx, log, payload, job, reason)
		// A policy rejection will not pass on retry.
		return queue.NonRetryable(fmt.Errorf("%w: %s", ErrPolicyRejected, reason))
	}

	sub := Submission{
		Subreddit: payload.Subreddit,
		Title:     payload.Title,
		Body:      payload.Body,
	}
	if payload.MediaKey != "" {
		sub.MediaURL = p.resolveMedia(ctx, log, payload)
	}

	result, err := submitter.Submit(ctx, sub)
	if err != nil {
		log.ErrorContext(ctx, "submission failed", logger.Error(err))
		p.recordFailure(ctx, log, payload, job, err.Error())
		return err
	}

	if err := p.posts.MarkPosted(ctx, payload.PostID, result.ExternalID, result.URL); err != nil {
		// The post is live; retrying the job would publish a duplicate.
		log.ErrorContext(ctx, "post record update failed after successful submission", logger.Error(err))
	}
	p.appendEvent(ctx, log, payload.OwnerID, events.TypeJobCompleted, map[string]any{
		"job_id":      job.ID,
		"post_id":     payload.PostID.String(),
		"subreddit":   payload.Subreddit,
		"attempt":     attempt,
		"external_id": result.ExternalID,
		"url":         result.URL,
	})
	log.InfoContext(ctx, "post submitted", slog.String("external_id", result.ExternalID))
	return nil
}

// resolveMedia degrades to text-only on any resolution failure.
func (p *Processor) resolveMedia(ctx context.Context, log *slog.Logger, payload SubmitPostPayload) string {
	if p.media == nil {
		log.WarnContext(ctx, "no media resolver configured, submitting text-only",
			slog.String("media_key", payload.MediaKey))
		return ""
	}
	url, err := p.media.Resolve(ctx, payload.MediaKey, payload.OwnerID)
	if err != nil {
		log.WarnContext(ctx, "media resolution failed, submitting text-only",
			slog.String("media_key", payload.MediaKey), logger.Error(err))
		return ""
	}
	return url
}

func (p *Processor) recordFailure(ctx context.Context, log *slog.Logger, payload SubmitPostPayload, job *queue.Job, reason string) {
	if payload.PostID != uuid.Nil {
		if err := p.posts.MarkFailed(ctx, payload.PostID, reason); err != nil {
			log.ErrorContext(ctx, "post record update failed", logger.Error(err))
		}
	}
	if payload.OwnerID == uuid.Nil {
		return
	}
	p.appendEvent(ctx, log, payload.OwnerID, events.TypeJobFailed, map[string]any{
		"job_id":    job.ID,
		"post_id":   payload.PostID.String(),
		"subreddit": payload.Subreddit,
		"attempt":   int(job.Attempts) + 1,
		"reason":    reason,
	})
}

// appendEvent records an audit event; append failures are logged, never fatal.
func (p *Processor) appendEvent(ctx context.Context, log *slog.Logger, ownerID uuid.UUID, eventType string, meta map[string]any) {
	if err := p.events.Append(ctx, ownerID, eventType, meta); err != nil {
		log.ErrorContext(ctx, "event append failed",
			logger.EventType(eventType), logger.Error(err))
	}
}
