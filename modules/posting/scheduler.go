package posting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postflow/pkg/logger"
	"github.com/dmitrymomot/postflow/pkg/queue"
	"github.com/dmitrymomot/postflow/pkg/timing"
)

// SendTimePlanner picks a send time for a destination. Satisfied by
// *timing.Optimizer.
type SendTimePlanner interface {
	ChooseSendTime(ctx context.Context, destination, timezone string, pref timing.DayPreference) (time.Time, error)
}

// Enqueuer is the producer side of the job queue. Satisfied by *queue.Enqueuer.
type Enqueuer interface {
	Enqueue(ctx context.Context, queue string, payload any, opts ...queue.EnqueueOption) (int64, error)
}

// Draft is a post to be scheduled. SendAt overrides the planner when set;
// otherwise the planner chooses a slot in the destination's best window.
type Draft struct {
	OwnerID   uuid.UUID
	Subreddit string
	Title     string
	Body      string
	MediaKey  string
	Timezone  string
	Day       timing.DayPreference
	SendAt    *time.Time
}

// Validate reports whether the draft can be scheduled.
func (d Draft) Validate() error {
	var errs []error
	if d.OwnerID == uuid.Nil {
		errs = append(errs, errors.New("owner id is required"))
	}
	if d.Subreddit == "" {
		errs = append(errs, errors.New("subreddit is required"))
	}
	if d.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrDraftInvalid, errors.Join(errs...))
	}
	return nil
}

// Scheduled reports where a draft landed: its post record, its submission
// job, and when it goes out.
type Scheduled struct {
	PostID uuid.UUID
	JobID  int64
	SendAt time.Time
}

// Scheduler creates the post record and the submission job for a draft.
type Scheduler struct {
	posts     PostStore
	enqueuer  Enqueuer
	planner   SendTimePlanner
	logger    *slog.Logger
	defaultTZ string
}

// SchedulerOption configures the Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger sets the logger. Defaults to slog.Default().
func WithSchedulerLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultTimezone sets the timezone used for drafts that do not carry
// one. Defaults to UTC.
func WithDefaultTimezone(tz string) SchedulerOption {
	return func(s *Scheduler) {
		if tz != "" {
			s.defaultTZ = tz
		}
	}
}

// NewScheduler creates a Scheduler.
func NewScheduler(posts PostStore, enqueuer Enqueuer, planner SendTimePlanner, opts ...SchedulerOption) (*Scheduler, error) {
	if posts == nil {
		return nil, ErrPostsNil
	}
	if enqueuer == nil {
		return nil, ErrEnqueuerNil
	}
	if planner == nil {
		return nil, ErrOptimizerNil
	}

	s := &Scheduler{
		posts:     posts,
		enqueuer:  enqueuer,
		planner:   planner,
		logger:    slog.Default(),
		defaultTZ: "UTC",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Schedule persists the draft as a scheduled post and enqueues its
// submission job to run at the chosen send time.
func (s *Scheduler) Schedule(ctx context.Context, draft Draft) (Scheduled, error) {
	if err := draft.Validate(); err != nil {
		return Scheduled{}, err
	}

	tz := draft.Timezone
	if tz == "" {
		tz = s.defaultTZ
	}

	var sendAt time.Time
	if draft.SendAt != nil {
		sendAt = *draft.SendAt
	} else {
		chosen, err := s.planner.ChooseSendTime(ctx, draft.Subreddit, tz, draft.Day)
		if err != nil {
			return Scheduled{}, fmt.Errorf("choose send time: %w", err)
		}
		sendAt = chosen
	}

	now := time.Now()
	post := &ScheduledPost{
		ID:        uuid.New(),
		OwnerID:   draft.OwnerID,
		Subreddit: draft.Subreddit,
		Title:     draft.Title,
		Body:      draft.Body,
		MediaKey:  draft.MediaKey,
		Status:    PostStatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return Scheduled{}, fmt.Errorf("create post record: %w", err)
	}

	payload := SubmitPostPayload{
		PostID:    post.ID,
		OwnerID:   draft.OwnerID,
		Subreddit: draft.Subreddit,
		Title:     draft.Title,
		Body:      draft.Body,
		MediaKey:  draft.MediaKey,
	}
	jobID, err := s.enqueuer.Enqueue(ctx, QueueName, payload, queue.WithRunAt(sendAt))
	if err != nil {
		if markErr := s.posts.MarkFailed(ctx, post.ID, "enqueue failed: "+err.Error()); markErr != nil {
			s.logger.ErrorContext(ctx, "post record update failed", logger.PostID(post.ID), logger.Error(markErr))
		}
		return Scheduled{}, fmt.Errorf("enqueue submission job: %w", err)
	}

	s.logger.InfoContext(ctx, "post scheduled",
		logger.PostID(post.ID),
		logger.OwnerID(draft.OwnerID),
		logger.Destination(draft.Subreddit),
		logger.JobID(jobID),
		slog.Time("send_at", sendAt),
	)
	return Scheduled{PostID: post.ID, JobID: jobID, SendAt: sendAt}, nil
}
