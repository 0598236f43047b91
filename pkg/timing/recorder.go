package timing

import (
	"context"
	"log/slog"
	"time"
)

// Recorder appends engagement events for later window derivation. Recording
// is fire-and-forget: a lost event only costs a little analysis accuracy, so
// failures are logged and never returned to the caller.
type Recorder struct {
	store  EngagementStore
	logger *slog.Logger
}

// RecorderOption configures the recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets the logger for dropped-event warnings.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRecorder creates a recorder over the given engagement store.
func NewRecorder(store EngagementStore, opts ...RecorderOption) (*Recorder, error) {
	if store == nil {
		return nil, ErrStoreNil
	}

	r := &Recorder{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Record appends one engagement event for the destination, bucketing the
// post's hour of day in the engagement's timezone.
func (r *Recorder) Record(ctx context.Context, destination string, e Engagement) {
	if destination == "" {
		r.logger.Warn("engagement event dropped, empty destination")
		return
	}

	postedAt := e.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}
	if e.Timezone != "" {
		if loc, err := time.LoadLocation(e.Timezone); err == nil {
			postedAt = postedAt.In(loc)
		} else {
			r.logger.Warn("unknown engagement timezone, bucketing in post's own zone",
				slog.String("destination", destination),
				slog.String("timezone", e.Timezone))
		}
	}

	if err := r.store.Insert(ctx, destination, postedAt.Hour(), e.Score(), time.Now()); err != nil {
		r.logger.Error("failed to record engagement event",
			slog.String("destination", destination),
			slog.Int("hour_of_day", postedAt.Hour()),
			slog.Float64("score", e.Score()),
			slog.String("error", err.Error()))
	}
}
