package queue

import "time"

// EnqueueOption is a functional option for the Enqueue method
type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	maxAttempts int16
	delay       time.Duration
	scheduledAt *time.Time
}

// runAt resolves the effective first-eligible time; an explicit schedule
// wins over a relative delay.
func (o *enqueueOptions) runAt(now time.Time) time.Time {
	if o.scheduledAt != nil {
		return *o.scheduledAt
	}
	if o.delay > 0 {
		return now.Add(o.delay)
	}
	return now
}

// WithDelay keeps the job out of claim eligibility for the given duration.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(o *enqueueOptions) {
		if delay > 0 {
			o.delay = delay
		}
	}
}

// WithRunAt schedules the job to become claimable at a specific time,
// typically one produced by the timing optimizer. Times in the past enqueue
// the job as immediately pending.
func WithRunAt(runAt time.Time) EnqueueOption {
	return func(o *enqueueOptions) {
		o.scheduledAt = &runAt
	}
}

// WithMaxAttempts overrides the retry budget (1-10).
// Values outside the range are ignored, keeping the default.
func WithMaxAttempts(maxAttempts int16) EnqueueOption {
	return func(o *enqueueOptions) {
		if maxAttempts >= 1 && maxAttempts <= MaxAttemptsCeiling {
			o.maxAttempts = maxAttempts
		}
	}
}
