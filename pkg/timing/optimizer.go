package timing

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"
)

const (
	// windowThreshold is the fraction of the peak hourly engagement an hour
	// must exceed to join a derived window.
	windowThreshold = 0.6

	// maxWindows caps how many derived windows a destination keeps.
	maxWindows = 3
)

// Optimizer recommends send times per destination. With enough recorded
// engagement it derives windows from hourly totals; otherwise it falls back
// to static heuristics keyed by the destination name. It never touches jobs:
// the returned timestamp is handed to the queue at enqueue time.
type Optimizer struct {
	store      EngagementStore
	heuristics Heuristics
	minSamples int64
	lookback   time.Duration
	logger     *slog.Logger
}

// NewOptimizer creates an optimizer over the given engagement store.
func NewOptimizer(store EngagementStore, opts ...OptimizerOption) (*Optimizer, error) {
	if store == nil {
		return nil, ErrStoreNil
	}

	options := &optimizerOptions{
		heuristics: DefaultHeuristics(),
		minSamples: 10,
		lookback:   30 * 24 * time.Hour,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Optimizer{
		store:      store,
		heuristics: options.heuristics,
		minSamples: options.minSamples,
		lookback:   options.lookback,
		logger:     options.logger,
	}, nil
}

// ChooseSendTime returns a recommended future timestamp for posting to the
// destination, expressed in the given timezone. The day preference, when set,
// is honored even after the roll-forward for times already in the past.
func (o *Optimizer) ChooseSendTime(ctx context.Context, destination, timezone string, pref DayPreference) (time.Time, error) {
	if destination == "" {
		return time.Time{}, ErrDestinationEmpty
	}
	if pref != DayAny && pref != DayWeekend && pref != DayWeekday {
		return time.Time{}, ErrInvalidDayPreference
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, errors.Join(ErrInvalidTimezone, err)
	}

	analysis := o.Analyze(ctx, destination)
	best := bestWindow(analysis.Windows)

	now := time.Now()
	target := preferredDay(now.In(loc), pref)
	sendAt := randomTimeInWindow(target, best, loc)

	if !sendAt.After(now) {
		sendAt = preferredDay(sendAt.AddDate(0, 0, 1), pref)
	}

	return sendAt, nil
}

// Analyze recomputes the destination's windows on demand. Destinations with
// fewer than the minimum samples in the lookback period, and any store
// failure, fall back to the static heuristics; the caller always gets at
// least one window.
func (o *Optimizer) Analyze(ctx context.Context, destination string) DestinationTiming {
	result := DestinationTiming{
		Destination:  destination,
		LastAnalyzed: time.Now(),
	}

	totals, samples, err := o.store.HourlyTotals(ctx, destination, time.Now().Add(-o.lookback))
	if err != nil {
		o.logger.Warn("engagement lookup failed, using heuristic windows",
			slog.String("destination", destination),
			slog.String("error", err.Error()))
		result.Windows = o.heuristics.WindowsFor(destination)
		return result
	}

	if samples < o.minSamples {
		result.Windows = o.heuristics.WindowsFor(destination)
		return result
	}

	windows := deriveWindows(totals)
	if len(windows) == 0 {
		result.Windows = o.heuristics.Default
		return result
	}

	result.Windows = windows
	result.Derived = true
	return result
}

// deriveWindows groups consecutive hours whose engagement total exceeds 60%
// of the peak hour into windows, scores each window by its share of the best
// window's total, and keeps the top windows by confidence.
func deriveWindows(totals [24]float64) []Window {
	peak := slices.Max(totals[:])
	if peak <= 0 {
		return nil
	}
	threshold := windowThreshold * peak

	var windows []Window
	var sums []float64
	start := -1
	var sum float64
	for h := 0; h <= len(totals); h++ {
		if h < len(totals) && totals[h] > threshold {
			if start == -1 {
				start = h
				sum = 0
			}
			sum += totals[h]
			continue
		}
		if start != -1 {
			windows = append(windows, Window{StartHour: start, EndHour: h})
			sums = append(sums, sum)
			start = -1
		}
	}

	best := slices.Max(sums)
	for i := range windows {
		windows[i].Confidence = sums[i] / best
	}

	slices.SortStableFunc(windows, func(a, b Window) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	if len(windows) > maxWindows {
		windows = windows[:maxWindows]
	}
	return windows
}

// bestWindow returns the highest-confidence window, independent of the slice
// order so operator-supplied heuristic sets need not be pre-sorted.
func bestWindow(windows []Window) Window {
	return slices.MaxFunc(windows, func(a, b Window) int {
		return cmp.Compare(a.Confidence, b.Confidence)
	})
}

// preferredDay advances t to the next day matching the preference: Saturday
// for weekend, Monday for weekday. Days already matching are kept.
func preferredDay(t time.Time, pref DayPreference) time.Time {
	switch pref {
	case DayWeekend:
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			t = t.AddDate(0, 0, (int(time.Saturday)-int(wd)+7)%7)
		}
	case DayWeekday:
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t = t.AddDate(0, 0, (int(time.Monday)-int(wd)+7)%7)
		}
	}
	return t
}

// randomTimeInWindow picks a uniform hour within [StartHour, EndHour) and a
// uniform minute on target's date in the given location.
func randomTimeInWindow(target time.Time, w Window, loc *time.Location) time.Time {
	hour := w.StartHour + rand.IntN(w.EndHour-w.StartHour)
	minute := rand.IntN(60)
	return time.Date(target.Year(), target.Month(), target.Day(), hour, minute, 0, 0, loc)
}
