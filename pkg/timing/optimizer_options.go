package timing

import (
	"log/slog"
	"time"
)

// OptimizerOption configures the optimizer.
type OptimizerOption func(*optimizerOptions)

type optimizerOptions struct {
	heuristics Heuristics
	minSamples int64
	lookback   time.Duration
	logger     *slog.Logger
}

// WithHeuristics replaces the built-in fallback window sets, typically with
// sets loaded from a YAML file via LoadHeuristics.
func WithHeuristics(h Heuristics) OptimizerOption {
	return func(o *optimizerOptions) {
		if h.Validate() == nil {
			o.heuristics = h
		}
	}
}

// WithMinSamples sets how many recent engagement events a destination needs
// before windows are derived from data instead of heuristics.
func WithMinSamples(n int64) OptimizerOption {
	return func(o *optimizerOptions) {
		if n > 0 {
			o.minSamples = n
		}
	}
}

// WithLookback sets how far back engagement events are aggregated.
func WithLookback(d time.Duration) OptimizerOption {
	return func(o *optimizerOptions) {
		if d > 0 {
			o.lookback = d
		}
	}
}

// WithOptimizerLogger sets the logger used for fallback warnings.
func WithOptimizerLogger(logger *slog.Logger) OptimizerOption {
	return func(o *optimizerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
