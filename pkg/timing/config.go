package timing

import "time"

// Config contains optimizer settings loaded from environment variables.
type Config struct {
	MinSamples     int64         `env:"TIMING_MIN_SAMPLES" envDefault:"10"`
	Lookback       time.Duration `env:"TIMING_LOOKBACK" envDefault:"720h"`
	HeuristicsPath string        `env:"TIMING_HEURISTICS_PATH"`
}
