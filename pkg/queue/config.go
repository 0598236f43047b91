package queue

import "time"

// Config holds the configuration for the queue worker
type Config struct {
	PollInterval    time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"2s"`
	ReapAfter       time.Duration `env:"QUEUE_REAP_AFTER" envDefault:"15m"`
	ReapInterval    time.Duration `env:"QUEUE_REAP_INTERVAL" envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"QUEUE_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}
