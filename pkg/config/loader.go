package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// LoadEnv loads the given .env files into the process environment before any
// config structs are parsed. Missing files are reported as ErrEnvFileNotFound
// so callers can distinguish a bad path from a parse failure.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrEnvFileNotFound, err)
	}
	return nil
}

// Load populates the configuration struct from environment variables.
//
// On first use it attempts to load the default .env file from the working
// directory; a missing file is not an error. Parsing is delegated to
// env.Parse, so the struct drives everything through `env` and `envDefault`
// field tags.
//
// Example:
//
//	type WorkerConfig struct {
//		PollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"2s"`
//		Queues       []string      `env:"WORKER_QUEUES" envSeparator:","`
//	}
//
//	var cfg WorkerConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvLoaded.Do(func() {
		// The .env file is optional; real environments set vars directly.
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Intended for configuration
// the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}
