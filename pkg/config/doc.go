// Package config loads application configuration from environment variables
// into plain Go structs.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11` behind
// a small generic API:
//
//   - Load parses the environment into any struct annotated with `env` tags,
//     loading the default `.env` file once per process as a convenience for
//     local development.
//   - LoadEnv loads one or more explicit `.env` files before parsing.
//   - MustLoad panics on failure, for configuration the process cannot start
//     without.
//
// # Usage
//
// Declare a struct per component and annotate its fields:
//
//	type PostgresConfig struct {
//	    ConnURL       string        `env:"PG_CONN_URL,required"`
//	    RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//	    RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//	}
//
//	var cfg PostgresConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Sentinel errors can be inspected with errors.Is:
//
//   - ErrParsingConfig – env vars could not be parsed into the struct.
//   - ErrEnvFileNotFound – an explicitly requested .env file is missing.
//   - ErrNilPointer – nil pointer passed to Load.
package config
