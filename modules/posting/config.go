package posting

// Config contains posting settings loaded from environment variables.
type Config struct {
	Concurrency     int    `env:"POSTING_CONCURRENCY" envDefault:"4"`
	DefaultTimezone string `env:"POSTING_DEFAULT_TIMEZONE" envDefault:"UTC"`
}
