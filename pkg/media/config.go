package media

import "time"

// Config contains media resolver settings loaded from environment variables.
// An empty Bucket disables the S3 resolver; posts then go out text-only
// unless a BaseURL is set.
type Config struct {
	Bucket         string        `env:"MEDIA_S3_BUCKET"`
	Region         string        `env:"MEDIA_S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string        `env:"MEDIA_S3_ACCESS_KEY_ID"`
	SecretKey      string        `env:"MEDIA_S3_SECRET_KEY"`
	Endpoint       string        `env:"MEDIA_S3_ENDPOINT"`
	ForcePathStyle bool          `env:"MEDIA_S3_FORCE_PATH_STYLE" envDefault:"false"`
	URLTTL         time.Duration `env:"MEDIA_URL_TTL" envDefault:"15m"`
	BaseURL        string        `env:"MEDIA_BASE_URL"`
	ResolveTimeout time.Duration `env:"MEDIA_RESOLVE_TIMEOUT" envDefault:"10s"`
}

// S3 converts the environment config into the S3 resolver config.
func (c Config) S3() S3Config {
	return S3Config{
		Bucket:         c.Bucket,
		Region:         c.Region,
		AccessKeyID:    c.AccessKeyID,
		SecretKey:      c.SecretKey,
		Endpoint:       c.Endpoint,
		ForcePathStyle: c.ForcePathStyle,
		URLTTL:         c.URLTTL,
	}
}
