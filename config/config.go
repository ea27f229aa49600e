package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string `env:"PORT" envDefault:"5250"`

		// Allowed browser origins for CORS
		CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

		// Time allowed for in-flight requests to finish on shutdown
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}

	Database struct {
		// "sqlite" or "postgres"
		Driver   string `env:"DB_DRIVER" envDefault:"sqlite"`
		DSN      string `env:"DB_DSN" envDefault:"database/fasohabita.db"`
		LogLevel string `env:"DB_LOG_LEVEL" envDefault:"warn"`
	}

	Auth struct {
		SessionSecret string        `env:"SESSION_SECRET"`
		CookieName    string        `env:"SESSION_COOKIE" envDefault:"session"`
		SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`

		// External identity provider login page
		LoginURL    string `env:"AUTH_LOGIN_URL"`
		CallbackURL string `env:"AUTH_CALLBACK_URL" envDefault:"http://localhost:5250/api/callback"`
	}

	Storage struct {
		// Empty endpoint disables the upload routes
		Endpoint      string        `env:"STORAGE_ENDPOINT"`
		AccessKey     string        `env:"STORAGE_ACCESS_KEY"`
		SecretKey     string        `env:"STORAGE_SECRET_KEY"`
		Bucket        string        `env:"STORAGE_BUCKET" envDefault:"listings-photos"`
		UseSSL        bool          `env:"STORAGE_USE_SSL" envDefault:"false"`
		UploadTTL     time.Duration `env:"STORAGE_UPLOAD_TTL" envDefault:"15m"`
		MaxUploadSize int64         `env:"STORAGE_MAX_UPLOAD_SIZE" envDefault:"10485760"`
	}

	Events struct {
		// Empty URL logs events instead of publishing them
		NATSURL       string `env:"NATS_URL"`
		SubjectPrefix string `env:"EVENTS_SUBJECT_PREFIX" envDefault:"listings"`

		// Buffered events before new ones are dropped
		QueueSize int `env:"EVENTS_QUEUE_SIZE" envDefault:"100"`

		MaxRetries int           `env:"EVENTS_MAX_RETRIES" envDefault:"3"`
		RetryDelay time.Duration `env:"EVENTS_RETRY_DELAY" envDefault:"2s"`
	}

	Logging struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
		File  string `env:"LOG_FILE"`
	}
}

var ErrMissingSessionSecret = errors.New("SESSION_SECRET is required")

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireSessionSecret fails when no signing secret is configured. Only
// commands that issue or verify sessions call it.
func (c *Config) RequireSessionSecret() error {
	if c.Auth.SessionSecret == "" {
		return ErrMissingSessionSecret
	}
	return nil
}
