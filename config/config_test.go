package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "database/fasohabita.db", cfg.Database.DSN)
	assert.Equal(t, "session", cfg.Auth.CookieName)
	assert.Equal(t, 168*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "listings-photos", cfg.Storage.Bucket)
	assert.Equal(t, 15*time.Minute, cfg.Storage.UploadTTL)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxUploadSize)
	assert.Equal(t, "listings", cfg.Events.SubjectPrefix)
	assert.Equal(t, 100, cfg.Events.QueueSize)
	assert.Equal(t, 3, cfg.Events.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Events.RetryDelay)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Events.NATSURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://fasohabita.bf,http://localhost:5173")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "host=db user=app dbname=fasohabita")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("EVENTS_RETRY_DELAY", "500ms")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"https://fasohabita.bf", "http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db user=app dbname=fasohabita", cfg.Database.DSN)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, 500*time.Millisecond, cfg.Events.RetryDelay)
	assert.Equal(t, "nats://localhost:4222", cfg.Events.NATSURL)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "s3cret")
		t.Setenv("SESSION_TTL", "a week")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestLoadConfig_WithoutSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.SessionSecret)
	assert.ErrorIs(t, cfg.RequireSessionSecret(), ErrMissingSessionSecret)

	cfg.Auth.SessionSecret = "s3cret"
	assert.NoError(t, cfg.RequireSessionSecret())
}
