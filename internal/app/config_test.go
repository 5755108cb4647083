package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, SinkLog, cfg.NotifySink)
	require.Equal(t, "product-images", cfg.BlobBucket)
	require.Equal(t, "products/", cfg.BlobPrefix)
	require.Equal(t, 30*time.Minute, cfg.CatalogSessionTTL)
	require.Equal(t, 1000, cfg.CatalogMaxSessions)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("NOTIFY_SINK", "redis")
	t.Setenv("CATALOG_SESSION_TTL", "5m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("CATALOG_MAX_SESSIONS", "50")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, SinkRedis, cfg.NotifySink)
	require.Equal(t, 5*time.Minute, cfg.CatalogSessionTTL)
	require.Equal(t, 30, cfg.RateLimitPerMinute)
	require.Equal(t, 50, cfg.CatalogMaxSessions)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("NOTIFY_SINK", "email")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "notify sink")

	t.Setenv("NOTIFY_SINK", "log")
	t.Setenv("CATALOG_SESSION_TTL", "0s")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "ttl")

	t.Setenv("CATALOG_SESSION_TTL", "1m")
	t.Setenv("CATALOG_MAX_SESSIONS", "0")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "max sessions")

	t.Setenv("CATALOG_SESSION_TTL", "soon")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLevel(&Config{LogLevel: "debug"}).String())
	require.Equal(t, "WARN", parseLevel(&Config{LogLevel: "WARNING"}).String())
	require.Equal(t, "INFO", parseLevel(&Config{LogLevel: "loud"}).String())
	require.Equal(t, "INFO", parseLevel(nil).String())
}

func TestInTestMode(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	require.True(t, InTestMode())

	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	require.False(t, InTestMode())
}
