package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "APP_PORT", "EPIROOMS_URL", "UPDATE_INTERVAL", "REFRESH_ON_START",
		"USER_AGENT", "FETCH_TIMEOUT", "JWT_SECRET", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
	assert.Equal(t, DefaultUpdateInterval, cfg.UpdateInterval)
	assert.True(t, cfg.RefreshOnStart)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("EPIROOMS_URL", "https://example.test/rooms")
	t.Setenv("UPDATE_INTERVAL", "*/15 * * * *")
	t.Setenv("REFRESH_ON_START", "no")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()
	assert.Equal(t, "https://example.test/rooms", cfg.SourceURL)
	assert.Equal(t, "*/15 * * * *", cfg.UpdateInterval)
	assert.False(t, cfg.RefreshOnStart)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "soon")
	t.Setenv("REFRESH_ON_START", "maybe")
	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.RefreshOnStart)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ROOMS_DOTENV_PROBE=from-file\nAPP_PORT=9999\n"), 0o600))
	t.Setenv("APP_PORT", "7000")
	t.Cleanup(func() { _ = os.Unsetenv("ROOMS_DOTENV_PROBE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("ROOMS_DOTENV_PROBE"))
	// already-set variables are not overridden
	assert.Equal(t, "7000", os.Getenv("APP_PORT"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestLoadCacheAndRateLimitConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "-1s")
	cc := LoadCacheConfig()
	assert.True(t, cc.Methods["GET"])
	assert.True(t, cc.Methods["HEAD"])
	assert.Equal(t, 5*time.Minute, cc.TTL)
	assert.Equal(t, "rooms:cache", cc.Prefix)

	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, time.Minute, rl.RefillInterval)
	assert.Equal(t, 5*time.Minute, rl.TTL)
}

func TestLoadQueueConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
	t.Setenv("QUEUE_ENABLED", "true")
	qc := LoadQueueConfig()
	assert.Equal(t, "amqp://u:p@broker:5672/", qc.URL)
	assert.Equal(t, "rooms.refreshed", qc.Queue)
	assert.True(t, qc.Enabled)
	assert.False(t, qc.ConsumerEnabled)
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_DB", "3")
	opts := RedisOptions()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Nil(t, opts.TLSConfig)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_TLS", "1")
	opts = RedisOptions()
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.NotNil(t, opts.TLSConfig)

	t.Setenv("REDIS_ENABLED", "false")
	assert.Nil(t, NewRedisClient())
}
