package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestFromEnv_defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	c := FromEnv()

	assert.Equal(t, StorePostgres, c.StoreBackend)
	assert.Equal(t, "5000", c.Port)
	assert.False(t, c.CacheEnabled())
	assert.Equal(t, defaultOrigins, c.CORSAllowedOrigins)
}

func TestFromEnv_overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Mongo")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("MEDIA_SIGNED_URLS", "true")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	c := FromEnv()

	assert.Equal(t, StoreMongo, c.StoreBackend)
	assert.True(t, c.IsProduction())
	assert.True(t, c.CacheEnabled())
	assert.Equal(t, 30*time.Second, c.CacheTTL)
	assert.True(t, c.SignedURLs)
	assert.Equal(t, "https://api.example.com", c.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, c.CORSAllowedOrigins)
}

func TestLookupEnv_invalidValuesFallBack(t *testing.T) {
	t.Setenv("SOME_BOOL", "maybe")
	t.Setenv("SOME_DURATION", "soon")

	assert.True(t, LookupEnvBool("SOME_BOOL", true))
	assert.Equal(t, time.Second, LookupEnvDuration("SOME_DURATION", time.Second))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, (&Config{LogLevel: "debug"}).ParseLogLevel())
	assert.Equal(t, logrus.InfoLevel, (&Config{LogLevel: "chatty"}).ParseLogLevel())
}

func TestCacheRefreshEnabled(t *testing.T) {
	c := &Config{RedisAddr: "cache:6379", CacheTTL: time.Minute, CacheRefreshSchedule: "@every 5m"}
	assert.True(t, c.CacheRefreshEnabled())

	c.CacheRefreshSchedule = "OFF"
	assert.False(t, c.CacheRefreshEnabled())

	c = &Config{CacheRefreshSchedule: "@every 5m"}
	assert.False(t, c.CacheRefreshEnabled())
}
