package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadCacheConfigDefaults(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACHE_PREFIX", "")
	t.Setenv("CACHE_MAX_BODY_BYTES", "")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, "cache", cfg.Prefix)
	assert.Equal(t, 1048576, cfg.MaxBodyBytes)
}

func TestLoadCacheConfigFromEnv(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CACHE_PREFIX", "emp")

	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.TTL)
	assert.Equal(t, "emp", cfg.Prefix)
}

func TestLoadRateLimitConfigClampsBadValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s") // shorter than the refill cycle

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestEnvBoolParsesCommonSpellings(t *testing.T) {
	t.Setenv("SOME_FLAG", "on")
	assert.True(t, envBool("SOME_FLAG", false))
	t.Setenv("SOME_FLAG", "off")
	assert.False(t, envBool("SOME_FLAG", true))
	t.Setenv("SOME_FLAG", "whatever")
	assert.True(t, envBool("SOME_FLAG", true))
}

func TestDevFallbackSecretOnlyInDev(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	secret := loadJWTSecret("dev")
	assert.NotEmpty(t, secret)

	t.Setenv("JWT_SECRET", "configured-secret")
	assert.Equal(t, "configured-secret", loadJWTSecret("prod"))
}
