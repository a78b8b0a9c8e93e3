package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REFERRAL_MAX_DEPTH", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")

	cfg := Load()
	assert.Equal(t, 6, cfg.ReferralMaxDepth)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REFERRAL_MAX_DEPTH", "8")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("DB_NAME", "affiliates")
	t.Setenv("DB_PORT", "6543")

	cfg := Load()
	assert.Equal(t, 8, cfg.ReferralMaxDepth)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Contains(t, cfg.Database.DSN(), "dbname=affiliates")
	assert.Contains(t, cfg.Database.DSN(), "port=6543")
}

func TestGetDurationEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, 5*time.Second, GetDurationEnv("SOME_TIMEOUT", 5*time.Second))
}
