package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("testdata/nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, int64(50000), cfg.Ledger.CeilingCents)
	assert.Equal(t, 15*time.Minute, cfg.HistoryCache.TTL)
	assert.Equal(t, "history:", cfg.HistoryCache.Prefix)
	assert.Equal(t, 3, cfg.Worker.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Worker.Backoff)
	assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "banksim.transactions", cfg.Queue.Stream)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LEDGER_CEILING_CENTS", "100000")
	t.Setenv("WORKER_MAX_RETRIES", "5")
	t.Setenv("HISTORY_CACHE_TTL", "1h")

	cfg, err := Load("testdata/nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, int64(100000), cfg.Ledger.CeilingCents)
	assert.Equal(t, 5, cfg.Worker.MaxRetries)
	assert.Equal(t, time.Hour, cfg.HistoryCache.TTL)
}

func TestLoad_MissingSecret(t *testing.T) {
	// JWT_SECRET has no default and is required.
	_, err := Load("testdata/nonexistent.env")
	require.Error(t, err)
}
