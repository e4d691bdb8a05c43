package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 4000.0, cfg.BankrollUSD)
	assert.Equal(t, 0.25, cfg.KellyFraction)
	assert.Equal(t, 5.0, cfg.DefaultMaxSlippagePct)
	assert.Equal(t, int64(5), cfg.MinProfileSample)
	assert.Equal(t, "memory", cfg.StorageMode)
	assert.Equal(t, 24*time.Hour, cfg.MetadataCacheTTL)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("SCORING_BANKROLL_USD", "10000")
	t.Setenv("SCORING_MAX_SLIPPAGE_PCT", "2.5")
	t.Setenv("ML_RETRIES", "4")
	t.Setenv("STORAGE_MODE", "postgres")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 10000.0, cfg.BankrollUSD)
	assert.Equal(t, 2.5, cfg.DefaultMaxSlippagePct)
	assert.Equal(t, 4, cfg.MLRetries)
	assert.Equal(t, "postgres", cfg.StorageMode)
}

func TestLoadFromEnv_MalformedValueFallsBack(t *testing.T) {
	t.Setenv("SCORING_BANKROLL_USD", "not-a-number")
	t.Setenv("ML_TIMEOUT", "soon")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 4000.0, cfg.BankrollUSD)
	assert.Equal(t, 3*time.Second, cfg.MLTimeout)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty-http-port", func(c *Config) { c.HTTPPort = "" }},
		{"empty-gamma-url", func(c *Config) { c.GammaURL = "" }},
		{"negative-bankroll", func(c *Config) { c.BankrollUSD = -1 }},
		{"kelly-above-one", func(c *Config) { c.KellyFraction = 1.5 }},
		{"zero-max-slippage", func(c *Config) { c.DefaultMaxSlippagePct = 0 }},
		{"zero-min-sample", func(c *Config) { c.MinProfileSample = 0 }},
		{"bad-storage-mode", func(c *Config) { c.StorageMode = "console" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromEnv()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = NewLogger("verbose")
	assert.Error(t, err)
}
