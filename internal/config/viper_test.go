package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	// Run from a temp dir so a developer's local config.yaml is not picked up.
	t.Chdir(t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, 3, cfg.AI.MaxRetries)
	assert.Equal(t, 50, cfg.AI.BatchSize)
	assert.Equal(t, 0.95, cfg.Cache.ConfidenceThreshold)
	assert.Equal(t, 180, cfg.Cache.StaleDays)
	assert.Equal(t, "data/patterns.json", cfg.Cache.File)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MONEYMAP_AI_BATCH_SIZE", "25")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.AI.BatchSize)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Log.Level = "info"
		cfg.Log.Format = "text"
		cfg.AI.BatchSize = 50
		cfg.AI.MaxRetries = 3
		cfg.Cache.ConfidenceThreshold = 0.95
		cfg.Cache.StaleDays = 180
		return cfg
	}

	cfg := base()
	cfg.Log.Level = "verbose"
	assert.Error(t, validateConfig(cfg))

	cfg = base()
	cfg.Log.Format = "xml"
	assert.Error(t, validateConfig(cfg))

	cfg = base()
	cfg.AI.BatchSize = 0
	assert.Error(t, validateConfig(cfg))

	cfg = base()
	cfg.Cache.ConfidenceThreshold = 1.2
	assert.Error(t, validateConfig(cfg))

	assert.NoError(t, validateConfig(base()))
}
