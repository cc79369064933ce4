package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"moneymap/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Cache.File = filepath.Join(t.TempDir(), "patterns.json")
	return cfg
}

func TestNewContainerNilConfig(t *testing.T) {
	c, err := NewContainer(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")
	assert.Nil(t, c)
}

func TestNewContainerWithoutAI(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Enabled = false

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotNil(t, c.GetLogger())
	assert.Equal(t, cfg, c.GetConfig())
	assert.NotNil(t, c.GetStore())
	assert.NotNil(t, c.GetCache())
	assert.NotNil(t, c.GetCategorizer())
	assert.Nil(t, c.GetAIClient(), "AI client must stay nil when disabled")

	assert.NoError(t, c.Close())
}

func TestNewContainerWithAI(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Enabled = true
	cfg.AI.APIKey = "test-api-key"
	cfg.AI.Model = "gemini-2.0-flash"
	cfg.AI.MaxRetries = 3
	cfg.AI.BatchSize = 50

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.NotNil(t, c.GetAIClient())
	assert.NotNil(t, c.GetCategorizer())
}

func TestNewContainerEnabledWithoutKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Enabled = true
	cfg.AI.APIKey = ""

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	// An enabled flag without credentials degrades to local-only tiers.
	assert.Nil(t, c.GetAIClient())
}

func TestNewContainerBadRulesFile(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - category: NOT_A_CATEGORY\n"), 0600))
	cfg.Rules.File = path

	c, err := NewContainer(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, c)
}
