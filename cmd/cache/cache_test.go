package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"moneymap/cmd/cache"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheCommandMetadata(t *testing.T) {
	assert.Equal(t, "cache", cache.Cmd.Use)
	assert.NotNil(t, cache.Cmd.RunE)

	clearFlag := cache.Cmd.Flags().Lookup("clear")
	require.NotNil(t, clearFlag)
	assert.Equal(t, "false", clearFlag.DefValue)
}

func TestCacheCommandClear(t *testing.T) {
	t.Chdir(t.TempDir())

	seed := `{"some merchant": {"category": "CHOICE", "subcategory": "Dining", "confidence": 0.97, "hit_count": 3, "created_at": "2025-08-01T00:00:00Z", "last_hit_at": "2025-08-20T00:00:00Z"}}`
	require.NoError(t, os.MkdirAll("data", 0750))
	require.NoError(t, os.WriteFile(filepath.Join("data", "patterns.json"), []byte(seed), 0600))

	require.NoError(t, cache.Cmd.Flags().Set("clear", "true"))
	defer func() { _ = cache.Cmd.Flags().Set("clear", "false") }()

	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())
	require.NoError(t, cache.Cmd.RunE(cmd, []string{}))

	data, err := os.ReadFile(filepath.Join("data", "patterns.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(data))
}

func TestCacheCommandStats(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())
	assert.NoError(t, cache.Cmd.RunE(cmd, []string{}))
}
