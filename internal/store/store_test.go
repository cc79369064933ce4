package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"moneymap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	s := NewPatternStore(filepath.Join(t.TempDir(), "patterns.json"), nil)

	patterns, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	s := NewPatternStore(path, nil)
	_, err := s.Load()
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "patterns.json")
	s := NewPatternStore(path, nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	patterns := map[string]models.CacheEntry{
		"albert heijn": {
			Category:    models.CategoryCore,
			Subcategory: "Groceries",
			Confidence:  0.98,
			HitCount:    4,
			CreatedAt:   now,
			LastHitAt:   now,
		},
	}
	require.NoError(t, s.Save(patterns))

	reloaded, err := NewPatternStore(path, nil).Load()
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	entry := reloaded["albert heijn"]
	assert.Equal(t, models.CategoryCore, entry.Category)
	assert.Equal(t, "Groceries", entry.Subcategory)
	assert.Equal(t, 4, entry.HitCount)
	assert.True(t, entry.LastHitAt.Equal(now))
}

func TestSaveOverwritesPreviousContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	s := NewPatternStore(path, nil)

	require.NoError(t, s.Save(map[string]models.CacheEntry{
		"old key": {Category: models.CategoryChoice, Confidence: 1.0},
	}))
	require.NoError(t, s.Save(map[string]models.CacheEntry{
		"new key": {Category: models.CategoryCore, Confidence: 1.0},
	}))

	reloaded, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, reloaded, 1)
	assert.Contains(t, reloaded, "new key")
	assert.NotContains(t, reloaded, "old key")
}
