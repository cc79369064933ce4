// Package store provides durable persistence for learned merchant
// patterns.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"moneymap/internal/logging"
	"moneymap/internal/models"
)

// PatternStore reads and writes the pattern map as a single JSON object on
// disk: normalized description -> cache entry. The file is always read and
// written in full; Save atomically replaces the previous content.
type PatternStore struct {
	path   string
	logger logging.Logger
}

// NewPatternStore creates a store backed by the given file path.
func NewPatternStore(path string, logger logging.Logger) *PatternStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &PatternStore{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path.
func (s *PatternStore) Path() string {
	return s.path
}

// Load reads the full pattern map. An absent backing file is not an
// error: a fresh installation simply starts with an empty cache.
func (s *PatternStore) Load() (map[string]models.CacheEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("path", s.path).Debug("Pattern store not found, starting empty")
			return map[string]models.CacheEntry{}, nil
		}
		return nil, fmt.Errorf("error reading pattern store: %w", err)
	}

	patterns := map[string]models.CacheEntry{}
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, fmt.Errorf("error parsing pattern store %s: %w", s.path, err)
	}

	s.logger.WithFields(
		logging.Field{Key: "path", Value: s.path},
		logging.Field{Key: "count", Value: len(patterns)},
	).Debug("Loaded pattern store")
	return patterns, nil
}

// Save writes the full pattern map, replacing any previous content. The
// write goes through a temp file in the same directory so a crash cannot
// leave a half-written store behind.
func (s *PatternStore) Save(patterns map[string]models.CacheEntry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating pattern store directory: %w", err)
	}

	data, err := json.MarshalIndent(patterns, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling pattern store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("error creating temp pattern store: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("error writing pattern store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error closing pattern store: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error replacing pattern store: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: "path", Value: s.path},
		logging.Field{Key: "count", Value: len(patterns)},
	).Debug("Saved pattern store")
	return nil
}
