package categorizer

import (
	"time"

	"moneymap/internal/logging"
	"moneymap/internal/models"
	"moneymap/internal/store"
	"moneymap/internal/textutils"
)

const (
	// MinCacheConfidence is the default gate for learning a pattern: only
	// classifications at least this confident are remembered.
	MinCacheConfidence = 0.95

	// DefaultStaleAfter is the default inactivity window after which an
	// entry is evicted at save time.
	DefaultStaleAfter = 180 * 24 * time.Hour
)

// CacheHit is the classification a cache lookup produced, along with the
// hit count after the lookup.
type CacheHit struct {
	Category    models.Category
	Subcategory string
	Confidence  float64
	HitCount    int
}

// PatternCache maps normalized transaction descriptions to previously
// learned classifications. It is in-memory mutable state loaded once at
// construction and flushed explicitly via Save; it is not safe for
// concurrent use and expects a single writer per process.
type PatternCache struct {
	entries       map[string]models.CacheEntry
	store         *store.PatternStore
	minConfidence float64
	staleAfter    time.Duration
	logger        logging.Logger
	now           func() time.Time
}

// NewPatternCache loads the durable pattern map and returns a cache over
// it. A zero minConfidence or staleAfter selects the defaults.
func NewPatternCache(st *store.PatternStore, minConfidence float64, staleAfter time.Duration, logger logging.Logger) (*PatternCache, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if minConfidence == 0 {
		minConfidence = MinCacheConfidence
	}
	if staleAfter == 0 {
		staleAfter = DefaultStaleAfter
	}

	entries, err := st.Load()
	if err != nil {
		return nil, err
	}

	return &PatternCache{
		entries:       entries,
		store:         st,
		minConfidence: minConfidence,
		staleAfter:    staleAfter,
		logger:        logger,
		now:           time.Now,
	}, nil
}

// Get looks up a description. A hit increments the entry's hit count and
// refreshes its last-hit timestamp before returning a copy of the
// classification fields.
func (c *PatternCache) Get(description string) (CacheHit, bool) {
	key := textutils.NormalizeKey(description)
	entry, ok := c.entries[key]
	if !ok {
		return CacheHit{}, false
	}

	entry.HitCount++
	entry.LastHitAt = c.now()
	c.entries[key] = entry

	c.logger.WithFields(
		logging.Field{Key: "key", Value: key},
		logging.Field{Key: "category", Value: entry.Category},
		logging.Field{Key: "hit_count", Value: entry.HitCount},
	).Debug("Pattern cache hit")

	return CacheHit{
		Category:    entry.Category,
		Subcategory: entry.Subcategory,
		Confidence:  entry.Confidence,
		HitCount:    entry.HitCount,
	}, true
}

// Put learns a classification under the normalized description key. It
// rejects classifications below the confidence gate and reports whether
// the entry was stored. An accepted put fully replaces any existing entry.
func (c *PatternCache) Put(description string, category models.Category, subcategory string, confidence float64) bool {
	if confidence < c.minConfidence {
		return false
	}

	key := textutils.NormalizeKey(description)
	if key == "" {
		return false
	}

	now := c.now()
	c.entries[key] = models.CacheEntry{
		Category:    category,
		Subcategory: subcategory,
		Confidence:  confidence,
		HitCount:    0,
		CreatedAt:   now,
		LastHitAt:   now,
	}
	return true
}

// Save evicts entries whose last hit is older than the staleness window,
// then persists the remaining map in full.
func (c *PatternCache) Save() error {
	now := c.now()
	evicted := 0
	for key, entry := range c.entries {
		if now.Sub(entry.LastHitAt) > c.staleAfter {
			delete(c.entries, key)
			evicted++
		}
	}
	if evicted > 0 {
		c.logger.WithField("count", evicted).Debug("Evicted stale pattern cache entries")
	}

	return c.store.Save(c.entries)
}

// Clear removes all entries from memory. It does not touch the durable
// store; call Save to persist the empty map.
func (c *PatternCache) Clear() {
	c.entries = map[string]models.CacheEntry{}
}

// Len returns the number of cached patterns.
func (c *PatternCache) Len() int {
	return len(c.entries)
}
