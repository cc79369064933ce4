// Package models defines the value types shared across the categorization
// pipeline: transactions, classification results, the Money Map category
// taxonomy, and the durable pattern-cache entry format.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single financial transaction to be categorized. It is
// immutable for the duration of a Categorize call; IDs only need to be
// unique within one call.
type Transaction struct {
	ID                int64           `json:"id" csv:"id"`
	Date              string          `json:"date" csv:"date"`
	Description       string          `json:"description" csv:"description"`
	Amount            decimal.Decimal `json:"amount" csv:"amount"`
	SourceCategory    string          `json:"source_category" csv:"source_category"`
	SourceSubcategory string          `json:"source_subcategory" csv:"source_subcategory"`
}

// ClassificationResult is the outcome of classifying one transaction.
// Exactly one resolution tier produces it.
type ClassificationResult struct {
	ID          int64    `json:"id"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"`
	Confidence  float64  `json:"confidence"`
}

// CacheEntry is the durable record kept per normalized description. The
// JSON tags are the on-disk format of the pattern store.
type CacheEntry struct {
	Category    Category  `json:"category"`
	Subcategory string    `json:"subcategory"`
	Confidence  float64   `json:"confidence"`
	HitCount    int       `json:"hit_count"`
	CreatedAt   time.Time `json:"created_at"`
	LastHitAt   time.Time `json:"last_hit_at"`
}
