// Package categorizer classifies financial transactions into the Money
// Map taxonomy through three tiers, cheapest first:
// 1. A persistent fuzzy cache of previously-seen merchant patterns
// 2. A static deterministic rule table with internal-transfer detection
// 3. A batched call to the external Gemini classifier
package categorizer

import (
	"context"
	"fmt"

	"moneymap/internal/classifyerror"
	"moneymap/internal/logging"
	"moneymap/internal/models"
)

// BatchSize is the default upper bound on transactions per classifier
// call.
const BatchSize = 50

// Categorizer drives the three resolution tiers. It owns no state beyond
// its collaborators and processes each Categorize call synchronously on
// the calling goroutine.
type Categorizer struct {
	cache     *PatternCache
	rules     *RuleMatcher
	aiClient  AIClient
	batchSize int
	logger    logging.Logger
}

// NewCategorizer wires a categorizer from its collaborators. A zero
// batchSize selects the default. A nil aiClient disables the classifier
// tier: transactions the local tiers cannot resolve then fail with a
// configuration error instead of being dispatched.
func NewCategorizer(aiClient AIClient, cache *PatternCache, rules *RuleMatcher, batchSize int, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if batchSize <= 0 {
		batchSize = BatchSize
	}
	return &Categorizer{
		cache:     cache,
		rules:     rules,
		aiClient:  aiClient,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Categorize classifies an ordered list of transactions and returns one
// result per transaction, in input order, with the exact input id set.
// Cache and rule tiers never fail; any classifier-tier error aborts the
// whole call and propagates to the caller unchanged.
func (c *Categorizer) Categorize(ctx context.Context, transactions []models.Transaction) ([]models.ClassificationResult, error) {
	if len(transactions) == 0 {
		return []models.ClassificationResult{}, nil
	}

	resolved := make(map[int64]models.ClassificationResult, len(transactions))
	var pending []models.Transaction

	for _, tx := range transactions {
		if hit, found := c.cache.Get(tx.Description); found {
			resolved[tx.ID] = models.ClassificationResult{
				ID:          tx.ID,
				Category:    hit.Category,
				Subcategory: hit.Subcategory,
				Confidence:  hit.Confidence,
			}
			continue
		}

		if result, found := c.rules.Resolve(tx); found {
			resolved[tx.ID] = result
			continue
		}

		pending = append(pending, tx)
	}

	c.logger.WithFields(
		logging.Field{Key: "total", Value: len(transactions)},
		logging.Field{Key: "local", Value: len(resolved)},
		logging.Field{Key: "pending", Value: len(pending)},
	).Debug("Local resolution tiers complete")

	if len(pending) > 0 {
		if c.aiClient == nil {
			return nil, &classifyerror.ConfigurationError{
				Reason: fmt.Sprintf("AI classification is disabled but %d transactions need the classifier", len(pending)),
			}
		}
		if err := c.classifyPending(ctx, pending, resolved); err != nil {
			return nil, err
		}
	}

	if err := c.cache.Save(); err != nil {
		// Results are already correct; losing learned patterns costs a
		// future API call, not correctness.
		c.logger.WithError(err).Warn("Failed to persist pattern cache")
	}

	results := make([]models.ClassificationResult, 0, len(transactions))
	for _, tx := range transactions {
		result, found := resolved[tx.ID]
		if !found {
			return nil, fmt.Errorf("internal: no classification produced for transaction %d", tx.ID)
		}
		results = append(results, result)
	}
	return results, nil
}

// classifyPending splits the unresolved transactions into consecutive
// batches and classifies them sequentially, failing fast on the first
// batch error. Confident results are written back into the pattern cache.
func (c *Categorizer) classifyPending(ctx context.Context, pending []models.Transaction, resolved map[int64]models.ClassificationResult) error {
	byID := make(map[int64]models.Transaction, len(pending))
	for _, tx := range pending {
		byID[tx.ID] = tx
	}

	for start := 0; start < len(pending); start += c.batchSize {
		end := start + c.batchSize
		if end > len(pending) {
			end = len(pending)
		}

		results, err := c.aiClient.ClassifyBatch(ctx, pending[start:end])
		if err != nil {
			return err
		}

		for _, result := range results {
			tx, requested := byID[result.ID]
			if !requested {
				// Defensive against classifier bugs: an id we never
				// asked about is dropped, not fatal.
				c.logger.WithField("id", result.ID).Warn("Classifier returned unrequested transaction id, dropping")
				continue
			}

			resolved[result.ID] = result
			c.cache.Put(tx.Description, result.Category, result.Subcategory, result.Confidence)
		}
	}

	return nil
}
