package categorizer

import (
	"context"

	"moneymap/internal/models"
)

// AIClient is the interface to the external text-classification service.
// This abstraction keeps the resolution pipeline testable without network
// access and leaves room for other providers.
type AIClient interface {
	// ClassifyBatch classifies one batch of at most BatchSize
	// transactions in a single call. A successful return covers every
	// transaction in the batch; anything less surfaces as one of the
	// classifyerror types.
	ClassifyBatch(ctx context.Context, batch []models.Transaction) ([]models.ClassificationResult, error)
}
