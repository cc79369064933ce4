package categorizer

import (
	"encoding/json"
	"fmt"

	"moneymap/internal/models"
)

// classifyInstructions is the fixed task preamble sent with every batch.
// The category definitions mirror the Money Map taxonomy; the response
// contract is what parseBatchResponse enforces.
const classifyInstructions = `You are a financial transaction classifier for a personal budgeting tool.

Assign each transaction below to exactly one of these budget categories:
- INCOME: money coming in (salary, benefits, interest, refunds of income)
- CORE: essential living costs (housing, utilities, groceries, insurance, commuting)
- CHOICE: discretionary spending (dining out, entertainment, shopping, subscriptions, travel)
- COMPOUND: wealth building (savings deposits, investments, extra debt repayments)
- EXCLUDED: movements that are not budget-relevant (transfers between own accounts, reversals, chargebacks)

Also pick a short free-form subcategory (e.g. "Groceries", "Dining", "Streaming").

Respond with ONLY a JSON array, one object per transaction, in this shape:
[{"id": 1, "category": "CORE", "subcategory": "Groceries", "confidence": 0.97}]

The "confidence" field is a number between 0.0 and 1.0. Every transaction id
from the input must appear exactly once in your answer. Do not add any text
outside the JSON array.

Transactions:
`

// classifyRequestRow is the wire shape of one transaction in the request
// payload. Amounts go out as decimal strings to avoid float rounding.
type classifyRequestRow struct {
	ID                int64  `json:"id"`
	Date              string `json:"date"`
	Description       string `json:"description"`
	Amount            string `json:"amount"`
	SourceCategory    string `json:"source_category"`
	SourceSubcategory string `json:"source_subcategory"`
}

// buildBatchPrompt serializes a batch into the single text payload the
// classifier receives: task instructions plus a JSON array of rows.
func buildBatchPrompt(batch []models.Transaction) (string, error) {
	rows := make([]classifyRequestRow, len(batch))
	for i, tx := range batch {
		rows[i] = classifyRequestRow{
			ID:                tx.ID,
			Date:              tx.Date,
			Description:       tx.Description,
			Amount:            tx.Amount.String(),
			SourceCategory:    tx.SourceCategory,
			SourceSubcategory: tx.SourceSubcategory,
		}
	}

	payload, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error serializing batch: %w", err)
	}

	return classifyInstructions + string(payload), nil
}
