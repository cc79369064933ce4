package categorizer

import (
	"encoding/json"
	"sort"
	"strings"

	"moneymap/internal/classifyerror"
	"moneymap/internal/models"
)

// rawClassification is one element of the classifier's JSON answer.
// Pointer fields distinguish absent from zero so required fields can be
// enforced; confidence is optional and defaults to 1.0.
type rawClassification struct {
	ID          *int64   `json:"id"`
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Confidence  *float64 `json:"confidence"`
}

// stripMarkdownFence removes a surrounding markdown code fence if the
// model wrapped its JSON in one, a habit of chat-tuned models.
func stripMarkdownFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop a language tag like "json" on the opening fence line.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "[{") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// parseBatchResponse validates the classifier's raw answer for one batch
// against the transactions that were requested. A malformed answer fails
// the whole batch; a well-formed answer that misses requested ids fails
// with the partial results attached.
func parseBatchResponse(raw string, requested []models.Transaction) ([]models.ClassificationResult, error) {
	cleaned := stripMarkdownFence(raw)

	var probe any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, classifyerror.NewInvalidResponse("response is not valid JSON", raw, err)
	}
	if _, ok := probe.([]any); !ok {
		return nil, classifyerror.NewInvalidResponse("top-level JSON value is not an array", raw, nil)
	}

	var rows []rawClassification
	if err := json.Unmarshal([]byte(cleaned), &rows); err != nil {
		return nil, classifyerror.NewInvalidResponse("malformed classification element", raw, err)
	}

	results := make([]models.ClassificationResult, 0, len(rows))
	returned := make(map[int64]bool, len(rows))
	for _, row := range rows {
		switch {
		case row.ID == nil:
			return nil, classifyerror.NewInvalidResponse("classification element missing id", raw, nil)
		case row.Category == nil:
			return nil, classifyerror.NewInvalidResponse("classification element missing category", raw, nil)
		case row.Subcategory == nil:
			return nil, classifyerror.NewInvalidResponse("classification element missing subcategory", raw, nil)
		}

		category, err := models.ParseCategory(*row.Category)
		if err != nil {
			return nil, classifyerror.NewInvalidResponse("category outside taxonomy", raw, err)
		}

		confidence := 1.0
		if row.Confidence != nil {
			confidence = *row.Confidence
		}

		results = append(results, models.ClassificationResult{
			ID:          *row.ID,
			Category:    category,
			Subcategory: *row.Subcategory,
			Confidence:  confidence,
		})
		returned[*row.ID] = true
	}

	var missing []int64
	for _, tx := range requested {
		if !returned[tx.ID] {
			missing = append(missing, tx.ID)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, &classifyerror.BatchPartialError{
			MissingIDs: missing,
			Partial:    results,
		}
	}

	return results, nil
}
