package classifyerror

import (
	"errors"
	"strings"
	"testing"

	"moneymap/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationErrorUnwrap(t *testing.T) {
	inner := errors.New("bad key")
	err := &ConfigurationError{Reason: "invalid credentials", Err: inner}

	assert.Contains(t, err.Error(), "invalid credentials")
	assert.ErrorIs(t, err, inner)
}

func TestConnectionErrorCarriesAttempts(t *testing.T) {
	err := &ConnectionError{Attempts: 3, Err: errors.New("unavailable")}
	assert.Contains(t, err.Error(), "3 attempts")
	assert.Equal(t, 3, err.Attempts)
}

func TestNewInvalidResponseTruncatesRaw(t *testing.T) {
	raw := strings.Repeat("x", 2000)
	err := NewInvalidResponse("not json", raw, nil)

	assert.Len(t, err.RawResponse, maxRawPreview+3)
	assert.True(t, strings.HasSuffix(err.RawResponse, "..."))
	assert.Contains(t, err.Error(), "not json")
}

func TestNewInvalidResponseKeepsShortRaw(t *testing.T) {
	err := NewInvalidResponse("not an array", `{"id":1}`, nil)
	assert.Equal(t, `{"id":1}`, err.RawResponse)
}

func TestBatchPartialError(t *testing.T) {
	err := &BatchPartialError{
		MissingIDs: []int64{3},
		Partial: []models.ClassificationResult{
			{ID: 1, Category: models.CategoryCore, Confidence: 1.0},
		},
	}
	assert.Contains(t, err.Error(), "missing 1")

	var target *BatchPartialError
	assert.ErrorAs(t, error(err), &target)
	assert.Equal(t, []int64{3}, target.MissingIDs)
}
