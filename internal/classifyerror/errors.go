// Package classifyerror defines the failure taxonomy of the classifier
// tier. Cache and rule resolution never fail, so these are the only errors
// a Categorize call can surface, and they propagate to the caller
// unchanged.
package classifyerror

import (
	"fmt"

	"moneymap/internal/models"
)

// maxRawPreview bounds how much of a bad classifier response is kept for
// diagnostics.
const maxRawPreview = 512

// ConfigurationError is fatal: the classifier rejected our credentials or
// setup. It is never retried.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classifier configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("classifier configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ConnectionError means the transport exhausted its retry budget.
// Attempts records how many calls were actually made.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("classifier unreachable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// InvalidResponseError means the classifier answered with unparseable or
// structurally wrong JSON. RawResponse holds a truncated preview of what
// came back. Not retried: a malformed answer is a classifier-side defect,
// not a transient fault.
type InvalidResponseError struct {
	Reason      string
	RawResponse string
	Err         error
}

// NewInvalidResponse builds an InvalidResponseError, truncating the raw
// response to a diagnostic preview.
func NewInvalidResponse(reason, raw string, err error) *InvalidResponseError {
	if len(raw) > maxRawPreview {
		raw = raw[:maxRawPreview] + "..."
	}
	return &InvalidResponseError{Reason: reason, RawResponse: raw, Err: err}
}

func (e *InvalidResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid classifier response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid classifier response: %s", e.Reason)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

// BatchPartialError means the response was well-formed but did not cover
// every requested transaction. The partial results are carried for
// inspection; the batch as a whole is still considered failed.
type BatchPartialError struct {
	MissingIDs []int64
	Partial    []models.ClassificationResult
}

func (e *BatchPartialError) Error() string {
	return fmt.Sprintf("classifier response missing %d of the requested transactions (ids %v)",
		len(e.MissingIDs), e.MissingIDs)
}
