package categorizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"moneymap/internal/classifyerror"
	"moneymap/internal/logging"
	"moneymap/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// DefaultMaxAttempts is the transport retry budget per batch call.
	DefaultMaxAttempts = 3

	defaultRetryDelay = time.Second
)

// GeminiClient implements AIClient against the Google Gemini API. One
// batch becomes one GenerateContent call; transient transport failures
// are retried within the budget, credential failures are not.
type GeminiClient struct {
	client      *genai.Client
	model       *genai.GenerativeModel
	modelName   string
	maxAttempts int
	retryDelay  time.Duration
	callTimeout time.Duration
	logger      logging.Logger
}

// NewGeminiClient creates a Gemini-backed classifier client. A missing
// API key is a configuration error up front rather than on first use.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, maxAttempts int, logger logging.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if apiKey == "" {
		return nil, &classifyerror.ConfigurationError{Reason: "GEMINI_API_KEY is not set"}
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &classifyerror.ConfigurationError{Reason: "failed to create Gemini client", Err: err}
	}

	return &GeminiClient{
		client:      client,
		model:       client.GenerativeModel(modelName),
		modelName:   modelName,
		maxAttempts: maxAttempts,
		retryDelay:  defaultRetryDelay,
		logger:      logger,
	}, nil
}

// SetCallTimeout bounds each individual GenerateContent attempt. Zero
// means no per-attempt bound beyond the caller's context.
func (c *GeminiClient) SetCallTimeout(d time.Duration) {
	c.callTimeout = d
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// ClassifyBatch classifies one batch of transactions in a single Gemini
// call and validates the response against the requested ids.
func (c *GeminiClient) ClassifyBatch(ctx context.Context, batch []models.Transaction) ([]models.ClassificationResult, error) {
	if len(batch) == 0 {
		return []models.ClassificationResult{}, nil
	}

	prompt, err := buildBatchPrompt(batch)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(
		logging.Field{Key: "model", Value: c.modelName},
		logging.Field{Key: "batch_size", Value: len(batch)},
	).Debug("Sending classification batch")

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseBatchResponse(raw, batch)
}

// generate runs one GenerateContent call with the retry budget applied.
// Credential failures surface immediately as configuration errors; every
// other transport failure is retried with backoff until the budget is
// spent, then reported as a connection error carrying the attempt count.
func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	delay := c.retryDelay

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.generateOnce(ctx, prompt)
		if err == nil {
			text, ok := responseText(resp)
			if !ok {
				return "", classifyerror.NewInvalidResponse("classifier returned no text content", "", nil)
			}
			return text, nil
		}

		if isAuthError(err) {
			return "", &classifyerror.ConfigurationError{Reason: "classifier rejected credentials", Err: err}
		}

		lastErr = err
		if attempt == c.maxAttempts {
			break
		}

		c.logger.WithError(err).WithFields(
			logging.Field{Key: "attempt", Value: attempt},
			logging.Field{Key: "max_attempts", Value: c.maxAttempts},
		).Warn("Classifier call failed, retrying")

		select {
		case <-ctx.Done():
			return "", &classifyerror.ConnectionError{Attempts: attempt, Err: ctx.Err()}
		case <-time.After(delay):
			delay *= 2
		}
	}

	return "", &classifyerror.ConnectionError{Attempts: c.maxAttempts, Err: lastErr}
}

func (c *GeminiClient) generateOnce(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}
	return c.model.GenerateContent(ctx, genai.Text(prompt))
}

// responseText flattens the first candidate's text parts.
func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}

	text := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	if text == "" {
		return "", false
	}
	return text, true
}

// isAuthError reports whether the transport failure is a credential
// problem. The Gemini SDK surfaces gRPC status errors; HTTP-style
// googleapi errors are handled for completeness.
func isAuthError(err error) bool {
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			return true
		}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden
	}

	return false
}

var _ AIClient = (*GeminiClient)(nil)

// String describes the client for logs.
func (c *GeminiClient) String() string {
	return fmt.Sprintf("gemini(%s)", c.modelName)
}
