package categorizer

import (
	"context"
	"errors"
	"testing"

	"moneymap/internal/classifyerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestNewGeminiClientRequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "gemini-2.0-flash", 3, nil)

	var confErr *classifyerror.ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Contains(t, confErr.Reason, "GEMINI_API_KEY")
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"unauthenticated status", status.Error(codes.Unauthenticated, "bad key"), true},
		{"permission denied status", status.Error(codes.PermissionDenied, "no access"), true},
		{"unavailable status", status.Error(codes.Unavailable, "try later"), false},
		{"resource exhausted status", status.Error(codes.ResourceExhausted, "quota"), false},
		{"http 401", &googleapi.Error{Code: 401}, true},
		{"http 403", &googleapi.Error{Code: 403}, true},
		{"http 500", &googleapi.Error{Code: 500}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isAuthError(tc.err))
		})
	}
}
