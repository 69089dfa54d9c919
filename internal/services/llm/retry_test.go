package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"google.golang.org/genai"
)

func TestRetryClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		rateLimit bool
		retryable bool
	}{
		{"nil", nil, false, false},
		{"429", errors.New("POST: 429 Too Many Requests"), true, true},
		{"quota", errors.New("Error 429, Status: RESOURCE_EXHAUSTED"), true, true},
		{"auth", errors.New("401 Unauthorized"), false, false},
		{"bad request", errors.New("400 Bad Request"), false, false},
		{"network", errors.New("connection reset by peer"), false, true},
		{"token count is not a status", errors.New("context window exceeds 4000 tokens"), false, true},
		{"bare number is not a status", errors.New("stream closed after 400 chunks"), false, true},
		{"labelled status", errors.New("unexpected status code: 503"), false, true},
		{"wrapped status", fmt.Errorf("OpenAI API call failed: %w", errors.New("POST: 404 Not Found")), false, false},
		{"gemini quota", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, true, true},
		{"gemini permission", genai.APIError{Code: 403, Message: "quota project not set"}, false, false},
		{"gemini server error", &genai.APIError{Code: 500}, false, true},
		{"openai bad request", &openai.Error{StatusCode: 400}, false, false},
		{"openai timeout", &openai.Error{StatusCode: 408}, false, true},
		{"claude overloaded", fmt.Errorf("Claude API call failed: %w", &anthropic.Error{StatusCode: 529}), false, true},
		{"claude rate limit", &anthropic.Error{StatusCode: 429}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.rateLimit, IsRateLimitError(tt.err))
			assert.Equal(t, tt.retryable, IsRetryableError(tt.err))
		})
	}
}

func TestExtractRetryDelay(t *testing.T) {
	err := errors.New("Error 429, Message: quota exceeded. Please retry in 45.5s., Status: RESOURCE_EXHAUSTED")
	assert.Equal(t, 45500*time.Millisecond, ExtractRetryDelay(err))
	assert.Equal(t, time.Duration(0), ExtractRetryDelay(errors.New("boom")))
}

func TestCalculateBackoff(t *testing.T) {
	cfg := NewDefaultRetryConfig()

	assert.Equal(t, 5*time.Second, cfg.CalculateBackoff(0, 0))
	assert.Equal(t, 7500*time.Millisecond, cfg.CalculateBackoff(1, 0))
	assert.Equal(t, 11*time.Second, cfg.CalculateBackoff(0, 10*time.Second))
	assert.Equal(t, 60*time.Second, cfg.CalculateBackoff(10, 0))
}

func TestWithRetry(t *testing.T) {
	cfg := &RetryConfig{
		MaxRetries:        2,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        time.Millisecond,
		BackoffMultiplier: 1,
	}

	t.Run("succeeds after rate limit", func(t *testing.T) {
		calls := 0
		got, err := withRetry(context.Background(), cfg, arbor.NewLogger(), ProviderOpenAI, func() (string, error) {
			calls++
			if calls < 2 {
				return "", errors.New("429 rate limit")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		_, err := withRetry(context.Background(), cfg, arbor.NewLogger(), ProviderOpenAI, func() (string, error) {
			calls++
			return "", errors.New("401 unauthorized")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausts budget", func(t *testing.T) {
		calls := 0
		_, err := withRetry(context.Background(), cfg, arbor.NewLogger(), ProviderOpenAI, func() (string, error) {
			calls++
			return "", errors.New("429")
		})
		assert.Error(t, err)
		assert.Equal(t, 3, calls)
	})
}
