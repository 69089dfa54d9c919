package llm

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
	"github.com/ternarybob/arbor"
	"google.golang.org/genai"
)

// RetryConfig defines retry behavior for provider calls.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the first call
	MaxRetries int

	// InitialBackoff is the wait before the first retry of a rate-limited call
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between retries
	MaxBackoff time.Duration

	// BackoffMultiplier is applied to backoff on each retry
	BackoffMultiplier float64
}

// Default retry constants
const (
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 5 * time.Second
	DefaultMaxBackoff        = 60 * time.Second
	DefaultBackoffMultiplier = 1.5
)

// NewDefaultRetryConfig returns a RetryConfig with sensible defaults
func NewDefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        DefaultMaxRetries,
		InitialBackoff:    DefaultInitialBackoff,
		MaxBackoff:        DefaultMaxBackoff,
		BackoffMultiplier: DefaultBackoffMultiplier,
	}
}

// statusRegex finds an HTTP status in an error message: either after a
// status/error/code label ("Error 429, ...") or before its reason phrase
// ("401 Unauthorized").
var statusRegex = regexp.MustCompile(`(?i)\b(?:status(?:\s+code)?|http|error|code)[\s:=]+([1-5]\d{2})\b|\b([1-5]\d{2})\s+(?:too many requests|unauthorized|forbidden|bad request|not found|request timeout|unprocessable entity|internal server error|bad gateway|service unavailable|gateway timeout)`)

// statusCode returns the HTTP status carried by a provider error, or 0.
// SDK error types are checked first; the message is parsed only for errors
// that carry no typed status.
func statusCode(err error) int {
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode
	}
	var claudeErr *anthropic.Error
	if errors.As(err, &claudeErr) {
		return claudeErr.StatusCode
	}
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code
	}
	var geminiPtr *genai.APIError
	if errors.As(err, &geminiPtr) {
		return geminiPtr.Code
	}

	m := statusRegex.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code := m[1]
	if code == "" {
		code = m[2]
	}
	n, _ := strconv.Atoi(code)
	return n
}

// IsRateLimitError checks if an error is a provider rate limit error:
// status 429, RESOURCE_EXHAUSTED, or a rate limit / quota message.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if code := statusCode(err); code != 0 {
		return code == http.StatusTooManyRequests
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "resource_exhausted") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "rate_limit") ||
		strings.Contains(errStr, "quota")
}

// IsRetryableError reports whether a failed call is worth repeating.
// Client errors (4xx other than 408 and 429) and credential failures are not.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	switch code := statusCode(err); {
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return true
	case code >= 400 && code < 500:
		return false
	case code >= 500:
		return true
	}
	if IsRateLimitError(err) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	for _, permanent := range []string{"invalid_api_key", "unauthorized", "permission_denied"} {
		if strings.Contains(errStr, permanent) {
			return false
		}
	}
	return true
}

// retryDelayRegex matches "Please retry in Xs" or "retryDelay:Xs" patterns
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |try again in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay parses the API-suggested retry delay from an error.
// Returns 0 if no delay is found in the error message.
//
// Example error message:
// "Error 429, Message: ... Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED"
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}

	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}

	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}

// CalculateBackoff computes the backoff duration for a given attempt.
// If apiDelay > 0 (from ExtractRetryDelay), it's used as the base.
// Otherwise, InitialBackoff is used. The result is capped at MaxBackoff.
func (c *RetryConfig) CalculateBackoff(attempt int, apiDelay time.Duration) time.Duration {
	base := c.InitialBackoff
	if apiDelay > 0 {
		// Use API-provided delay plus small buffer
		base = apiDelay + time.Second
	}

	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= c.BackoffMultiplier
	}

	backoff := time.Duration(float64(base) * multiplier)
	if backoff > c.MaxBackoff {
		backoff = c.MaxBackoff
	}

	return backoff
}

// withRetry calls fn until it succeeds, fails permanently, the retry budget
// is spent, or ctx is done.
func withRetry[T any](ctx context.Context, cfg *RetryConfig, logger arbor.ILogger, provider ProviderType, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}

		if attempt == cfg.MaxRetries || !IsRetryableError(err) {
			break
		}

		var backoff time.Duration
		if IsRateLimitError(err) {
			backoff = cfg.CalculateBackoff(attempt, ExtractRetryDelay(err))
		} else {
			backoff = time.Duration(attempt+1) * time.Second
			if backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}
		}

		logger.Warn().
			Str("provider", string(provider)).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(err).
			Msg("Retrying provider call")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return result, err
}
