package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/services/heuristics"
	"github.com/ternarybob/fundalyst/internal/services/transform"
)

const (
	// DefaultUserAgent is sent with page fetches.
	DefaultUserAgent = "Mozilla/5.0 (compatible; Fundalyst/1.0)"

	// DefaultMaxBodyBytes caps fetched page size.
	DefaultMaxBodyBytes int64 = 5 * 1024 * 1024

	// DefaultMaxContentChars caps the readable text returned by Fetch.
	DefaultMaxContentChars = 10000
)

// Fetcher retrieves web pages and converts them to readable text.
type Fetcher struct {
	httpClient      *http.Client
	userAgent       string
	maxBodyBytes    int64
	maxContentChars int
	transformer     *transform.Service
	logger          arbor.ILogger
}

// NewFetcher creates a page fetcher.
func NewFetcher(timeout time.Duration, userAgent string, maxBodyBytes int64, maxContentChars int, logger arbor.ILogger) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if maxContentChars <= 0 {
		maxContentChars = DefaultMaxContentChars
	}
	return &Fetcher{
		httpClient:      &http.Client{Timeout: timeout},
		userAgent:       userAgent,
		maxBodyBytes:    maxBodyBytes,
		maxContentChars: maxContentChars,
		transformer:     transform.NewService(logger),
		logger:          logger,
	}
}

// FetchHTML retrieves a page body, capped at the configured size.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}

	f.logger.Debug().
		Str("url", url).
		Int("bytes", len(body)).
		Str("content_type", resp.Header.Get("Content-Type")).
		Msg("Fetched page")

	return string(body), nil
}

// Fetch retrieves a page and returns its readable text, truncated to the content limit.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.FetchHTML(ctx, url)
	if err != nil {
		return "", err
	}

	text := body
	if looksLikeHTML(body) {
		text, err = f.transformer.HTMLToMarkdown(body, url)
		if err != nil {
			return "", fmt.Errorf("failed to convert %s: %w", url, err)
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no readable content at %s", url)
	}

	return heuristics.Truncate(text, f.maxContentChars), nil
}

func looksLikeHTML(body string) bool {
	head := strings.ToLower(heuristics.Truncate(strings.TrimSpace(body), 512))
	return strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html") ||
		strings.Contains(head, "<body") || strings.Contains(head, "<div") || strings.Contains(head, "<p")
}
