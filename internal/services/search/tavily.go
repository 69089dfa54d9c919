package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/fundalyst/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the Tavily search API.
	DefaultBaseURL = "https://api.tavily.com"

	// DefaultInterval is the minimum gap between search calls.
	DefaultInterval = 500 * time.Millisecond

	// DefaultSearchTimeout is the HTTP timeout for search calls.
	DefaultSearchTimeout = 30 * time.Second
)

// APIError represents a non-200 response from the search API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search API error: %s (status: %d)", e.Message, e.StatusCode)
}

// TavilyClient calls the Tavily search API.
type TavilyClient struct {
	baseURL     string
	apiKey      string
	maxResults  int
	searchDepth string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      arbor.ILogger
}

// TavilyOption configures the TavilyClient.
type TavilyOption func(*TavilyClient)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) TavilyOption {
	return func(c *TavilyClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithMaxResults sets the number of results requested per search.
func WithMaxResults(n int) TavilyOption {
	return func(c *TavilyClient) {
		c.maxResults = n
	}
}

// WithSearchDepth sets "basic" or "advanced" search depth.
func WithSearchDepth(depth string) TavilyOption {
	return func(c *TavilyClient) {
		c.searchDepth = depth
	}
}

// WithInterval sets the minimum gap between search calls.
func WithInterval(interval time.Duration) TavilyOption {
	return func(c *TavilyClient) {
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) TavilyOption {
	return func(c *TavilyClient) {
		c.httpClient = httpClient
	}
}

// NewTavilyClient creates a new search API client.
func NewTavilyClient(apiKey string, logger arbor.ILogger, opts ...TavilyOption) *TavilyClient {
	c := &TavilyClient{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		maxResults:  5,
		searchDepth: "basic",
		httpClient:  &http.Client{Timeout: DefaultSearchTimeout},
		limiter:     rate.NewLimiter(rate.Every(DefaultInterval), 1),
		logger:      logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Query   string `json:"query"`
	Results []struct {
		URL     string  `json:"url"`
		Title   string  `json:"title"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search runs a web search and returns results in ranked order.
func (c *TavilyClient) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      c.apiKey,
		Query:       query,
		MaxResults:  c.maxResults,
		SearchDepth: c.searchDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Str("query", query).
		Int("max_results", c.maxResults).
		Msg("Search API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, models.SearchResult{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
			Score:   r.Score,
		})
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("Search API response")

	return results, nil
}
