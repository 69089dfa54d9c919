package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/common"
)

func TestTavilySearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)

		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tv-key", req.APIKey)
		assert.Equal(t, "INFY promoter news", req.Query)
		assert.Equal(t, 3, req.MaxResults)
		assert.Equal(t, "advanced", req.SearchDepth)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query": "INFY promoter news", "results": [
			{"url": "https://a.example/1", "title": "One", "content": "first", "score": 0.9},
			{"url": "https://b.example/2", "title": "Two", "content": "second", "score": 0.5}
		]}`))
	}))
	defer server.Close()

	client := NewTavilyClient("tv-key", arbor.NewLogger(),
		WithBaseURL(server.URL+"/"),
		WithMaxResults(3),
		WithSearchDepth("advanced"),
		WithInterval(time.Millisecond),
	)

	results, err := client.Search(context.Background(), "INFY promoter news")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://a.example/1", results[0].URL)
	assert.Equal(t, "second", results[1].Content)
}

func TestTavilySearchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": {"error": "Unauthorized: missing or invalid API key."}}`))
	}))
	defer server.Close()

	client := NewTavilyClient("bad", arbor.NewLogger(), WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), "x")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestFetch(t *testing.T) {
	long := strings.Repeat("word ", 50)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><nav>Menu</nav><main><p>Transcript text</p></main></body></html>`))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(long))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1024, 20, arbor.NewLogger())

	text, err := fetcher.Fetch(context.Background(), server.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "Transcript text", text)

	text, err = fetcher.Fetch(context.Background(), server.URL+"/plain")
	require.NoError(t, err)
	assert.Equal(t, 20, len([]rune(text)))

	_, err = fetcher.Fetch(context.Background(), server.URL+"/missing")
	assert.Error(t, err)

	raw, err := fetcher.FetchHTML(context.Background(), server.URL+"/page")
	require.NoError(t, err)
	assert.Contains(t, raw, "<nav>Menu</nav>")
}

func TestFetchBodyCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "", 1024, 10000, arbor.NewLogger())
	raw, err := fetcher.FetchHTML(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, raw, 1024)
}

func TestNewSearchServiceWithoutKey(t *testing.T) {
	cfg := common.NewDefaultConfig()
	svc := NewSearchService(cfg, arbor.NewLogger())

	_, err := svc.Search(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrSearchDisabled)
}
