package search

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/common"
)

// NewSearchService creates the search gateway from configuration.
// Without an API key the gateway is built around DisabledSearcher: page fetches
// still work and every search returns ErrSearchDisabled.
func NewSearchService(config *common.Config, logger arbor.ILogger) *Service {
	fetcher := NewFetcher(
		common.MustDuration(config.Search.RequestTimeout, DefaultSearchTimeout),
		config.Search.UserAgent,
		config.Search.MaxBodyBytes,
		config.Search.MaxContentChars,
		logger,
	)

	if config.Search.APIKey == "" {
		logger.Warn().Msg("No search API key configured: using disabled searcher")
		return NewService(NewDisabledSearcher(logger), fetcher, logger)
	}

	client := NewTavilyClient(config.Search.APIKey, logger,
		WithBaseURL(config.Search.BaseURL),
		WithMaxResults(config.Search.MaxResults),
		WithSearchDepth(config.Search.SearchDepth),
		WithInterval(common.MustDuration(config.Search.RateLimit, DefaultInterval)),
	)

	logger.Debug().
		Str("base_url", config.Search.BaseURL).
		Int("max_results", config.Search.MaxResults).
		Msg("Search service initialized")

	return NewService(client, fetcher, logger)
}
