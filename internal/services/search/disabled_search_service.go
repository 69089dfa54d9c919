package search

import (
	"context"
	"errors"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/models"
)

// ErrSearchDisabled is returned when no search API key is configured
var ErrSearchDisabled = errors.New("search is disabled: set TAVILY_API_KEY or search.api_key in config")

// DisabledSearcher is used when no search credential is configured.
// Page fetches still work; every search returns ErrSearchDisabled.
type DisabledSearcher struct {
	logger arbor.ILogger
}

// NewDisabledSearcher creates a searcher that always fails with ErrSearchDisabled
func NewDisabledSearcher(logger arbor.ILogger) *DisabledSearcher {
	return &DisabledSearcher{
		logger: logger,
	}
}

// Search returns ErrSearchDisabled
func (s *DisabledSearcher) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	s.logger.Warn().
		Str("query", query).
		Msg("Search attempted but service is disabled (no API key)")
	return nil, ErrSearchDisabled
}
