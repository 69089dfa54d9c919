package search

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
)

// Searcher runs web searches
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// Service implements interfaces.SearchGateway over a search API and a page fetcher
type Service struct {
	searcher Searcher
	fetcher  *Fetcher
	logger   arbor.ILogger
}

var _ interfaces.SearchGateway = (*Service)(nil)

// NewService creates a search gateway
func NewService(searcher Searcher, fetcher *Fetcher, logger arbor.ILogger) *Service {
	return &Service{
		searcher: searcher,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// Search runs a web search
func (s *Service) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Search failed")
		return nil, err
	}
	return results, nil
}

// Fetch retrieves a page as readable text
func (s *Service) Fetch(ctx context.Context, url string) (string, error) {
	return s.fetcher.Fetch(ctx, url)
}

// FetchHTML retrieves a page's raw HTML
func (s *Service) FetchHTML(ctx context.Context, url string) (string, error) {
	return s.fetcher.FetchHTML(ctx, url)
}
