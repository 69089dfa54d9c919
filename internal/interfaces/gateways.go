package interfaces

import (
	"context"

	"github.com/ternarybob/fundalyst/internal/models"
)

// SearchGateway provides web search and page retrieval.
type SearchGateway interface {
	// Search runs a web search and returns ranked results.
	Search(ctx context.Context, query string) ([]models.SearchResult, error)

	// Fetch retrieves a page and returns its readable text content.
	Fetch(ctx context.Context, url string) (string, error)

	// FetchHTML retrieves a page and returns the raw HTML body.
	FetchHTML(ctx context.Context, url string) (string, error)
}

// MarketDataGateway provides financial statements for a ticker.
type MarketDataGateway interface {
	// Financials returns annual income, balance sheet and cash flow statements.
	// An error is returned when no statement data exists for the ticker.
	Financials(ctx context.Context, ticker string) (*models.FinancialStatements, error)
}
