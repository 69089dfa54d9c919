package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/common"
	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
	"github.com/ternarybob/fundalyst/internal/services/heuristics"
	"github.com/ternarybob/fundalyst/internal/services/transform"
	"github.com/ternarybob/fundalyst/internal/templates"
)

// screenerTableSelector locates the financials table on a Screener company page
const screenerTableSelector = "table.data-table"

// RatioData is the input to a Du Pont analysis
type RatioData struct {
	Ticker string
	Code   string
	Source models.RatioSource
	URL    string
	Table  string
}

// RatioAgent produces a Du Pont breakdown of ROE and ROCE
type RatioAgent struct {
	market      interfaces.MarketDataGateway
	search      interfaces.SearchGateway
	transformer *transform.Service
	template    *templates.Template
	logger      arbor.ILogger
}

var _ InsightAgent[*RatioData, *models.RatioRecord] = (*RatioAgent)(nil)

// NewRatioAgent creates the ratio agent
func NewRatioAgent(market interfaces.MarketDataGateway, search interfaces.SearchGateway, templatesDir string, logger arbor.ILogger) (*RatioAgent, error) {
	tmpl, err := templates.GetTemplate(templates.Ratio, templatesDir)
	if err != nil {
		return nil, err
	}
	return &RatioAgent{
		market:      market,
		search:      search,
		transformer: transform.NewService(logger),
		template:    tmpl,
		logger:      logger,
	}, nil
}

// Kind returns RATIO
func (a *RatioAgent) Kind() models.AgentKind {
	return models.AgentRatio
}

// ScreenerQuery is the search used to find a company's Screener page
func ScreenerQuery(code string) string {
	return fmt.Sprintf("%s consolidated Screener.in", code)
}

// IsScreenerURL reports whether url is a consolidated Screener company page
func IsScreenerURL(url string) bool {
	return strings.Contains(url, "screener.in/company") && strings.Contains(url, "consolidated")
}

// GatherData prefers the Screener financials table and falls back to market data statements
func (a *RatioAgent) GatherData(ctx context.Context, ticker string) (*RatioData, error) {
	code := common.ParseTicker(ticker).Code
	if code == "" {
		code = ticker
	}
	data := &RatioData{Ticker: ticker, Code: code}

	url, table, err := a.fetchScreener(ctx, code)
	if err == nil {
		data.Source = models.RatioSourceScreener
		data.URL = url
		data.Table = table
		return data, nil
	}

	a.logger.Debug().
		Err(err).
		Str("ticker", ticker).
		Msg("Screener data unavailable, falling back to market data")

	statements, err := a.market.Financials(ctx, ticker)
	if err != nil {
		return nil, &MarketDataError{Ticker: ticker, Err: err}
	}

	data.Source = models.RatioSourceMarketData
	data.Table = statementsMarkdown(statements)
	return data, nil
}

func (a *RatioAgent) fetchScreener(ctx context.Context, code string) (string, string, error) {
	results, err := a.search.Search(ctx, ScreenerQuery(code))
	if err != nil {
		return "", "", err
	}

	for _, r := range results {
		if !IsScreenerURL(r.URL) {
			continue
		}
		html, err := a.search.FetchHTML(ctx, r.URL)
		if err != nil {
			return "", "", err
		}
		table, err := a.transformer.TableToMarkdown(html, screenerTableSelector)
		if err != nil {
			return "", "", err
		}
		return r.URL, table, nil
	}

	return "", "", fmt.Errorf("could not fetch Screener data for %s", code)
}

// Unavailable never short-circuits: GatherData fails instead
func (a *RatioAgent) Unavailable(ticker string, data *RatioData) (*models.RatioRecord, bool) {
	return nil, false
}

// BuildPrompt renders the Du Pont prompt
func (a *RatioAgent) BuildPrompt(data *RatioData) (string, error) {
	return a.template.Render(map[string]any{
		"Ticker": data.Code,
		"Source": string(data.Source),
		"Table":  data.Table,
	})
}

// ParseReply extracts the per-year breakdown from the reply
func (a *RatioAgent) ParseReply(ticker string, data *RatioData, reply string) *models.RatioRecord {
	return &models.RatioRecord{
		Ticker:    ticker,
		Breakdown: heuristics.ExtractDupont(reply),
		Narrative: reply,
		Source:    data.Source,
	}
}

func statementsMarkdown(s *models.FinancialStatements) string {
	var b strings.Builder
	for _, st := range []models.Statement{s.Income, s.Balance, s.CashFlow} {
		b.WriteString(st.Name)
		b.WriteString(":\n")
		b.WriteString(st.Table(0))
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
