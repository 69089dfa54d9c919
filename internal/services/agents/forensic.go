package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
	"github.com/ternarybob/fundalyst/internal/services/heuristics"
	"github.com/ternarybob/fundalyst/internal/templates"
)

// statementPeriods is the number of recent annual periods shown to the model
const statementPeriods = 2

// ForensicData is the input to a forensic analysis
type ForensicData struct {
	Ticker     string
	Statements *models.FinancialStatements
	News       []models.SearchResult
}

// ForensicAgent looks for accounting red flags in financial statements and promoter news
type ForensicAgent struct {
	market      interfaces.MarketDataGateway
	search      interfaces.SearchGateway
	template    *templates.Template
	includeNews bool
	logger      arbor.ILogger
}

var _ InsightAgent[*ForensicData, *models.ForensicRecord] = (*ForensicAgent)(nil)

// NewForensicAgent creates the single-pass forensic agent
func NewForensicAgent(market interfaces.MarketDataGateway, search interfaces.SearchGateway, templatesDir string, logger arbor.ILogger) (*ForensicAgent, error) {
	tmpl, err := templates.GetTemplate(templates.Forensic, templatesDir)
	if err != nil {
		return nil, err
	}
	return &ForensicAgent{
		market:      market,
		search:      search,
		template:    tmpl,
		includeNews: true,
		logger:      logger,
	}, nil
}

// Kind returns FORENSIC
func (a *ForensicAgent) Kind() models.AgentKind {
	return models.AgentForensic
}

// PromoterNewsQuery is the search used for promoter-related news
func PromoterNewsQuery(ticker string) string {
	return fmt.Sprintf("%s promoter fraud audit red flags site:moneycontrol.com OR site:trendlyne.com", ticker)
}

// GatherData fetches financial statements (fatal on failure) and promoter news (best effort)
func (a *ForensicAgent) GatherData(ctx context.Context, ticker string) (*ForensicData, error) {
	statements, err := a.market.Financials(ctx, ticker)
	if err != nil {
		return nil, &MarketDataError{Ticker: ticker, Err: err}
	}

	data := &ForensicData{Ticker: ticker, Statements: statements}
	if !a.includeNews {
		return data, nil
	}

	news, err := a.search.Search(ctx, PromoterNewsQuery(ticker))
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("ticker", ticker).
			Msg("Promoter news search failed, continuing without news")
		return data, nil
	}
	data.News = news

	return data, nil
}

// Unavailable never short-circuits: statements are mandatory and already checked
func (a *ForensicAgent) Unavailable(ticker string, data *ForensicData) (*models.ForensicRecord, bool) {
	return nil, false
}

// BuildPrompt renders the forensic prompt
func (a *ForensicAgent) BuildPrompt(data *ForensicData) (string, error) {
	return a.template.Render(statementVars(data.Ticker, data.Statements, newsSnippets(data.News)))
}

// ParseReply applies the finding heuristic to the reply
func (a *ForensicAgent) ParseReply(ticker string, data *ForensicData, reply string) *models.ForensicRecord {
	return &models.ForensicRecord{
		Ticker:     ticker,
		Findings:   heuristics.DetectFindings(reply),
		Narrative:  reply,
		Iterations: 1,
	}
}

func statementVars(ticker string, s *models.FinancialStatements, news string) map[string]any {
	return map[string]any{
		"Ticker":   ticker,
		"Income":   s.Income.Table(statementPeriods),
		"CashFlow": s.CashFlow.Table(statementPeriods),
		"Balance":  s.Balance.Table(statementPeriods),
		"News":     news,
	}
}

func newsSnippets(results []models.SearchResult) string {
	if len(results) == 0 {
		return "(no news found)"
	}
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		if c := strings.TrimSpace(r.Content); c != "" {
			snippets = append(snippets, c)
		}
	}
	if len(snippets) == 0 {
		return "(no news found)"
	}
	return strings.Join(snippets, "\n")
}
