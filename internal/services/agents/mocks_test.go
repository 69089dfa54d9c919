package agents

import (
	"context"
	"errors"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
)

type mockGenerator struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
	chatFunc     func(ctx context.Context, messages []interfaces.Message) (string, error)
	prompts      []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.generateFunc(ctx, prompt)
}

func (m *mockGenerator) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return m.chatFunc(ctx, messages)
}

func replyWith(text string) *mockGenerator {
	return &mockGenerator{generateFunc: func(ctx context.Context, prompt string) (string, error) {
		return text, nil
	}}
}

type mockSearch struct {
	searchFunc    func(ctx context.Context, query string) ([]models.SearchResult, error)
	fetchFunc     func(ctx context.Context, url string) (string, error)
	fetchHTMLFunc func(ctx context.Context, url string) (string, error)
	queries       []string
}

func (m *mockSearch) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	m.queries = append(m.queries, query)
	if m.searchFunc == nil {
		return nil, nil
	}
	return m.searchFunc(ctx, query)
}

func (m *mockSearch) Fetch(ctx context.Context, url string) (string, error) {
	if m.fetchFunc == nil {
		return "", errors.New("not found")
	}
	return m.fetchFunc(ctx, url)
}

func (m *mockSearch) FetchHTML(ctx context.Context, url string) (string, error) {
	if m.fetchHTMLFunc == nil {
		return "", errors.New("not found")
	}
	return m.fetchHTMLFunc(ctx, url)
}

type mockMarket struct {
	financialsFunc func(ctx context.Context, ticker string) (*models.FinancialStatements, error)
}

func (m *mockMarket) Financials(ctx context.Context, ticker string) (*models.FinancialStatements, error) {
	return m.financialsFunc(ctx, ticker)
}

func sampleStatements() *models.FinancialStatements {
	return &models.FinancialStatements{
		Ticker: "NSE:INFY",
		Symbol: "INFY.NSE",
		Income: models.Statement{Name: "Income Statement", Periods: []models.StatementPeriod{
			{Date: "2023-03-31", Items: map[string]float64{"totalRevenue": 1467670, "netIncome": 241080}},
			{Date: "2024-03-31", Items: map[string]float64{"totalRevenue": 1536700, "netIncome": 262330}},
		}},
		CashFlow: models.Statement{Name: "Cash Flow", Periods: []models.StatementPeriod{
			{Date: "2024-03-31", Items: map[string]float64{"totalCashFromOperatingActivities": 252100}},
		}},
	}
}

func goodMarket() *mockMarket {
	return &mockMarket{financialsFunc: func(ctx context.Context, ticker string) (*models.FinancialStatements, error) {
		return sampleStatements(), nil
	}}
}

func failingMarket(err error) *mockMarket {
	return &mockMarket{financialsFunc: func(ctx context.Context, ticker string) (*models.FinancialStatements, error) {
		return nil, err
	}}
}
