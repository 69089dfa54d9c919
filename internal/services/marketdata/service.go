// Package marketdata adapts EODHD fundamentals into annual financial statements.
package marketdata

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/common"
	"github.com/ternarybob/fundalyst/internal/eodhd"
	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
)

// FundamentalsClient is the subset of the EODHD client the gateway needs
type FundamentalsClient interface {
	GetFinancials(ctx context.Context, symbol string) (*eodhd.FundamentalsResponse, error)
}

// Service implements interfaces.MarketDataGateway
type Service struct {
	client          FundamentalsClient
	defaultExchange string
	periods         int
	logger          arbor.ILogger
}

var _ interfaces.MarketDataGateway = (*Service)(nil)

// NewService creates a market data gateway.
// periods limits each statement to the most recent n years (0 keeps all).
func NewService(client FundamentalsClient, defaultExchange string, periods int, logger arbor.ILogger) *Service {
	return &Service{
		client:          client,
		defaultExchange: defaultExchange,
		periods:         periods,
		logger:          logger,
	}
}

// NewFromConfig creates the EODHD client and gateway from configuration
func NewFromConfig(cfg *common.Config, logger arbor.ILogger) *Service {
	client := eodhd.NewClient(cfg.MarketData.APIKey,
		eodhd.WithBaseURL(cfg.MarketData.BaseURL),
		eodhd.WithRateLimit(cfg.MarketData.RateLimit),
		eodhd.WithTimeout(common.MustDuration(cfg.MarketData.Timeout, eodhd.DefaultTimeout)),
		eodhd.WithLogger(logger),
	)
	return NewService(client, cfg.MarketData.DefaultExchange, cfg.MarketData.Periods, logger)
}

// Financials returns annual statements for a ticker, oldest period first.
// An unsupported exchange is returned as a *common.ConfigError.
func (s *Service) Financials(ctx context.Context, ticker string) (*models.FinancialStatements, error) {
	parsed := common.ParseTickerWithDefault(ticker, s.defaultExchange)
	symbol, err := parsed.EODHDSymbol()
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("ticker", ticker).
		Str("symbol", symbol).
		Msg("Fetching financial statements")

	resp, err := s.client.GetFinancials(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fundamentals for %s: %w", symbol, err)
	}

	statements := &models.FinancialStatements{
		Ticker: parsed.String(),
		Symbol: symbol,
	}
	if resp.General != nil {
		statements.Currency = resp.General.CurrencyCode
	}

	if resp.Financials != nil {
		statements.Income = toStatement("Income Statement", resp.Financials.IncomeStatement, s.periods)
		statements.Balance = toStatement("Balance Sheet", resp.Financials.BalanceSheet, s.periods)
		statements.CashFlow = toStatement("Cash Flow", resp.Financials.CashFlow, s.periods)
		if statements.Currency == "" && resp.Financials.IncomeStatement != nil {
			statements.Currency = resp.Financials.IncomeStatement.Currency
		}
	}

	if statements.IsEmpty() {
		return nil, fmt.Errorf("no financial statement data available for %s", symbol)
	}

	s.logger.Debug().
		Str("symbol", symbol).
		Int("income_periods", len(statements.Income.Periods)).
		Int("balance_periods", len(statements.Balance.Periods)).
		Int("cashflow_periods", len(statements.CashFlow.Periods)).
		Msg("Financial statements loaded")

	return statements, nil
}

func toStatement(name string, src *eodhd.FinancialStatement, periods int) models.Statement {
	statement := models.Statement{Name: name}
	dates, values := src.YearlyPeriods(periods)
	for _, date := range dates {
		statement.Periods = append(statement.Periods, models.StatementPeriod{
			Date:  date,
			Items: values[date],
		})
	}
	return statement
}
