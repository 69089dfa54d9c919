package marketdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/common"
	"github.com/ternarybob/fundalyst/internal/eodhd"
)

type mockClient struct {
	getFinancialsFunc func(ctx context.Context, symbol string) (*eodhd.FundamentalsResponse, error)
}

func (m *mockClient) GetFinancials(ctx context.Context, symbol string) (*eodhd.FundamentalsResponse, error) {
	return m.getFinancialsFunc(ctx, symbol)
}

func fixture() *eodhd.FundamentalsResponse {
	return &eodhd.FundamentalsResponse{
		General: &eodhd.GeneralInfo{Code: "INFY", CurrencyCode: "INR"},
		Financials: &eodhd.Financials{
			IncomeStatement: &eodhd.FinancialStatement{
				Yearly: map[string]map[string]interface{}{
					"2024-03-31": {"totalRevenue": "1536700000000", "netIncome": "262330000000"},
					"2022-03-31": {"totalRevenue": "1216410000000"},
					"2023-03-31": {"totalRevenue": "1467670000000", "netIncome": 241080000000.0},
				},
			},
			CashFlow: &eodhd.FinancialStatement{
				Yearly: map[string]map[string]interface{}{
					"2024-03-31": {"totalCashFromOperatingActivities": "252100000000"},
				},
			},
		},
	}
}

func TestFinancials(t *testing.T) {
	var requested string
	client := &mockClient{getFinancialsFunc: func(ctx context.Context, symbol string) (*eodhd.FundamentalsResponse, error) {
		requested = symbol
		return fixture(), nil
	}}

	svc := NewService(client, "NSE", 2, arbor.NewLogger())
	got, err := svc.Financials(context.Background(), "infy")
	require.NoError(t, err)

	assert.Equal(t, "INFY.NSE", requested)
	assert.Equal(t, "NSE:INFY", got.Ticker)
	assert.Equal(t, "INR", got.Currency)
	require.Len(t, got.Income.Periods, 2)
	assert.Equal(t, "2023-03-31", got.Income.Periods[0].Date)
	assert.Equal(t, "2024-03-31", got.Income.Periods[1].Date)
	assert.Equal(t, 262330000000.0, got.Income.Periods[1].Items["netIncome"])
	assert.Empty(t, got.Balance.Periods)
	assert.Len(t, got.CashFlow.Periods, 1)
}

func TestFinancialsErrors(t *testing.T) {
	t.Run("unsupported exchange", func(t *testing.T) {
		client := &mockClient{getFinancialsFunc: func(ctx context.Context, symbol string) (*eodhd.FundamentalsResponse, error) {
			t.Fatal("client must not be called")
			return nil, nil
		}}
		_, err := NewService(client, "NSE", 2, arbor.NewLogger()).Financials(context.Background(), "MOEX:SBER")

		var cfgErr *common.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "ticker", cfgErr.Field)
	})

	t.Run("api failure", func(t *testing.T) {
		apiErr := &eodhd.APIError{StatusCode: 404, Message: "Ticker Not Found.", Endpoint: "/fundamentals/NOPE.NSE"}
		client := &mockClient{getFinancialsFunc: func(ctx context.Context, symbol string) (*eodhd.FundamentalsResponse, error) {
			return nil, apiErr
		}}
		_, err := NewService(client, "NSE", 2, arbor.NewLogger()).Financials(context.Background(), "NOPE")
		assert.True(t, errors.Is(err, apiErr))
	})

	t.Run("empty statements", func(t *testing.T) {
		client := &mockClient{getFinancialsFunc: func(ctx context.Context, symbol string) (*eodhd.FundamentalsResponse, error) {
			return &eodhd.FundamentalsResponse{General: &eodhd.GeneralInfo{Code: "NEW"}}, nil
		}}
		_, err := NewService(client, "NSE", 2, arbor.NewLogger()).Financials(context.Background(), "NEW")
		assert.ErrorContains(t, err, "no financial statement data")
	})
}
