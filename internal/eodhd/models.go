package eodhd

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// FundamentalsResponse represents the sections of /fundamentals used for analysis.
type FundamentalsResponse struct {
	General    *GeneralInfo `json:"General"`
	Financials *Financials  `json:"Financials"`
}

// GeneralInfo contains general company information.
type GeneralInfo struct {
	Code          string `json:"Code"`
	Name          string `json:"Name"`
	Exchange      string `json:"Exchange"`
	CurrencyCode  string `json:"CurrencyCode"`
	CountryName   string `json:"CountryName"`
	FiscalYearEnd string `json:"FiscalYearEnd"`
	Sector        string `json:"Sector"`
	Industry      string `json:"Industry"`
}

// Financials contains financial statements.
type Financials struct {
	BalanceSheet    *FinancialStatement `json:"Balance_Sheet"`
	CashFlow        *FinancialStatement `json:"Cash_Flow"`
	IncomeStatement *FinancialStatement `json:"Income_Statement"`
}

// FinancialStatement represents a financial statement with quarterly and yearly data.
type FinancialStatement struct {
	Currency  string                            `json:"currency"`
	Quarterly map[string]map[string]interface{} `json:"quarterly"`
	Yearly    map[string]map[string]interface{} `json:"yearly"`
}

// skippedFields are period metadata rather than line items.
var skippedFields = map[string]bool{
	"date":            true,
	"filing_date":     true,
	"currency_symbol": true,
}

// YearlyPeriods returns the yearly line items keyed by period date, oldest first.
// Only the most recent n periods are kept when n > 0. Non-numeric values are dropped.
func (s *FinancialStatement) YearlyPeriods(n int) ([]string, map[string]map[string]float64) {
	if s == nil || len(s.Yearly) == 0 {
		return nil, nil
	}

	dates := make([]string, 0, len(s.Yearly))
	for date := range s.Yearly {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if n > 0 && len(dates) > n {
		dates = dates[len(dates)-n:]
	}

	values := make(map[string]map[string]float64, len(dates))
	for _, date := range dates {
		items := make(map[string]float64)
		for field, raw := range s.Yearly[date] {
			if skippedFields[field] {
				continue
			}
			if v, ok := toFloat(raw); ok {
				items[field] = v
			}
		}
		values[date] = items
	}

	return dates, values
}

// toFloat converts the mixed string/number encoding EODHD uses for amounts
func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}
