package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// StatementPeriod is one reporting period of a financial statement.
type StatementPeriod struct {
	Date  string             `json:"date"`
	Items map[string]float64 `json:"items"`
}

// Statement is a financial statement ordered by period date ascending.
type Statement struct {
	Name    string            `json:"name"`
	Periods []StatementPeriod `json:"periods"`
}

// FinancialStatements bundles the annual statements for a ticker.
type FinancialStatements struct {
	Ticker   string    `json:"ticker"`
	Symbol   string    `json:"symbol"`
	Currency string    `json:"currency,omitempty"`
	Income   Statement `json:"income_statement"`
	Balance  Statement `json:"balance_sheet"`
	CashFlow Statement `json:"cash_flow"`
}

// IsEmpty reports whether no statement carries any period.
func (f *FinancialStatements) IsEmpty() bool {
	if f == nil {
		return true
	}
	return len(f.Income.Periods) == 0 && len(f.Balance.Periods) == 0 && len(f.CashFlow.Periods) == 0
}

// Latest returns the last n periods (all periods if fewer exist).
func (s Statement) Latest(n int) []StatementPeriod {
	if n <= 0 || n >= len(s.Periods) {
		return s.Periods
	}
	return s.Periods[len(s.Periods)-n:]
}

// Table renders the latest n periods as a markdown table with one line item
// per row and one period per column. Rows are sorted by name so the output is
// stable across calls.
func (s Statement) Table(n int) string {
	periods := s.Latest(n)
	if len(periods) == 0 {
		return "(no data)"
	}

	nameSet := make(map[string]bool)
	for _, p := range periods {
		for k := range p.Items {
			nameSet[k] = true
		}
	}
	names := make([]string, 0, len(nameSet))
	for k := range nameSet {
		names = append(names, k)
	}
	sort.Strings(names)

	w := table.NewWriter()
	header := table.Row{"item"}
	cols := make([]table.ColumnConfig, 0, len(periods))
	for i, p := range periods {
		header = append(header, p.Date)
		cols = append(cols, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	w.AppendHeader(header)
	w.SetColumnConfigs(cols)

	for _, name := range names {
		row := table.Row{name}
		for _, p := range periods {
			v, ok := p.Items[name]
			if !ok {
				row = append(row, "NaN")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", v))
		}
		w.AppendRow(row)
	}

	return strings.TrimRight(w.RenderMarkdown(), "\n")
}
