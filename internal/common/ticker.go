// Package common provides shared utilities across the application.
package common

import (
	"fmt"
	"sort"
	"strings"
)

// Ticker represents a parsed exchange-qualified ticker.
// Format: EXCHANGE:CODE (e.g., "NSE:INFY", "NASDAQ:AAPL")
type Ticker struct {
	// Exchange is the exchange code (e.g., "NSE", "BSE", "NYSE")
	Exchange string
	// Code is the stock/security code (e.g., "INFY", "AAPL")
	Code string
	// Raw is the original ticker string
	Raw string
}

// ExchangeToSuffix maps exchange codes to EODHD API suffixes.
// Tickers on exchanges outside this table cannot be resolved for market data.
var ExchangeToSuffix = map[string]string{
	"NSE":    ".NSE",
	"BSE":    ".BSE",
	"ASX":    ".AU",
	"NYSE":   ".US",
	"NASDAQ": ".US",
	"LSE":    ".LSE",
	"TSX":    ".TO",
	"XETRA":  ".XETRA",
}

// yahooSuffixToExchange maps the CODE.SUFFIX style common on Yahoo Finance
// ("INFY.NS", "RELIANCE.BO") onto exchange codes.
var yahooSuffixToExchange = map[string]string{
	"NS":  "NSE",
	"NSE": "NSE",
	"BO":  "BSE",
	"BSE": "BSE",
	"AX":  "ASX",
	"AU":  "ASX",
	"US":  "NYSE",
	"L":   "LSE",
	"LSE": "LSE",
	"TO":  "TSX",
	"DE":  "XETRA",
}

// DefaultExchange is the default exchange used when parsing tickers without an exchange prefix.
// Overridden from [market_data] default_exchange during app initialization.
var DefaultExchange = "NSE"

// SetDefaultExchange sets the default exchange for parsing tickers.
func SetDefaultExchange(exchange string) {
	if exchange != "" {
		DefaultExchange = strings.ToUpper(exchange)
	}
}

// ParseTicker parses a ticker string using DefaultExchange for bare codes.
// Supports formats:
//   - "NSE:INFY" -> Exchange="NSE", Code="INFY" (colon separator)
//   - "NSE.INFY" -> Exchange="NSE", Code="INFY" (known exchange prefix)
//   - "INFY.NS"  -> Exchange="NSE", Code="INFY" (known market suffix)
//   - "infy"     -> Exchange=DefaultExchange, Code="INFY"
func ParseTicker(ticker string) Ticker {
	return ParseTickerWithDefault(ticker, DefaultExchange)
}

// ParseTickerWithDefault parses a ticker string, using defaultExchange for bare codes.
func ParseTickerWithDefault(ticker, defaultExchange string) Ticker {
	raw := ticker
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return Ticker{}
	}

	// EXCHANGE:CODE
	if idx := strings.Index(ticker, ":"); idx > 0 {
		return Ticker{
			Exchange: strings.ToUpper(ticker[:idx]),
			Code:     strings.ToUpper(ticker[idx+1:]),
			Raw:      raw,
		}
	}

	if idx := strings.Index(ticker, "."); idx > 0 {
		// EXCHANGE.CODE, only for known exchanges to avoid clashing with codes containing dots
		possibleExchange := strings.ToUpper(ticker[:idx])
		if _, ok := ExchangeToSuffix[possibleExchange]; ok {
			return Ticker{
				Exchange: possibleExchange,
				Code:     strings.ToUpper(ticker[idx+1:]),
				Raw:      raw,
			}
		}

		// CODE.SUFFIX
		lastDot := strings.LastIndex(ticker, ".")
		if exchange, ok := yahooSuffixToExchange[strings.ToUpper(ticker[lastDot+1:])]; ok && lastDot > 0 {
			return Ticker{
				Exchange: exchange,
				Code:     strings.ToUpper(ticker[:lastDot]),
				Raw:      raw,
			}
		}
	}

	return Ticker{
		Exchange: strings.ToUpper(defaultExchange),
		Code:     strings.ToUpper(ticker),
		Raw:      raw,
	}
}

// String returns the full exchange-qualified ticker string.
func (t Ticker) String() string {
	if t.Exchange == "" || t.Code == "" {
		return t.Code
	}
	return t.Exchange + ":" + t.Code
}

// EODHDSymbol returns the EODHD API symbol format.
// Example: "NSE:INFY" -> "INFY.NSE". An exchange missing from ExchangeToSuffix
// is a configuration error.
func (t Ticker) EODHDSymbol() (string, error) {
	if t.Code == "" {
		return "", &ConfigError{Field: "ticker", Reason: "empty ticker"}
	}
	suffix, ok := ExchangeToSuffix[t.Exchange]
	if !ok {
		return "", &ConfigError{
			Field:  "ticker",
			Reason: fmt.Sprintf("unsupported exchange %q for %s (supported: %s)", t.Exchange, t.Code, strings.Join(SupportedExchanges(), ", ")),
		}
	}
	return t.Code + suffix, nil
}

// SupportedExchanges lists the exchange codes in ExchangeToSuffix, sorted.
func SupportedExchanges() []string {
	names := make([]string, 0, len(ExchangeToSuffix))
	for k := range ExchangeToSuffix {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
