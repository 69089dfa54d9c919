package common

import (
	"errors"
	"testing"
)

func TestParseTicker(t *testing.T) {
	// Ensure default exchange is NSE for these tests
	originalDefault := DefaultExchange
	DefaultExchange = "NSE"
	defer func() { DefaultExchange = originalDefault }()

	tests := []struct {
		input        string
		wantExchange string
		wantCode     string
		wantString   string
		wantEODHD    string
	}{
		// Exchange-qualified format with colon separator
		{"NSE:INFY", "NSE", "INFY", "NSE:INFY", "INFY.NSE"},
		{"BSE:500209", "BSE", "500209", "BSE:500209", "500209.BSE"},
		{"NASDAQ:MSFT", "NASDAQ", "MSFT", "NASDAQ:MSFT", "MSFT.US"},

		// Known exchange prefix with dot separator
		{"NSE.TCS", "NSE", "TCS", "NSE:TCS", "TCS.NSE"},
		{"ASX.BHP", "ASX", "BHP", "ASX:BHP", "BHP.AU"},

		// Market suffix
		{"INFY.NS", "NSE", "INFY", "NSE:INFY", "INFY.NSE"},
		{"RELIANCE.BO", "BSE", "RELIANCE", "BSE:RELIANCE", "RELIANCE.BSE"},
		{"cba.ax", "ASX", "CBA", "ASX:CBA", "CBA.AU"},

		// Bare code uses default exchange
		{"INFY", "NSE", "INFY", "NSE:INFY", "INFY.NSE"},
		{"  hdfcbank ", "NSE", "HDFCBANK", "NSE:HDFCBANK", "HDFCBANK.NSE"},

		// Unknown suffix stays part of the code
		{"BRK.B", "NSE", "BRK.B", "NSE:BRK.B", "BRK.B.NSE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseTicker(tt.input)

			if result.Exchange != tt.wantExchange {
				t.Errorf("Exchange = %q, want %q", result.Exchange, tt.wantExchange)
			}
			if result.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", result.Code, tt.wantCode)
			}
			if result.String() != tt.wantString {
				t.Errorf("String() = %q, want %q", result.String(), tt.wantString)
			}
			symbol, err := result.EODHDSymbol()
			if err != nil {
				t.Fatalf("EODHDSymbol() error = %v", err)
			}
			if symbol != tt.wantEODHD {
				t.Errorf("EODHDSymbol() = %q, want %q", symbol, tt.wantEODHD)
			}
		})
	}
}

func TestParseTicker_Empty(t *testing.T) {
	result := ParseTicker("   ")
	if result.Code != "" || result.Exchange != "" {
		t.Errorf("expected empty ticker, got %+v", result)
	}
	if _, err := result.EODHDSymbol(); err == nil {
		t.Error("expected error for empty ticker")
	}
}

func TestEODHDSymbol_UnsupportedExchange(t *testing.T) {
	ticker := ParseTickerWithDefault("HKEX:0700", "NSE")

	_, err := ticker.EODHDSymbol()
	if err == nil {
		t.Fatal("expected error for unsupported exchange")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if cfgErr.Field != "ticker" {
		t.Errorf("Field = %q, want %q", cfgErr.Field, "ticker")
	}
}

func TestSetDefaultExchange(t *testing.T) {
	originalDefault := DefaultExchange
	defer func() { DefaultExchange = originalDefault }()

	SetDefaultExchange("bse")
	if got := ParseTicker("TCS").Exchange; got != "BSE" {
		t.Errorf("Exchange = %q, want BSE", got)
	}

	SetDefaultExchange("")
	if DefaultExchange != "BSE" {
		t.Errorf("empty exchange should not change default, got %q", DefaultExchange)
	}
}
