package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and logs the resolved setup
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.Print("Fundalyst", GetVersion())

	logger.Info().
		Str("version", GetFullVersion()).
		Str("environment", config.Environment).
		Str("llm_provider", string(config.LLM.DefaultProvider)).
		Str("router_model", config.LLM.RouterModel).
		Str("analysis_model", config.LLM.AnalysisModel).
		Str("default_exchange", config.MarketData.DefaultExchange).
		Msg("Fundalyst starting")
}
