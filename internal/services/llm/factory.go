package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/common"
)

// Services holds the model-bound generators used by the analysis pipeline
type Services struct {
	Factory  *ProviderFactory
	Router   *Service
	Analysis *Service
	Summary  *Service
}

// NewServices creates the router, analysis and summary generators from configuration.
// Credentials for every provider the configured models need are checked up front.
func NewServices(cfg *common.Config, logger arbor.ILogger) (*Services, error) {
	factory := NewProviderFactory(cfg, logger)

	required := factory.RequiredProviders(cfg.LLM.RouterModel, cfg.LLM.AnalysisModel, cfg.LLM.SummaryModel)
	if err := cfg.RequireCredentials(required, false); err != nil {
		return nil, err
	}

	temperature := cfg.LLM.Temperature

	services := &Services{
		Factory:  factory,
		Router:   NewService(factory, cfg.LLM.RouterModel, temperature, logger),
		Analysis: NewService(factory, cfg.LLM.AnalysisModel, temperature, logger),
		Summary:  NewService(factory, cfg.LLM.SummaryModel, temperature, logger).WithMaxTokens(cfg.LLM.SummaryTokens),
	}

	logger.Info().
		Str("router_model", cfg.LLM.RouterModel).
		Str("analysis_model", cfg.LLM.AnalysisModel).
		Str("summary_model", cfg.LLM.SummaryModel).
		Int("summary_max_tokens", cfg.LLM.SummaryTokens).
		Msg("LLM services initialized")

	return services, nil
}

// Close releases provider clients
func (s *Services) Close() error {
	if s == nil || s.Factory == nil {
		return nil
	}
	if err := s.Factory.Close(); err != nil {
		return fmt.Errorf("failed to close provider factory: %w", err)
	}
	return nil
}
