package agents

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/common"
	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
)

// Forensic modes
const (
	ForensicModeSingle = "single"
	ForensicModeReact  = "react"
)

// Service owns the three insight agents
type Service struct {
	forensic      *Runner[*ForensicData, *models.ForensicRecord]
	forensicReact *ReactForensicAgent
	ratio         *Runner[*RatioData, *models.RatioRecord]
	concall       *Runner[*ConcallData, *models.ConcallRecord]
	logger        arbor.ILogger
}

// NewService builds every agent from configuration
func NewService(config *common.AgentsConfig, generator interfaces.NarrativeGenerator, search interfaces.SearchGateway, market interfaces.MarketDataGateway, logger arbor.ILogger) (*Service, error) {
	forensic, err := NewForensicAgent(market, search, config.TemplatesDir, logger)
	if err != nil {
		return nil, err
	}
	ratio, err := NewRatioAgent(market, search, config.TemplatesDir, logger)
	if err != nil {
		return nil, err
	}
	concall, err := NewConcallAgent(search, config.TemplatesDir, logger)
	if err != nil {
		return nil, err
	}

	service := &Service{
		forensic: NewRunner[*ForensicData, *models.ForensicRecord](forensic, generator, logger),
		ratio:    NewRunner[*RatioData, *models.RatioRecord](ratio, generator, logger),
		concall:  NewRunner[*ConcallData, *models.ConcallRecord](concall, generator, logger),
		logger:   logger,
	}

	if config.Forensic.Mode == ForensicModeReact {
		loopTimeout := common.MustDuration(config.Forensic.LoopTimeout, DefaultLoopTimeout)
		service.forensicReact, err = NewReactForensicAgent(market, search, generator, config.TemplatesDir, config.Forensic.MaxIterations, loopTimeout, logger)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug().
		Str("forensic_mode", config.Forensic.Mode).
		Msg("Insight agents initialized")

	return service, nil
}

// Forensic runs the forensic agent
func (s *Service) Forensic(ctx context.Context, ticker string) (*models.ForensicRecord, error) {
	if s.forensicReact != nil {
		return s.forensicReact.Run(ctx, ticker)
	}
	return s.forensic.Run(ctx, ticker)
}

// Ratio runs the ratio agent
func (s *Service) Ratio(ctx context.Context, ticker string) (*models.RatioRecord, error) {
	return s.ratio.Run(ctx, ticker)
}

// Concall runs the concall agent
func (s *Service) Concall(ctx context.Context, ticker string) (*models.ConcallRecord, error) {
	return s.concall.Run(ctx, ticker)
}
