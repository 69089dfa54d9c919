package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
	"github.com/ternarybob/fundalyst/internal/services/heuristics"
	"github.com/ternarybob/fundalyst/internal/templates"
)

// ReactForensicAgent runs the forensic analysis as a bounded action loop,
// letting the model issue its own searches before answering.
type ReactForensicAgent struct {
	data     *ForensicAgent
	loop     *ActionLoop
	template *templates.Template
	logger   arbor.ILogger
}

// NewReactForensicAgent creates the multi-turn forensic agent
func NewReactForensicAgent(market interfaces.MarketDataGateway, search interfaces.SearchGateway, generator interfaces.NarrativeGenerator, templatesDir string, maxIterations int, loopTimeout time.Duration, logger arbor.ILogger) (*ReactForensicAgent, error) {
	base, err := NewForensicAgent(market, search, templatesDir, logger)
	if err != nil {
		return nil, err
	}
	base.includeNews = false

	tmpl, err := templates.GetTemplate(templates.ForensicReact, templatesDir)
	if err != nil {
		return nil, err
	}

	return &ReactForensicAgent{
		data:     base,
		loop:     NewActionLoop(generator, search, maxIterations, loopTimeout, logger),
		template: tmpl,
		logger:   logger,
	}, nil
}

// Run gathers statements and drives the action loop
func (a *ReactForensicAgent) Run(ctx context.Context, ticker string) (*models.ForensicRecord, error) {
	startTime := time.Now()

	data, err := a.data.GatherData(ctx, ticker)
	if err != nil {
		return nil, err
	}

	system, err := a.template.Render(statementVars(ticker, data.Statements, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to build forensic prompt: %w", err)
	}

	result, err := a.loop.Run(ctx, system)
	if err != nil {
		return nil, fmt.Errorf("forensic analysis failed for %s: %w", ticker, err)
	}

	a.logger.Info().
		Str("agent", models.AgentForensic.String()).
		Str("ticker", ticker).
		Int("iterations", result.Iterations).
		Bool("exhausted", result.Exhausted).
		Dur("duration", time.Since(startTime)).
		Msg("Agent execution completed")

	return &models.ForensicRecord{
		Ticker:     ticker,
		Findings:   heuristics.DetectFindings(result.Answer),
		Narrative:  result.Answer,
		Iterations: result.Iterations,
		Exhausted:  result.Exhausted,
	}, nil
}
