// Package agents implements the forensic, ratio and concall insight agents.
//
// Every agent follows the same pattern: gather external data for a ticker,
// render a prompt, make one Narrative Generator call, and mine a structured
// record out of the reply with the heuristic extractor.
package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
)

// InsightAgent is the capability set each agent kind implements.
// D is the agent's gathered data and R its output record.
type InsightAgent[D any, R any] interface {
	// Kind identifies the agent
	Kind() models.AgentKind

	// GatherData collects external data for the ticker.
	// An error here is fatal to the agent run.
	GatherData(ctx context.Context, ticker string) (D, error)

	// Unavailable returns a labelled record when data is missing, short-circuiting the LLM call
	Unavailable(ticker string, data D) (R, bool)

	// BuildPrompt renders the analysis prompt
	BuildPrompt(data D) (string, error)

	// ParseReply converts the generated narrative into a record
	ParseReply(ticker string, data D, reply string) R
}

// Runner executes an InsightAgent with a single Narrative Generator call
type Runner[D any, R any] struct {
	agent     InsightAgent[D, R]
	generator interfaces.NarrativeGenerator
	logger    arbor.ILogger
}

// NewRunner creates a runner for an agent
func NewRunner[D any, R any](agent InsightAgent[D, R], generator interfaces.NarrativeGenerator, logger arbor.ILogger) *Runner[D, R] {
	return &Runner[D, R]{
		agent:     agent,
		generator: generator,
		logger:    logger,
	}
}

// Run gathers data, prompts the generator and parses the reply
func (r *Runner[D, R]) Run(ctx context.Context, ticker string) (R, error) {
	var zero R
	kind := r.agent.Kind()
	startTime := time.Now()

	r.logger.Debug().
		Str("agent", kind.String()).
		Str("ticker", ticker).
		Msg("Starting agent execution")

	data, err := r.agent.GatherData(ctx, ticker)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("agent", kind.String()).
			Str("ticker", ticker).
			Msg("Agent data gathering failed")
		return zero, err
	}

	if record, ok := r.agent.Unavailable(ticker, data); ok {
		r.logger.Warn().
			Str("agent", kind.String()).
			Str("ticker", ticker).
			Msg("Agent data unavailable, returning placeholder record")
		return record, nil
	}

	prompt, err := r.agent.BuildPrompt(data)
	if err != nil {
		return zero, fmt.Errorf("failed to build %s prompt: %w", strings.ToLower(kind.String()), err)
	}

	reply, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return zero, fmt.Errorf("%s analysis failed for %s: %w", strings.ToLower(kind.String()), ticker, err)
	}

	record := r.agent.ParseReply(ticker, data, strings.TrimSpace(reply))

	r.logger.Info().
		Str("agent", kind.String()).
		Str("ticker", ticker).
		Int("prompt_length", len(prompt)).
		Int("reply_length", len(reply)).
		Dur("duration", time.Since(startTime)).
		Msg("Agent execution completed")

	return record, nil
}

// MarketDataError reports a failed mandatory financial statement fetch
type MarketDataError struct {
	Ticker string
	Err    error
}

func (e *MarketDataError) Error() string {
	return fmt.Sprintf("unable to fetch financials for %s: %v", e.Ticker, e.Err)
}

func (e *MarketDataError) Unwrap() error {
	return e.Err
}
