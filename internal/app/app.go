// -----------------------------------------------------------------------
// Application wiring - builds the analysis pipeline from configuration
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/fundalyst/internal/common"
	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
	"github.com/ternarybob/fundalyst/internal/services/agents"
	"github.com/ternarybob/fundalyst/internal/services/documents"
	"github.com/ternarybob/fundalyst/internal/services/llm"
	"github.com/ternarybob/fundalyst/internal/services/marketdata"
	"github.com/ternarybob/fundalyst/internal/services/pdf"
	"github.com/ternarybob/fundalyst/internal/services/report"
	"github.com/ternarybob/fundalyst/internal/services/router"
	"github.com/ternarybob/fundalyst/internal/services/scoring"
	"github.com/ternarybob/fundalyst/internal/services/search"
)

// demoMarketDataKey is the public EODHD key, limited to a handful of symbols
const demoMarketDataKey = "demo"

// App holds the analysis pipeline and its collaborators
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Router  interfaces.QueryRouter
	Agents  interfaces.InsightAgents
	Scorer  interfaces.ScoringEngine
	Reports *report.Service

	// Document Q&A collaborators
	Embedder  interfaces.Embedder
	Extractor interfaces.PDFExtractor
	Generator interfaces.NarrativeGenerator

	llm *llm.Services

	// searchErr is the missing-credential error reported by analysis runs
	// when no search key is configured. Routing and document Q&A never search.
	searchErr error
}

// New builds every service from configuration. A missing LLM credential is
// returned as a *common.ConfigError; a missing search key only disables analysis.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	common.SetDefaultExchange(cfg.MarketData.DefaultExchange)

	searchErr := cfg.RequireCredentials(nil, true)
	if searchErr != nil {
		logger.Warn().Msg("No search API key configured: analysis is disabled, routing and document Q&A still work")
	}

	if cfg.MarketData.APIKey == "" {
		logger.Warn().Msg("No EODHD API key configured: using the demo key, most tickers will be unavailable")
		cfg.MarketData.APIKey = demoMarketDataKey
	}

	llmServices, err := llm.NewServices(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Extractor: pdf.NewExtractor(logger),
		Generator: llmServices.Analysis,
		Reports:   report.NewService(pdf.NewRenderer(logger), logger),
		llm:       llmServices,
		searchErr: searchErr,
	}

	if err := app.initServices(llmServices); err != nil {
		_ = llmServices.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info().
		Bool("parallel_agents", cfg.Agents.Parallel).
		Str("forensic_mode", cfg.Agents.Forensic.Mode).
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initServices(llmServices *llm.Services) error {
	searchService := search.NewSearchService(a.Config, a.Logger)
	marketService := marketdata.NewFromConfig(a.Config, a.Logger)

	agentService, err := agents.NewService(&a.Config.Agents, llmServices.Analysis, searchService, marketService, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create agents: %w", err)
	}
	a.Agents = agentService

	routerService, err := router.NewService(llmServices.Router, a.Config.Agents.TemplatesDir, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}
	a.Router = routerService

	weights := scoring.Weights{
		Forensic: a.Config.Scoring.ForensicWeight,
		Ratio:    a.Config.Scoring.RatioWeight,
		Concall:  a.Config.Scoring.ConcallWeight,
	}
	engine, err := scoring.NewEngine(llmServices.Summary, weights, a.Logger)
	if err != nil {
		return &common.ConfigError{Field: "scoring", Reason: err.Error()}
	}
	a.Scorer = engine

	embedder, err := llm.NewEmbedder(llmServices.Factory, a.Config, a.Logger)
	if err != nil {
		return err
	}
	a.Embedder = embedder

	return nil
}

// Route classifies a query without running any agent
func (a *App) Route(ctx context.Context, query string) models.RouteDecision {
	return a.Router.Route(ctx, query)
}

// Analyze routes the query, runs the selected agents and scores the results
func (a *App) Analyze(ctx context.Context, query, ticker string) (*models.Analysis, error) {
	return a.analyze(ctx, query, ticker, nil)
}

// AnalyzeWithAgents runs the given agents without consulting the router
func (a *App) AnalyzeWithAgents(ctx context.Context, query, ticker string, kinds []models.AgentKind) (*models.Analysis, error) {
	if len(kinds) == 0 {
		return a.analyze(ctx, query, ticker, nil)
	}
	decision := models.NewRouteDecision(kinds, "Agents selected by caller")
	return a.analyze(ctx, query, ticker, &decision)
}

func (a *App) analyze(ctx context.Context, query, ticker string, decision *models.RouteDecision) (*models.Analysis, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, &common.ConfigError{Field: "ticker", Reason: "a ticker is required"}
	}
	if a.searchErr != nil {
		return nil, a.searchErr
	}

	requestID := common.NewRequestID()
	logger := a.Logger.WithCorrelationId(requestID)
	start := time.Now()

	analysis := &models.Analysis{
		RequestID: requestID,
		Query:     query,
		Ticker:    ticker,
		StartedAt: start,
	}

	if decision != nil {
		analysis.Route = *decision
	} else {
		analysis.Route = a.Router.Route(ctx, query)
	}

	logger.Info().
		Str("ticker", ticker).
		Strs("agents", agentNames(analysis.Route.Agents)).
		Str("reason", analysis.Route.Reason).
		Msg("Query routed")

	if err := a.runAgents(ctx, logger, analysis); err != nil {
		logger.Error().Err(err).Str("ticker", ticker).Msg("Agent run failed")
		return nil, err
	}

	card, err := a.Scorer.Score(ctx, ticker, analysis.Forensic, analysis.Ratio, analysis.Concall)
	if err != nil {
		logger.Error().Err(err).Str("ticker", ticker).Msg("Scoring failed")
		return nil, err
	}
	analysis.Scorecard = card
	analysis.Duration = time.Since(start)

	logger.Info().
		Str("ticker", ticker).
		Int("total_score", card.TotalScore).
		Str("verdict", string(card.Verdict)).
		Dur("duration", analysis.Duration).
		Msg("Analysis complete")

	return analysis, nil
}

// runAgents fills the records of the selected agents. With agents.parallel the
// agents run concurrently and the first failure cancels the rest.
func (a *App) runAgents(ctx context.Context, logger arbor.ILogger, analysis *models.Analysis) error {
	ticker := analysis.Ticker

	tasks := make(map[models.AgentKind]func(context.Context) error, 3)
	if analysis.Route.Has(models.AgentForensic) {
		tasks[models.AgentForensic] = func(ctx context.Context) (err error) {
			analysis.Forensic, err = a.Agents.Forensic(ctx, ticker)
			return err
		}
	}
	if analysis.Route.Has(models.AgentRatio) {
		tasks[models.AgentRatio] = func(ctx context.Context) (err error) {
			analysis.Ratio, err = a.Agents.Ratio(ctx, ticker)
			return err
		}
	}
	if analysis.Route.Has(models.AgentConcall) {
		tasks[models.AgentConcall] = func(ctx context.Context) (err error) {
			analysis.Concall, err = a.Agents.Concall(ctx, ticker)
			return err
		}
	}

	run := func(ctx context.Context, kind models.AgentKind) error {
		start := time.Now()
		err := common.RunGuarded(logger, strings.ToLower(kind.AgentName()), func() error {
			return tasks[kind](ctx)
		})
		logger.Debug().
			Str("agent", kind.AgentName()).
			Dur("elapsed", time.Since(start)).
			Bool("ok", err == nil).
			Msg("Agent finished")
		return err
	}

	if !a.Config.Agents.Parallel {
		for _, kind := range models.AllAgentKinds() {
			if _, ok := tasks[kind]; !ok {
				continue
			}
			if err := run(ctx, kind); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range models.AllAgentKinds() {
		if _, ok := tasks[kind]; !ok {
			continue
		}
		kind := kind
		g.Go(func() error {
			return run(gctx, kind)
		})
	}
	return g.Wait()
}

// NewSession creates a document Q&A session. The embedder's provider
// credential is checked here rather than at startup.
func (a *App) NewSession() (*documents.Session, error) {
	if err := a.Config.RequireCredentials([]common.LLMProvider{a.Config.Documents.Embedder}, false); err != nil {
		return nil, err
	}
	return documents.NewSession(&a.Config.Documents, a.Config.Agents.TemplatesDir, a.Embedder, a.Extractor, a.Generator, a.Logger)
}

// Ask answers a question about the document ingested into session
func (a *App) Ask(ctx context.Context, session *documents.Session, question string) (string, error) {
	return session.Ask(ctx, question)
}

// Close releases provider clients
func (a *App) Close() error {
	if a.llm == nil {
		return nil
	}
	return a.llm.Close()
}

func agentNames(kinds []models.AgentKind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.AgentName()
	}
	return names
}
