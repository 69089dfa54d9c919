package handlers

import (
	"context"

	"github.com/ternarybob/fundalyst/internal/models"
)

// Analyzer runs the full routing, agent and scoring pipeline
type Analyzer interface {
	Analyze(ctx context.Context, query, ticker string) (*models.Analysis, error)
	AnalyzeWithAgents(ctx context.Context, query, ticker string, kinds []models.AgentKind) (*models.Analysis, error)
}

// QueryRouter classifies a query without running agents
type QueryRouter interface {
	Route(ctx context.Context, query string) models.RouteDecision
}

// ReportRenderer turns an analysis into a human-readable document
type ReportRenderer interface {
	Markdown(analysis *models.Analysis) string
	PDF(analysis *models.Analysis) ([]byte, error)
}

// DocumentSession indexes one document and answers questions about it
type DocumentSession interface {
	IngestFile(ctx context.Context, path string) error
	Ask(ctx context.Context, question string) (string, error)
}

// SessionFactory creates a fresh document session per request
type SessionFactory func() (DocumentSession, error)
