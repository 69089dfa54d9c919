package interfaces

import (
	"context"

	"github.com/ternarybob/fundalyst/internal/models"
)

// QueryRouter classifies a query into the agents that should run.
// Route never fails: a routing problem degrades to the forensic agent.
type QueryRouter interface {
	Route(ctx context.Context, query string) models.RouteDecision
}

// InsightAgents runs the three analysis agents for a ticker.
//
// An agent that cannot find its optional data (a transcript, a ratio table)
// returns a record marked unavailable. A failed market data fetch is returned
// as an error and aborts the analysis.
type InsightAgents interface {
	Forensic(ctx context.Context, ticker string) (*models.ForensicRecord, error)
	Ratio(ctx context.Context, ticker string) (*models.RatioRecord, error)
	Concall(ctx context.Context, ticker string) (*models.ConcallRecord, error)
}

// ScoringEngine combines agent records into a scorecard.
// Absent records leave their sub-score at its baseline.
type ScoringEngine interface {
	Score(ctx context.Context, ticker string, forensic *models.ForensicRecord, ratio *models.RatioRecord, concall *models.ConcallRecord) (models.Scorecard, error)
}
