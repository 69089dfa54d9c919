package models

import "time"

// Analysis is the complete result of one analysis request.
// Only the records of agents selected by Route are populated.
type Analysis struct {
	RequestID string          `json:"request_id" yaml:"request_id"`
	Query     string          `json:"query" yaml:"query"`
	Ticker    string          `json:"ticker" yaml:"ticker"`
	Route     RouteDecision   `json:"route" yaml:"route"`
	Forensic  *ForensicRecord `json:"forensic,omitempty" yaml:"forensic,omitempty"`
	Ratio     *RatioRecord    `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Concall   *ConcallRecord  `json:"concall,omitempty" yaml:"concall,omitempty"`
	Scorecard Scorecard       `json:"scorecard" yaml:"scorecard"`
	StartedAt time.Time       `json:"started_at" yaml:"started_at"`
	Duration  time.Duration   `json:"duration" yaml:"duration"`
}
