package models

// Severity grades a forensic finding.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Finding is a single forensic observation.
type Finding struct {
	Name     string   `json:"name" yaml:"name"`
	Severity Severity `json:"severity" yaml:"severity"`
	Detail   string   `json:"detail" yaml:"detail"`
}

// ForensicRecord is the output of the forensic agent.
type ForensicRecord struct {
	Ticker     string    `json:"ticker" yaml:"ticker"`
	Findings   []Finding `json:"findings" yaml:"findings"`
	Narrative  string    `json:"narrative" yaml:"narrative"`
	Iterations int       `json:"iterations,omitempty" yaml:"iterations,omitempty"`
	Exhausted  bool      `json:"exhausted,omitempty" yaml:"exhausted,omitempty"`
}

// DupontComponent holds the Du Pont view of a single fiscal year.
// ROE and ROCE are percentages; zero means the reply did not state a number.
type DupontComponent struct {
	Year            string  `json:"year" yaml:"year"`
	ROE             float64 `json:"roe" yaml:"roe"`
	ROEExplanation  string  `json:"roe_explanation" yaml:"roe_explanation"`
	ROCE            float64 `json:"roce" yaml:"roce"`
	ROCEExplanation string  `json:"roce_explanation" yaml:"roce_explanation"`
}

// RatioSource records where the ratio agent got its figures.
type RatioSource string

const (
	RatioSourceScreener   RatioSource = "screener"
	RatioSourceMarketData RatioSource = "market_data"
)

// RatioRecord is the output of the ratio agent.
type RatioRecord struct {
	Ticker    string            `json:"ticker" yaml:"ticker"`
	Breakdown []DupontComponent `json:"dupont_breakdown" yaml:"dupont_breakdown"`
	Narrative string            `json:"final_summary" yaml:"final_summary"`
	Source    RatioSource       `json:"source,omitempty" yaml:"source,omitempty"`
}

// Sentiment is the overall tone of an earnings call.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentUnknown  Sentiment = "Unknown"
)

// Confidence is management's confidence as read from an earnings call.
type Confidence string

const (
	ConfidenceHigh     Confidence = "High"
	ConfidenceModerate Confidence = "Moderate"
	ConfidenceLow      Confidence = "Low"
	ConfidenceUnknown  Confidence = "Unknown"
)

// ConcallRecord is the output of the concall agent.
// Available is false when no transcript could be retrieved.
type ConcallRecord struct {
	Ticker      string     `json:"ticker" yaml:"ticker"`
	Narrative   string     `json:"summary" yaml:"summary"`
	Sentiment   Sentiment  `json:"sentiment" yaml:"sentiment"`
	Confidence  Confidence `json:"confidence" yaml:"confidence"`
	RawThoughts []string   `json:"raw_thoughts,omitempty" yaml:"raw_thoughts,omitempty"`
	Available   bool       `json:"available" yaml:"available"`
}
