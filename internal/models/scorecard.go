package models

// Verdict is the qualitative label derived from the total score.
type Verdict string

const (
	VerdictGood    Verdict = "Good"
	VerdictAverage Verdict = "Average"
	VerdictRisky   Verdict = "Risky"
)

// Scorecard is the final combined assessment of a ticker.
type Scorecard struct {
	Ticker        string  `json:"ticker" yaml:"ticker" validate:"required"`
	ForensicScore int     `json:"forensic_score" yaml:"forensic_score" validate:"min=0,max=100"`
	RatioScore    int     `json:"ratio_score" yaml:"ratio_score" validate:"min=0,max=100"`
	ConcallScore  int     `json:"concall_score" yaml:"concall_score" validate:"min=0,max=100"`
	TotalScore    int     `json:"total_score" yaml:"total_score" validate:"min=0,max=100"`
	Verdict       Verdict `json:"verdict" yaml:"verdict" validate:"required,oneof=Good Average Risky"`
	Summary       string  `json:"summary" yaml:"summary"`
}

// Validate checks the score bounds and the verdict label.
func (s Scorecard) Validate() error {
	return validate.Struct(s)
}
