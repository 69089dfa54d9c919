package scoring

import (
	"fmt"
	"math"
)

// Sub-score baselines
const (
	BaselineForensic = 100
	BaselineRatio    = 80
	BaselineConcall  = 75
)

// Adjustments applied to the baselines
const (
	PenaltyRedFlag    = 20
	PenaltyYellowFlag = 10

	BonusRatioHistory   = 10
	MinRatioHistory     = 3
	PenaltyRatioComplex = 10

	BonusSentimentPositive   = 10
	PenaltySentimentNegative = 15
	BonusConfidenceHigh      = 5
	PenaltyConfidenceLow     = 10
)

// Verdict thresholds on the total score
const (
	ThresholdGood    = 80
	ThresholdAverage = 60
)

// Weights combine the three sub-scores into the total score.
type Weights struct {
	Forensic float64 `toml:"forensic" validate:"min=0,max=1"`
	Ratio    float64 `toml:"ratio" validate:"min=0,max=1"`
	Concall  float64 `toml:"concall" validate:"min=0,max=1"`
}

// DefaultWeights returns the standard 0.4 / 0.3 / 0.3 split.
func DefaultWeights() Weights {
	return Weights{Forensic: 0.4, Ratio: 0.3, Concall: 0.3}
}

// Validate checks the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	if w.Forensic < 0 || w.Ratio < 0 || w.Concall < 0 {
		return fmt.Errorf("scoring weights must be non-negative: %+v", w)
	}
	sum := w.Forensic + w.Ratio + w.Concall
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// ClampInt constrains a value to a range
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
