package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
	"github.com/ternarybob/fundalyst/internal/services/heuristics"
)

// SummaryInstruction prefixes the combined agent output sent for summarisation.
const SummaryInstruction = "Summarize the following financial analysis in 3–4 sentences. " +
	"Make it easy to understand for a general investor. Highlight strengths, risks, and notable financial signals.\n\n"

// ForensicScore starts at 100 and subtracts 20 per finding whose detail carries
// a red marker, otherwise 10 if it carries a yellow marker. A nil record keeps
// the baseline.
func ForensicScore(record *models.ForensicRecord) int {
	score := BaselineForensic
	if record == nil {
		return score
	}
	for _, f := range record.Findings {
		if heuristics.HasRedMarker(f.Detail) {
			score -= PenaltyRedFlag
		} else if heuristics.HasYellowMarker(f.Detail) {
			score -= PenaltyYellowFlag
		}
	}
	return ClampInt(score, 0, 100)
}

// RatioScore starts at 80, adds 10 for at least three years of breakdown and
// subtracts 10 when the narrative calls the business "complex".
func RatioScore(record *models.RatioRecord) int {
	score := BaselineRatio
	if record == nil {
		return score
	}
	if len(record.Breakdown) >= MinRatioHistory {
		score += BonusRatioHistory
	}
	if heuristics.ContainsFold(record.Narrative, "complex") {
		score -= PenaltyRatioComplex
	}
	return ClampInt(score, 0, 100)
}

// ConcallScore starts at 75 and moves with sentiment and confidence.
func ConcallScore(record *models.ConcallRecord) int {
	score := BaselineConcall
	if record == nil {
		return score
	}

	switch record.Sentiment {
	case models.SentimentPositive:
		score += BonusSentimentPositive
	case models.SentimentNegative:
		score -= PenaltySentimentNegative
	}

	switch record.Confidence {
	case models.ConfidenceHigh:
		score += BonusConfidenceHigh
	case models.ConfidenceLow:
		score -= PenaltyConfidenceLow
	}

	return ClampInt(score, 0, 100)
}

// TotalScore applies the weights and rounds half away from zero (86.5 -> 87).
func TotalScore(w Weights, forensic, ratio, concall int) int {
	total := float64(forensic)*w.Forensic + float64(ratio)*w.Ratio + float64(concall)*w.Concall
	// snap float noise so 86.49999999 rounds like 86.5
	total = math.Round(total*1e6) / 1e6
	return ClampInt(int(math.Round(total)), 0, 100)
}

// DetermineVerdict maps the total score onto the three-tier verdict.
func DetermineVerdict(total int) models.Verdict {
	if total >= ThresholdGood {
		return models.VerdictGood
	}
	if total >= ThresholdAverage {
		return models.VerdictAverage
	}
	return models.VerdictRisky
}

// Evaluate computes every numeric field of the scorecard. It performs no I/O
// and leaves Summary empty.
func Evaluate(w Weights, ticker string, forensic *models.ForensicRecord, ratio *models.RatioRecord, concall *models.ConcallRecord) models.Scorecard {
	f := ForensicScore(forensic)
	r := RatioScore(ratio)
	c := ConcallScore(concall)
	total := TotalScore(w, f, r, c)

	return models.Scorecard{
		Ticker:        ticker,
		ForensicScore: f,
		RatioScore:    r,
		ConcallScore:  c,
		TotalScore:    total,
		Verdict:       DetermineVerdict(total),
	}
}

// CombinedText joins the narratives of the records that are present.
func CombinedText(forensic *models.ForensicRecord, ratio *models.RatioRecord, concall *models.ConcallRecord) string {
	var b strings.Builder
	if forensic != nil {
		fmt.Fprintf(&b, "Forensic Agent Output:\n%s\n", forensic.Narrative)
	}
	if ratio != nil {
		fmt.Fprintf(&b, "Ratio Agent Output:\n%s\n", ratio.Narrative)
	}
	if concall != nil {
		fmt.Fprintf(&b, "Concall Agent Output:\n%s\n", concall.Narrative)
	}
	return b.String()
}

// FormatSummary renders the score block, verdict line and generated prose.
func FormatSummary(card models.Scorecard, prose string) string {
	return fmt.Sprintf(
		"📊 Forensic Score: %d/100\n"+
			"📈 Ratio Score: %d/100\n"+
			"🗣️ Concall Score: %d/100\n"+
			"✅ Final Score: %d/100\n"+
			"🏁 Verdict: %s – based on combined analysis\n\n"+
			"📝 Summary:\n%s",
		card.ForensicScore, card.RatioScore, card.ConcallScore, card.TotalScore, card.Verdict, prose)
}

// Engine produces scorecards, including the generated investor summary.
type Engine struct {
	generator interfaces.NarrativeGenerator
	weights   Weights
	logger    arbor.ILogger
}

// NewEngine creates a scoring engine. Invalid weights are rejected.
func NewEngine(generator interfaces.NarrativeGenerator, weights Weights, logger arbor.ILogger) (*Engine, error) {
	if generator == nil {
		return nil, fmt.Errorf("narrative generator is required")
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		generator: generator,
		weights:   weights,
		logger:    logger,
	}, nil
}

// Weights returns the weights the engine applies.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Score evaluates the records and asks the narrative generator for a summary.
// A generator failure is returned as-is; there is no fallback summary.
func (e *Engine) Score(ctx context.Context, ticker string, forensic *models.ForensicRecord, ratio *models.RatioRecord, concall *models.ConcallRecord) (models.Scorecard, error) {
	card := Evaluate(e.weights, ticker, forensic, ratio, concall)

	e.logger.Debug().
		Str("ticker", ticker).
		Int("forensic", card.ForensicScore).
		Int("ratio", card.RatioScore).
		Int("concall", card.ConcallScore).
		Int("total", card.TotalScore).
		Str("verdict", string(card.Verdict)).
		Msg("Computed scorecard")

	if err := card.Validate(); err != nil {
		return models.Scorecard{}, fmt.Errorf("invalid scorecard for %q: %w", ticker, err)
	}

	start := time.Now()
	prose, err := e.generator.Generate(ctx, SummaryInstruction+CombinedText(forensic, ratio, concall))
	if err != nil {
		return models.Scorecard{}, fmt.Errorf("failed to generate scorecard summary for %s: %w", ticker, err)
	}

	e.logger.Debug().
		Str("ticker", ticker).
		Dur("elapsed", time.Since(start)).
		Msg("Generated scorecard summary")

	card.Summary = FormatSummary(card, strings.TrimSpace(prose))
	return card, nil
}
