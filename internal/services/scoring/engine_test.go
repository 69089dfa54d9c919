package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeGenerator) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return f.Generate(ctx, messages[len(messages)-1].Content)
}

func TestDetermineVerdict(t *testing.T) {
	tests := []struct {
		total int
		want  models.Verdict
	}{
		{100, models.VerdictGood},
		{80, models.VerdictGood},
		{79, models.VerdictAverage},
		{60, models.VerdictAverage},
		{59, models.VerdictRisky},
		{0, models.VerdictRisky},
	}

	for _, tt := range tests {
		if got := DetermineVerdict(tt.total); got != tt.want {
			t.Errorf("DetermineVerdict(%d) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestDetermineVerdict_Monotonic(t *testing.T) {
	rank := map[models.Verdict]int{models.VerdictRisky: 0, models.VerdictAverage: 1, models.VerdictGood: 2}
	prev := rank[DetermineVerdict(0)]
	for total := 1; total <= 100; total++ {
		cur := rank[DetermineVerdict(total)]
		if cur < prev {
			t.Fatalf("verdict decreased at total=%d", total)
		}
		prev = cur
	}
}

func TestForensicScore(t *testing.T) {
	finding := func(detail string) models.Finding {
		return models.Finding{Name: "x", Severity: models.SeverityHigh, Detail: detail}
	}

	tests := []struct {
		name   string
		record *models.ForensicRecord
		want   int
	}{
		{"absent record keeps baseline", nil, 100},
		{"no markers", &models.ForensicRecord{Findings: []models.Finding{finding("clean")}}, 100},
		{"one red one yellow", &models.ForensicRecord{Findings: []models.Finding{finding("🔴 cash flow"), finding("🟡 capex")}}, 70},
		{"red wins within one finding", &models.ForensicRecord{Findings: []models.Finding{finding("❌ red flag and ⚠️")}}, 80},
		{"clamped at zero", &models.ForensicRecord{Findings: repeatFinding(finding("red flag"), 8)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForensicScore(tt.record); got != tt.want {
				t.Errorf("ForensicScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func repeatFinding(f models.Finding, n int) []models.Finding {
	out := make([]models.Finding, n)
	for i := range out {
		out[i] = f
	}
	return out
}

func TestRatioScore(t *testing.T) {
	three := []models.DupontComponent{{Year: "FY21"}, {Year: "FY22"}, {Year: "FY23"}}

	tests := []struct {
		name   string
		record *models.RatioRecord
		want   int
	}{
		{"absent record keeps baseline", nil, 80},
		{"short history", &models.RatioRecord{Breakdown: three[:2], Narrative: "simple"}, 80},
		{"three years", &models.RatioRecord{Breakdown: three, Narrative: "simple"}, 90},
		{"complex narrative", &models.RatioRecord{Breakdown: three, Narrative: "A Complex structure"}, 80},
		{"complex only", &models.RatioRecord{Narrative: "complexity abounds"}, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RatioScore(tt.record); got != tt.want {
				t.Errorf("RatioScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConcallScore(t *testing.T) {
	tests := []struct {
		name       string
		sentiment  models.Sentiment
		confidence models.Confidence
		want       int
	}{
		{"positive high", models.SentimentPositive, models.ConfidenceHigh, 90},
		{"negative low", models.SentimentNegative, models.ConfidenceLow, 50},
		{"neutral moderate", models.SentimentNeutral, models.ConfidenceModerate, 75},
		{"unknown unknown", models.SentimentUnknown, models.ConfidenceUnknown, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConcallScore(&models.ConcallRecord{Sentiment: tt.sentiment, Confidence: tt.confidence})
			if got != tt.want {
				t.Errorf("ConcallScore() = %d, want %d", got, tt.want)
			}
		})
	}

	if got := ConcallScore(nil); got != 75 {
		t.Errorf("ConcallScore(nil) = %d, want 75", got)
	}
}

func TestTotalScore_RoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 87, TotalScore(DefaultWeights(), 100, 80, 75))
	assert.Equal(t, 0, TotalScore(DefaultWeights(), 0, 0, 0))
	assert.Equal(t, 100, TotalScore(DefaultWeights(), 100, 100, 100))
}

func TestTotalScore_AlwaysInRange(t *testing.T) {
	w := DefaultWeights()
	for f := 0; f <= 100; f += 5 {
		for r := 0; r <= 100; r += 5 {
			for c := 0; c <= 100; c += 5 {
				total := TotalScore(w, f, r, c)
				if total < 0 || total > 100 {
					t.Fatalf("TotalScore(%d,%d,%d) = %d out of range", f, r, c, total)
				}
			}
		}
	}
}

func TestEvaluate_OnlyForensicPresent(t *testing.T) {
	forensic := &models.ForensicRecord{
		Ticker:   "INFY",
		Findings: []models.Finding{{Detail: "🔴 one"}, {Detail: "🟡 two"}},
	}

	card := Evaluate(DefaultWeights(), "INFY", forensic, nil, nil)

	assert.Equal(t, 70, card.ForensicScore)
	assert.Equal(t, 80, card.RatioScore)
	assert.Equal(t, 75, card.ConcallScore)
	// 28 + 24 + 22.5 = 74.5
	assert.Equal(t, 75, card.TotalScore)
	assert.Equal(t, models.VerdictAverage, card.Verdict)
	assert.Empty(t, card.Summary)
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Error(t, Weights{Forensic: 0.5, Ratio: 0.3, Concall: 0.3}.Validate())
	assert.Error(t, Weights{Forensic: -0.2, Ratio: 0.6, Concall: 0.6}.Validate())
}

func TestEngineScore(t *testing.T) {
	gen := &fakeGenerator{reply: "  Solid company with clean books.  "}
	engine, err := NewEngine(gen, DefaultWeights(), arbor.NewLogger())
	require.NoError(t, err)

	forensic := &models.ForensicRecord{Narrative: "forensic text"}
	concall := &models.ConcallRecord{Narrative: "call text", Sentiment: models.SentimentPositive, Confidence: models.ConfidenceHigh}

	card, err := engine.Score(context.Background(), "INFY", forensic, nil, concall)
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.True(t, strings.HasPrefix(gen.prompts[0], SummaryInstruction))
	assert.Contains(t, gen.prompts[0], "Forensic Agent Output:\nforensic text\n")
	assert.Contains(t, gen.prompts[0], "Concall Agent Output:\ncall text\n")
	assert.NotContains(t, gen.prompts[0], "Ratio Agent Output")

	assert.Equal(t, 90, card.ConcallScore)
	// 40 + 24 + 27
	assert.Equal(t, 91, card.TotalScore)
	assert.Contains(t, card.Summary, "✅ Final Score: 91/100")
	assert.Contains(t, card.Summary, "🏁 Verdict: Good – based on combined analysis")
	assert.True(t, strings.HasSuffix(card.Summary, "📝 Summary:\nSolid company with clean books."))
}

func TestEngineScore_GeneratorFailurePropagates(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	engine, err := NewEngine(gen, DefaultWeights(), arbor.NewLogger())
	require.NoError(t, err)

	_, err = engine.Score(context.Background(), "INFY", nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestEngineScore_RejectsInvalidScorecard(t *testing.T) {
	gen := &fakeGenerator{reply: "unused"}
	engine, err := NewEngine(gen, DefaultWeights(), arbor.NewLogger())
	require.NoError(t, err)

	_, err = engine.Score(context.Background(), "", nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scorecard")
	assert.Empty(t, gen.prompts)
}

func TestNewEngine_RejectsBadWeights(t *testing.T) {
	_, err := NewEngine(&fakeGenerator{}, Weights{Forensic: 1, Ratio: 1}, arbor.NewLogger())
	assert.Error(t, err)
}
