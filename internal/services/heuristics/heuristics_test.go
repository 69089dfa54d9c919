package heuristics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/fundalyst/internal/models"
)

func TestDetectFindings(t *testing.T) {
	long := "There is a red flag in receivables. " + strings.Repeat("x", 400)

	tests := []struct {
		name     string
		answer   string
		finding  string
		severity models.Severity
	}{
		{"red flag phrase", "Some Red Flag in related party deals", "Potential red flags", models.SeverityHigh},
		{"cross emoji", "Accounting quality: ❌ Risky", "Potential red flags", models.SeverityHigh},
		{"warning emoji", "Accounting quality: ⚠️ Average", "Mild concerns", models.SeverityMedium},
		{"concern word", "One Concern about contingent liabilities", "Mild concerns", models.SeverityMedium},
		{"clean", "Accounting quality: ✅ Good", "No red flags", models.SeverityLow},
		{"red beats yellow", "⚠️ and a red flag", "Potential red flags", models.SeverityHigh},
		{"long answer", long, "Potential red flags", models.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := DetectFindings(tt.answer)
			require.Len(t, findings, 1)
			assert.Equal(t, tt.finding, findings[0].Name)
			assert.Equal(t, tt.severity, findings[0].Severity)
			assert.LessOrEqual(t, len([]rune(findings[0].Detail)), FindingDetailLength)
		})
	}
}

func TestDetectFindings_CleanDetail(t *testing.T) {
	findings := DetectFindings("all good")
	assert.Equal(t, "No major issues detected in single-pass analysis.", findings[0].Detail)
}

func TestMarkers(t *testing.T) {
	tests := []struct {
		text   string
		red    bool
		yellow bool
	}{
		{"🔴 revenue recognition", true, false},
		{"Possible RED FLAG", true, false},
		{"🟡 slight delay", false, true},
		{"⚠️ Average", false, true},
		{"Yellow flag on capex", false, true},
		{"nothing here", false, false},
		{"❌ and ⚠️", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.red, HasRedMarker(tt.text))
			assert.Equal(t, tt.yellow, HasYellowMarker(tt.text))
		})
	}
}

func TestExtractSentiment(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		sentiment  models.Sentiment
		confidence models.Confidence
	}{
		{
			name:       "no marker",
			reply:      "Positive tone with High confidence",
			sentiment:  models.SentimentUnknown,
			confidence: models.ConfidenceUnknown,
		},
		{
			name:       "positive high",
			reply:      "8. Financial Highlights: Low debt\n9. Sentiment Analysis: Positive, management confidence High\n10. Final Summary: ok",
			sentiment:  models.SentimentPositive,
			confidence: models.ConfidenceHigh,
		},
		{
			name:       "only text after marker counts",
			reply:      "Positive outlook. Sentiment Analysis: Negative tone, Low confidence",
			sentiment:  models.SentimentNegative,
			confidence: models.ConfidenceLow,
		},
		{
			name:       "neutral moderate",
			reply:      "Sentiment Analysis: Neutral with Moderate conviction",
			sentiment:  models.SentimentNeutral,
			confidence: models.ConfidenceModerate,
		},
		{
			name:       "positive wins over negative",
			reply:      "Sentiment Analysis: Negative on margins but Positive overall",
			sentiment:  models.SentimentPositive,
			confidence: models.ConfidenceUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := ExtractSentiment(tt.reply)
			assert.Equal(t, tt.sentiment, s)
			assert.Equal(t, tt.confidence, c)
		})
	}
}

func TestExtractDupont(t *testing.T) {
	reply := `Here is the breakdown.
FY23: ROE was 18.5% and ROCE of 22%, driven by margins.
FY21: ROE 12% as asset turnover was weak.
FY22 - leverage increased.
Summary mentions FY21 again.`

	got := ExtractDupont(reply)
	require.Len(t, got, 3)

	assert.Equal(t, "FY21", got[0].Year)
	assert.Equal(t, 12.0, got[0].ROE)
	assert.Equal(t, 0.0, got[0].ROCE)
	assert.Equal(t, "ROE 12% as asset turnover was weak.", got[0].ROEExplanation)

	assert.Equal(t, "FY22", got[1].Year)
	assert.Equal(t, "leverage increased.\nSummary mentions", got[1].ROCEExplanation)

	assert.Equal(t, "FY23", got[2].Year)
	assert.Equal(t, 18.5, got[2].ROE)
	assert.Equal(t, 22.0, got[2].ROCE)
}

func TestExtractDupont_FourDigitYears(t *testing.T) {
	got := ExtractDupont("FY 2024: strong. FY2025: stronger.")
	require.Len(t, got, 2)
	assert.Equal(t, "FY24", got[0].Year)
	assert.Equal(t, "FY25", got[1].Year)
	assert.Equal(t, "stronger.", got[1].ROEExplanation)
}

func TestExtractDupont_NoYears(t *testing.T) {
	assert.Empty(t, ExtractDupont("No fiscal years mentioned"))
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"prose around", "Sure!\n{\"agents\":[\"X\"]}\nThanks", `{"agents":["X"]}`, true},
		{"greedy", `{"a":{"b":1}} trailing }`, `{"a":{"b":1}} trailing }`, true},
		{"no braces", "no json", "", false},
		{"reversed", "} {", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "hi", Truncate("hi", 10))
	assert.Equal(t, "", Truncate("hi", 0))
}
