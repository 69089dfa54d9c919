package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/fundalyst/internal/models"
	"github.com/ternarybob/fundalyst/internal/services/report"
)

func testAnalysis() *models.Analysis {
	return &models.Analysis{
		Query:  "Give me a full score",
		Ticker: "TCS.NS",
		Route:  models.NewRouteDecision([]models.AgentKind{models.AgentForensic}, "default"),
		Forensic: &models.ForensicRecord{
			Ticker:    "TCS.NS",
			Narrative: "No red flags.",
		},
		Scorecard: models.Scorecard{
			Ticker:        "TCS.NS",
			ForensicScore: 100,
			RatioScore:    80,
			ConcallScore:  75,
			TotalScore:    87,
			Verdict:       models.VerdictGood,
		},
	}
}

func TestValidateOutput(t *testing.T) {
	for _, format := range []string{"text", "json", "yaml", "markdown"} {
		assert.NoError(t, validateOutput(format), format)
	}
	assert.Error(t, validateOutput("xml"))
}

func TestWriteAnalysis(t *testing.T) {
	renderer := report.NewService(nil, arbor.NewLogger())

	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out []byte)
	}{
		{
			name:   "text",
			format: OutputText,
			check: func(t *testing.T, out []byte) {
				assert.Contains(t, string(out), "--- Forensic Agent ---")
			},
		},
		{
			name:   "markdown",
			format: OutputMarkdown,
			check: func(t *testing.T, out []byte) {
				assert.Contains(t, string(out), "## Scorecard")
			},
		},
		{
			name:   "json",
			format: OutputJSON,
			check: func(t *testing.T, out []byte) {
				var decoded models.Analysis
				require.NoError(t, json.Unmarshal(out, &decoded))
				assert.Equal(t, 87, decoded.Scorecard.TotalScore)
				assert.Nil(t, decoded.Ratio)
			},
		},
		{
			name:   "yaml",
			format: OutputYAML,
			check: func(t *testing.T, out []byte) {
				var decoded map[string]interface{}
				require.NoError(t, yaml.Unmarshal(out, &decoded))
				card := decoded["scorecard"].(map[string]interface{})
				assert.Equal(t, 87, card["total_score"])
				assert.Equal(t, "Good", card["verdict"])
				_, hasRatio := decoded["ratio"]
				assert.False(t, hasRatio)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeAnalysis(&buf, renderer, testAnalysis(), tt.format))
			tt.check(t, buf.Bytes())
		})
	}
}

func TestWriteRoute(t *testing.T) {
	decision := models.NewRouteDecision([]models.AgentKind{models.AgentRatio, models.AgentForensic}, "red flags and ratios")

	var buf bytes.Buffer
	require.NoError(t, writeRoute(&buf, decision, OutputText))
	assert.Equal(t, "Agents: FORENSIC_AGENT, RATIO_AGENT\nReason: red flags and ratios\n", buf.String())

	buf.Reset()
	require.NoError(t, writeRoute(&buf, decision, OutputJSON))
	assert.JSONEq(t, `{"agents":["FORENSIC","RATIO"],"reason":"red flags and ratios"}`, buf.String())
}
