package report

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
)

// Service renders an analysis for people: terminal text, markdown and PDF
type Service struct {
	renderer interfaces.PDFRenderer
	logger   arbor.ILogger
}

// NewService creates a report service. renderer may be nil when PDF output is not needed.
func NewService(renderer interfaces.PDFRenderer, logger arbor.ILogger) *Service {
	return &Service{
		renderer: renderer,
		logger:   logger,
	}
}

// Title returns the document title used for an analysis
func Title(analysis *models.Analysis) string {
	return fmt.Sprintf("Fundalyst Analysis: %s", analysis.Ticker)
}

// Markdown renders the routing decision, each agent's narrative and the scorecard
func (s *Service) Markdown(analysis *models.Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", Title(analysis))
	fmt.Fprintf(&b, "**Query:** %s\n\n", oneLine(analysis.Query))
	if analysis.RequestID != "" {
		fmt.Fprintf(&b, "**Request:** `%s`\n\n", analysis.RequestID)
	}

	b.WriteString("## Routing\n\n")
	fmt.Fprintf(&b, "- **Agents:** %s\n", agentList(analysis.Route))
	fmt.Fprintf(&b, "- **Reason:** %s\n\n", oneLine(analysis.Route.Reason))

	if f := analysis.Forensic; f != nil {
		b.WriteString("## Forensic Review\n\n")
		if len(f.Findings) > 0 {
			b.WriteString("| Finding | Severity | Detail |\n|---|---|---|\n")
			for _, finding := range f.Findings {
				fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(finding.Name), finding.Severity, cell(finding.Detail))
			}
			b.WriteString("\n")
		}
		if f.Exhausted {
			fmt.Fprintf(&b, "_Stopped after %d iterations without a final answer._\n\n", f.Iterations)
		}
		fmt.Fprintf(&b, "%s\n\n", f.Narrative)
	}

	if r := analysis.Ratio; r != nil {
		b.WriteString("## Ratio Analysis\n\n")
		if r.Source != "" {
			fmt.Fprintf(&b, "_Source: %s_\n\n", r.Source)
		}
		if len(r.Breakdown) > 0 {
			b.WriteString("| Year | ROE % | ROE Drivers | ROCE % | ROCE Drivers |\n|---|---|---|---|---|\n")
			for _, year := range r.Breakdown {
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
					year.Year, percent(year.ROE), cell(year.ROEExplanation), percent(year.ROCE), cell(year.ROCEExplanation))
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n\n", r.Narrative)
	}

	if c := analysis.Concall; c != nil {
		b.WriteString("## Earnings Call\n\n")
		fmt.Fprintf(&b, "- **Sentiment:** %s\n- **Confidence:** %s\n\n", c.Sentiment, c.Confidence)
		fmt.Fprintf(&b, "%s\n\n", c.Narrative)
	}

	card := analysis.Scorecard
	b.WriteString("## Scorecard\n\n")
	b.WriteString("| Component | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Forensic | %d/100 |\n", card.ForensicScore)
	fmt.Fprintf(&b, "| Ratio | %d/100 |\n", card.RatioScore)
	fmt.Fprintf(&b, "| Concall | %d/100 |\n", card.ConcallScore)
	fmt.Fprintf(&b, "| **Total** | **%d/100** |\n\n", card.TotalScore)
	fmt.Fprintf(&b, "**Verdict:** %s\n\n", card.Verdict)
	if card.Summary != "" {
		fmt.Fprintf(&b, "%s\n", card.Summary)
	}

	return b.String()
}

// Text renders the analysis for a terminal
func (s *Service) Text(analysis *models.Analysis) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\n%s\n%s\n", rule, Title(analysis), rule)
	fmt.Fprintf(&b, "Query:   %s\n", oneLine(analysis.Query))
	fmt.Fprintf(&b, "Agents:  %s\n", agentList(analysis.Route))
	fmt.Fprintf(&b, "Reason:  %s\n", oneLine(analysis.Route.Reason))

	section := func(title, body string) {
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", title, strings.TrimSpace(body))
	}

	if f := analysis.Forensic; f != nil {
		section("Forensic Agent", f.Narrative)
	}
	if r := analysis.Ratio; r != nil {
		section("Ratio Agent", r.Narrative)
	}
	if c := analysis.Concall; c != nil {
		section("Concall Agent", fmt.Sprintf("Sentiment: %s | Confidence: %s\n\n%s", c.Sentiment, c.Confidence, c.Narrative))
	}

	card := analysis.Scorecard
	if card.Summary != "" {
		section("Scorecard", card.Summary)
	} else {
		section("Scorecard", fmt.Sprintf("Total: %d/100  Verdict: %s", card.TotalScore, card.Verdict))
	}
	if analysis.Duration > 0 {
		fmt.Fprintf(&b, "\nCompleted in %s\n", analysis.Duration.Round(1e6))
	}

	return b.String()
}

// PDF renders the markdown report to a PDF document
func (s *Service) PDF(analysis *models.Analysis) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("PDF rendering is not configured")
	}

	data, err := s.renderer.MarkdownToPDF(s.Markdown(analysis), Title(analysis))
	if err != nil {
		return nil, fmt.Errorf("failed to render report for %s: %w", analysis.Ticker, err)
	}

	s.logger.Debug().
		Str("ticker", analysis.Ticker).
		Int("pdf_size", len(data)).
		Msg("Report PDF rendered")

	return data, nil
}

func agentList(route models.RouteDecision) string {
	names := make([]string, len(route.Agents))
	for i, kind := range route.Agents {
		names[i] = kind.AgentName()
	}
	return strings.Join(names, ", ")
}

func percent(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

// cell keeps table cell text on one line and free of column separators
func cell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", "/")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
