package heuristics

import (
	"strings"

	"github.com/ternarybob/fundalyst/internal/models"
)

// FindingDetailLength is the number of runes of the answer kept as a finding's detail.
const FindingDetailLength = 300

const noIssuesDetail = "No major issues detected in single-pass analysis."

// DetectFindings derives a single summary finding from a forensic write-up.
//
// Precedence:
//   - "red flag" or ❌ anywhere: high severity "Potential red flags"
//   - ⚠️ or "concern": medium severity "Mild concerns"
//   - otherwise: low severity "No red flags"
func DetectFindings(answer string) []models.Finding {
	lower := strings.ToLower(answer)

	if strings.Contains(lower, "red flag") || strings.Contains(answer, "❌") {
		return []models.Finding{{
			Name:     "Potential red flags",
			Severity: models.SeverityHigh,
			Detail:   Truncate(answer, FindingDetailLength),
		}}
	}

	if strings.Contains(answer, "⚠️") || strings.Contains(answer, "⚠") || strings.Contains(lower, "concern") {
		return []models.Finding{{
			Name:     "Mild concerns",
			Severity: models.SeverityMedium,
			Detail:   Truncate(answer, FindingDetailLength),
		}}
	}

	return []models.Finding{{
		Name:     "No red flags",
		Severity: models.SeverityLow,
		Detail:   noIssuesDetail,
	}}
}
