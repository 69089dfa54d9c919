package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/fundalyst/internal/models"
)

// formatRoute formats a routing decision as markdown
func formatRoute(query string, decision models.RouteDecision) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Routing for \"%s\"\n\n", query))
	for _, kind := range decision.Agents {
		sb.WriteString(fmt.Sprintf("- %s\n", kind.AgentName()))
	}
	sb.WriteString(fmt.Sprintf("\n**Reason:** %s\n", decision.Reason))
	return sb.String()
}
