package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AgentKind identifies one of the insight agents a query can be routed to.
type AgentKind string

const (
	AgentForensic AgentKind = "FORENSIC"
	AgentRatio    AgentKind = "RATIO"
	AgentConcall  AgentKind = "CONCALL"
)

// agentSuffix is the suffix the router prompt uses for agent names ("FORENSIC_AGENT").
const agentSuffix = "_AGENT"

// AllAgentKinds returns every agent kind in canonical execution order.
func AllAgentKinds() []AgentKind {
	return []AgentKind{AgentForensic, AgentRatio, AgentConcall}
}

// ParseAgentKind accepts "FORENSIC", "forensic" and "FORENSIC_AGENT" style names.
func ParseAgentKind(s string) (AgentKind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, agentSuffix)
	switch AgentKind(name) {
	case AgentForensic, AgentRatio, AgentConcall:
		return AgentKind(name), nil
	}
	return "", fmt.Errorf("unknown agent kind: %q", s)
}

// AgentName returns the name used in router prompts, e.g. "RATIO_AGENT".
func (k AgentKind) AgentName() string {
	return string(k) + agentSuffix
}

func (k AgentKind) String() string {
	return string(k)
}

// RouteDecision is the router's output: the set of agents to run and why.
type RouteDecision struct {
	Agents []AgentKind `json:"agents" yaml:"agents" validate:"required,min=1,dive,oneof=FORENSIC RATIO CONCALL"`
	Reason string      `json:"reason" yaml:"reason"`
}

// NewRouteDecision dedupes kinds and orders them canonically.
func NewRouteDecision(kinds []AgentKind, reason string) RouteDecision {
	seen := make(map[AgentKind]bool, len(kinds))
	for _, k := range kinds {
		seen[k] = true
	}

	ordered := make([]AgentKind, 0, len(seen))
	for _, k := range AllAgentKinds() {
		if seen[k] {
			ordered = append(ordered, k)
		}
	}

	return RouteDecision{Agents: ordered, Reason: reason}
}

// Validate rejects a decision with no agents or an unknown agent kind.
func (d RouteDecision) Validate() error {
	return validate.Struct(d)
}

// Has reports whether the decision selects the given agent.
func (d RouteDecision) Has(kind AgentKind) bool {
	for _, k := range d.Agents {
		if k == kind {
			return true
		}
	}
	return false
}
