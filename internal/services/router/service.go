// Package router classifies a free-text query into the insight agents to run.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
	"github.com/ternarybob/fundalyst/internal/services/heuristics"
	"github.com/ternarybob/fundalyst/internal/templates"
)

// DefaultAgent is selected whenever routing fails
const DefaultAgent = models.AgentForensic

// Fallback reason prefixes
const (
	ReasonLLMError        = "LLM API error"
	ReasonJSONError       = "JSON parsing error"
	ReasonUnexpectedError = "Unexpected error"
)

var errNoJSON = errors.New("no JSON object found in reply")

// reply is the JSON shape the routing prompt asks for
type reply struct {
	Agents []string `json:"agents" validate:"required,min=1,dive,required"`
	Reason string   `json:"reason"`
}

// Service routes queries to insight agents
type Service struct {
	generator interfaces.NarrativeGenerator
	template  *templates.Template
	validate  *validator.Validate
	logger    arbor.ILogger
}

// NewService creates a router using the router prompt template
func NewService(generator interfaces.NarrativeGenerator, templatesDir string, logger arbor.ILogger) (*Service, error) {
	tmpl, err := templates.GetTemplate(templates.Router, templatesDir)
	if err != nil {
		return nil, err
	}

	return &Service{
		generator: generator,
		template:  tmpl,
		validate:  validator.New(),
		logger:    logger,
	}, nil
}

// Route classifies query into one or more agents. It never fails: any error
// yields a decision selecting DefaultAgent with the cause in Reason.
func (s *Service) Route(ctx context.Context, query string) (decision models.RouteDecision) {
	defer func() {
		if r := recover(); r != nil {
			decision = s.fallback(ReasonUnexpectedError, fmt.Errorf("panic: %v", r))
		}
	}()

	prompt, err := s.template.Render(map[string]any{"Query": query})
	if err != nil {
		return s.fallback(ReasonUnexpectedError, err)
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return s.fallback(ReasonLLMError, err)
	}

	parsed, err := s.parse(text)
	if err != nil {
		return s.fallback(ReasonJSONError, err)
	}

	kinds := make([]models.AgentKind, 0, len(parsed.Agents))
	for _, name := range parsed.Agents {
		kind, err := models.ParseAgentKind(name)
		if err != nil {
			s.logger.Warn().Str("agent", name).Msg("Router returned unknown agent, ignoring")
			continue
		}
		kinds = append(kinds, kind)
	}
	if len(kinds) == 0 {
		return s.fallback(ReasonUnexpectedError, fmt.Errorf("no known agents in %v", parsed.Agents))
	}

	decision = models.NewRouteDecision(kinds, strings.TrimSpace(parsed.Reason))
	if err := decision.Validate(); err != nil {
		return s.fallback(ReasonUnexpectedError, err)
	}

	s.logger.Debug().
		Strs("agents", agentNames(decision.Agents)).
		Msg("Routing reply accepted")

	return decision
}

func (s *Service) parse(text string) (*reply, error) {
	raw, ok := heuristics.ExtractJSONObject(text)
	if !ok {
		return nil, errNoJSON
	}

	var parsed reply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(&parsed); err != nil {
		return nil, fmt.Errorf("invalid routing reply: %w", err)
	}
	return &parsed, nil
}

func (s *Service) fallback(prefix string, err error) models.RouteDecision {
	s.logger.Warn().
		Err(err).
		Str("fallback_agent", DefaultAgent.String()).
		Msg("Routing failed, using default agent")

	return models.NewRouteDecision([]models.AgentKind{DefaultAgent}, fmt.Sprintf("%s: %v", prefix, err))
}

func agentNames(kinds []models.AgentKind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}
