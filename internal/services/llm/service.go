package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
)

// Service binds a ContentGenerator to one model and temperature.
// It implements interfaces.NarrativeGenerator.
type Service struct {
	generator   ContentGenerator
	model       string
	temperature float32
	maxTokens   int
	logger      arbor.ILogger
}

// NewService creates a narrative generator for a single model
func NewService(generator ContentGenerator, model string, temperature float32, logger arbor.ILogger) *Service {
	return &Service{
		generator:   generator,
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// WithModel returns a copy of the service bound to a different model
func (s *Service) WithModel(model string) *Service {
	clone := *s
	clone.model = model
	return &clone
}

// WithMaxTokens returns a copy of the service with an output token cap
func (s *Service) WithMaxTokens(maxTokens int) *Service {
	clone := *s
	clone.maxTokens = maxTokens
	return &clone
}

// Model returns the bound model name
func (s *Service) Model() string {
	return s.model
}

// Generate sends a single user prompt and returns the reply text
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	return s.Chat(ctx, []interfaces.Message{{Role: "user", Content: prompt}})
}

// Chat sends a conversation and returns the reply text
func (s *Service) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	resp, err := s.generator.GenerateContent(ctx, &ContentRequest{
		Messages:    messages,
		Model:       s.model,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("model %s returned an empty response", s.model)
	}

	s.logger.Debug().
		Str("provider", string(resp.Provider)).
		Str("model", resp.Model).
		Int("response_length", len(text)).
		Msg("Narrative generated")

	return text, nil
}

var _ interfaces.NarrativeGenerator = (*Service)(nil)
