package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	openaioption "github.com/openai/openai-go/v3/option"
	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/fundalyst/internal/common"
	"github.com/ternarybob/fundalyst/internal/interfaces"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderOpenAI uses the OpenAI chat completions API
	ProviderOpenAI ProviderType = "openai"
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

// DefaultCallTimeout bounds one provider call including retries
const DefaultCallTimeout = 2 * time.Minute

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Messages          []interfaces.Message
	Model             string
	Temperature       float32
	MaxTokens         int
	SystemInstruction string
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// ContentGenerator is implemented by ProviderFactory and by test fakes
type ContentGenerator interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
}

// ProviderFactory creates provider clients lazily and routes requests by model name
type ProviderFactory struct {
	llmConfig    common.LLMConfig
	openaiConfig common.OpenAIConfig
	claudeConfig common.ClaudeConfig
	geminiConfig common.GeminiConfig
	retryConfig  *RetryConfig
	callTimeout  time.Duration
	logger       arbor.ILogger

	mu           sync.Mutex
	openaiClient *openai.Client
	claudeClient *anthropic.Client
	geminiClient *genai.Client
}

// NewProviderFactory creates a new provider factory from configuration
func NewProviderFactory(config *common.Config, logger arbor.ILogger) *ProviderFactory {
	retry := NewDefaultRetryConfig()
	retry.MaxRetries = config.LLM.MaxRetries
	retry.InitialBackoff = common.MustDuration(config.LLM.InitialBackoff, DefaultInitialBackoff)
	retry.MaxBackoff = common.MustDuration(config.LLM.MaxBackoff, DefaultMaxBackoff)

	return &ProviderFactory{
		llmConfig:    config.LLM,
		openaiConfig: config.OpenAI,
		claudeConfig: config.Claude,
		geminiConfig: config.Gemini,
		retryConfig:  retry,
		callTimeout:  common.MustDuration(config.LLM.Timeout, DefaultCallTimeout),
		logger:       logger,
	}
}

// DetectProvider determines the provider type from a model string.
// Model strings can be:
// - "gpt-4", "gpt-4.1-nano", "o3-mini" -> OpenAI
// - "openai/gpt-4" -> OpenAI (with prefix)
// - "claude-sonnet-4-20250514" or "anthropic/..." -> Claude
// - "gemini-2.5-flash" or "google/..." -> Gemini
// - Empty string -> uses default provider from config
func (f *ProviderFactory) DetectProvider(model string) ProviderType {
	return DetectProvider(model, ProviderType(f.llmConfig.DefaultProvider))
}

// DetectProvider is the configuration-free form of ProviderFactory.DetectProvider
func DetectProvider(model string, fallback ProviderType) ProviderType {
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" {
		return fallback
	}

	switch {
	case strings.HasPrefix(model, "openai/"):
		return ProviderOpenAI
	case strings.HasPrefix(model, "claude/"), strings.HasPrefix(model, "anthropic/"):
		return ProviderClaude
	case strings.HasPrefix(model, "gemini/"), strings.HasPrefix(model, "google/"):
		return ProviderGemini
	case strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "chatgpt-"),
		strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"), strings.HasPrefix(model, "o4"):
		return ProviderOpenAI
	case strings.HasPrefix(model, "claude-"):
		return ProviderClaude
	case strings.HasPrefix(model, "gemini-"):
		return ProviderGemini
	}

	return fallback
}

// NormalizeModel removes provider prefix from model name if present
func NormalizeModel(model string) string {
	prefixes := []string{"openai/", "claude/", "anthropic/", "gemini/", "google/"}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

// RequiredProviders returns the distinct providers needed to serve the given models
func (f *ProviderFactory) RequiredProviders(models ...string) []common.LLMProvider {
	seen := make(map[ProviderType]bool)
	var out []common.LLMProvider
	for _, m := range models {
		p := f.DetectProvider(m)
		if !seen[p] {
			seen[p] = true
			out = append(out, common.LLMProvider(p))
		}
	}
	return out
}

// GetDefaultModel returns the default model for a provider
func (f *ProviderFactory) GetDefaultModel(provider ProviderType) string {
	switch provider {
	case ProviderClaude:
		return f.claudeConfig.Model
	case ProviderGemini:
		return f.geminiConfig.Model
	default:
		return f.openaiConfig.Model
	}
}

// GetOpenAIClient returns an OpenAI client, creating one if necessary
func (f *ProviderFactory) GetOpenAIClient() (*openai.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.openaiClient != nil {
		return f.openaiClient, nil
	}
	if f.openaiConfig.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (set OPENAI_API_KEY or openai.api_key in config)")
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(f.openaiConfig.APIKey),
		// retries are handled by withRetry
		openaioption.WithMaxRetries(0),
	}
	if f.openaiConfig.BaseURL != "" {
		opts = append(opts, openaioption.WithBaseURL(f.openaiConfig.BaseURL))
	}

	client := openai.NewClient(opts...)
	f.openaiClient = &client
	return f.openaiClient, nil
}

// GetClaudeClient returns a Claude client, creating one if necessary
func (f *ProviderFactory) GetClaudeClient() (*anthropic.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claudeClient != nil {
		return f.claudeClient, nil
	}
	if f.claudeConfig.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY or claude.api_key in config)")
	}

	client := anthropic.NewClient(
		anthropicoption.WithAPIKey(f.claudeConfig.APIKey),
		anthropicoption.WithMaxRetries(0),
	)
	f.claudeClient = &client
	return f.claudeClient, nil
}

// GetGeminiClient returns a Gemini client, creating one if necessary
func (f *ProviderFactory) GetGeminiClient(ctx context.Context) (*genai.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.geminiClient != nil {
		return f.geminiClient, nil
	}
	if f.geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key in config)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  f.geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	f.geminiClient = client
	return client, nil
}

// GenerateContent generates content using the appropriate provider based on model
func (f *ProviderFactory) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	provider := f.DetectProvider(request.Model)
	model := NormalizeModel(request.Model)
	if model == "" {
		model = f.GetDefaultModel(provider)
	}

	f.logger.Debug().
		Str("provider", string(provider)).
		Str("model", model).
		Int("message_count", len(request.Messages)).
		Msg("Generating content with provider")

	if f.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.callTimeout)
		defer cancel()
	}

	switch provider {
	case ProviderClaude:
		return f.generateWithClaude(ctx, request, model)
	case ProviderGemini:
		return f.generateWithGemini(ctx, request, model)
	default:
		return f.generateWithOpenAI(ctx, request, model)
	}
}

// Close releases provider clients
func (f *ProviderFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.openaiClient = nil
	f.claudeClient = nil
	f.geminiClient = nil
	return nil
}

// validateMessages checks that at least one message has role "user"
func validateMessages(messages []interfaces.Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("messages cannot be empty")
	}
	for _, msg := range messages {
		if msg.Role == "user" {
			return nil
		}
	}
	return fmt.Errorf("at least one message must have role 'user'")
}
