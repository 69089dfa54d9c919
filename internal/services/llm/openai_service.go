package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"

	"github.com/ternarybob/fundalyst/internal/interfaces"
)

// convertMessagesToOpenAI converts []interfaces.Message to chat completion params.
// Unlike the other providers, system messages stay inline.
func convertMessagesToOpenAI(messages []interfaces.Message, systemInstruction string) ([]openai.ChatCompletionMessageParamUnion, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}

	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if systemInstruction != "" {
		out = append(out, openai.SystemMessage(systemInstruction))
	}
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			out = append(out, openai.SystemMessage(msg.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}

	return out, nil
}

// generateWithOpenAI sends a request to the chat completions API
func (f *ProviderFactory) generateWithOpenAI(ctx context.Context, request *ContentRequest, model string) (*ContentResponse, error) {
	client, err := f.GetOpenAIClient()
	if err != nil {
		return nil, err
	}

	messages, err := convertMessagesToOpenAI(request.Messages, request.SystemInstruction)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(float64(request.Temperature)),
	}
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.openaiConfig.MaxTokens
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(maxTokens))
	}

	resp, err := withRetry(ctx, f.retryConfig, f.logger, ProviderOpenAI, func() (*openai.ChatCompletion, error) {
		return client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	return &ContentResponse{
		Text:     resp.Choices[0].Message.Content,
		Provider: ProviderOpenAI,
		Model:    model,
	}, nil
}
