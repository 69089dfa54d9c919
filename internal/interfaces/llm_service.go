package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// NarrativeGenerator turns prompts into model-written prose. Every component
// that needs language generation (router, insight agents, scorer, document
// Q&A) depends on this interface rather than a concrete provider so tests can
// substitute a scripted fake.
type NarrativeGenerator interface {
	// Generate sends a single user prompt and returns the reply text.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - prompt: Complete prompt text
	//
	// Returns:
	//   - string: Generated reply
	//   - error: Transport or provider failure
	Generate(ctx context.Context, prompt string) (string, error)

	// Chat generates a reply for a multi-turn conversation. A leading
	// "system" message is passed to the provider as its system instruction.
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Embedder produces dense vectors for text. All vectors returned by one
// embedder share the same dimension.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
