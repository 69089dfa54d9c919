package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
)

func scriptedChat(replies ...string) *mockGenerator {
	i := 0
	return &mockGenerator{chatFunc: func(ctx context.Context, messages []interfaces.Message) (string, error) {
		if i >= len(replies) {
			return replies[len(replies)-1], nil
		}
		r := replies[i]
		i++
		return r, nil
	}}
}

func TestActionLoopSearchThenAnswer(t *testing.T) {
	search := &mockSearch{searchFunc: func(ctx context.Context, query string) ([]models.SearchResult, error) {
		return []models.SearchResult{{Title: "Auditor resigns", URL: "https://news.example/a", Content: "The statutory auditor resigned citing lack of information."}}, nil
	}}
	gen := scriptedChat(
		"Thought: check auditor history\nAction: search[INFY auditor resignation]",
		"Thought: that is serious\nFinal Answer: Auditor resignation is a red flag. ❌ Risky",
	)

	loop := NewActionLoop(gen, search, 6, time.Minute, arbor.NewLogger())
	result, err := loop.Run(context.Background(), "system prompt")
	require.NoError(t, err)

	assert.Equal(t, "Auditor resignation is a red flag. ❌ Risky", result.Answer)
	assert.Equal(t, 2, result.Iterations)
	assert.False(t, result.Exhausted)
	assert.Equal(t, []string{"INFY auditor resignation"}, search.queries)

	var observations []string
	for _, m := range result.Messages {
		if m.Role == "user" && strings.HasPrefix(m.Content, "Observation:") {
			observations = append(observations, m.Content)
		}
	}
	require.Len(t, observations, 1)
	assert.Contains(t, observations[0], "Auditor resigns (https://news.example/a)")
	assert.Equal(t, "system", result.Messages[0].Role)
}

func TestActionLoopSearchErrorBecomesObservation(t *testing.T) {
	search := &mockSearch{searchFunc: func(ctx context.Context, query string) ([]models.SearchResult, error) {
		return nil, errors.New("quota exceeded")
	}}
	gen := scriptedChat("Action: search[x]", "Final Answer: done")

	result, err := NewActionLoop(gen, search, 6, time.Minute, arbor.NewLogger()).Run(context.Background(), "sys")
	require.NoError(t, err)
	assert.Equal(t, "done", result.Answer)
	assert.Contains(t, result.Messages[3].Content, "Observation: search failed: quota exceeded")
}

func TestActionLoopIterationBudget(t *testing.T) {
	gen := scriptedChat("Thought: still thinking")

	result, err := NewActionLoop(gen, &mockSearch{}, 3, time.Minute, arbor.NewLogger()).Run(context.Background(), "sys")
	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.Equal(t, 3, result.Iterations)
	assert.Equal(t, "Thought: still thinking", result.Answer)

	nudges := 0
	for _, m := range result.Messages {
		if m.Content == loopNudge {
			nudges++
		}
	}
	assert.Equal(t, 3, nudges)
}

func TestActionLoopTimeBudget(t *testing.T) {
	gen := &mockGenerator{chatFunc: func(ctx context.Context, messages []interfaces.Message) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}

	result, err := NewActionLoop(gen, &mockSearch{}, 6, 20*time.Millisecond, arbor.NewLogger()).Run(context.Background(), "sys")
	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.Equal(t, 0, result.Iterations)
	assert.Equal(t, exhaustedNarrative, result.Answer)
}

func TestActionLoopGeneratorErrorPropagates(t *testing.T) {
	gen := &mockGenerator{chatFunc: func(ctx context.Context, messages []interfaces.Message) (string, error) {
		return "", errors.New("401 unauthorized")
	}}

	_, err := NewActionLoop(gen, &mockSearch{}, 6, time.Minute, arbor.NewLogger()).Run(context.Background(), "sys")
	assert.EqualError(t, err, "401 unauthorized")
}

func TestActionLoopCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewActionLoop(scriptedChat("x"), &mockSearch{}, 6, time.Minute, arbor.NewLogger()).Run(ctx, "sys")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoopStateString(t *testing.T) {
	assert.Equal(t, "THINKING", StateThinking.String())
	assert.Equal(t, "AWAITING_TOOL_RESULT", StateAwaitingToolResult.String())
	assert.Equal(t, "DONE", StateDone.String())
}
