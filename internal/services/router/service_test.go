package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
)

type mockGenerator struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return m.generateFunc(ctx, prompt)
}

func (m *mockGenerator) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return m.generateFunc(ctx, messages[len(messages)-1].Content)
}

func newRouter(t *testing.T, reply string, err error) *Service {
	t.Helper()
	gen := &mockGenerator{generateFunc: func(ctx context.Context, prompt string) (string, error) {
		return reply, err
	}}
	svc, newErr := NewService(gen, "", arbor.NewLogger())
	require.NoError(t, newErr)
	return svc
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		err         error
		wantAgents  []models.AgentKind
		wantReason  string
		reasonCheck func(t *testing.T, reason string)
	}{
		{
			name:       "single agent",
			reply:      `{"agents": ["RATIO_AGENT"], "reason": "ROE question"}`,
			wantAgents: []models.AgentKind{models.AgentRatio},
			wantReason: "ROE question",
		},
		{
			name:       "full score with prose around json and canonical ordering",
			reply:      "Sure!\n```json\n{\"agents\": [\"CONCALL_AGENT\", \"FORENSIC_AGENT\", \"RATIO_AGENT\", \"RATIO_AGENT\"], \"reason\": \"full score\"}\n```",
			wantAgents: []models.AgentKind{models.AgentForensic, models.AgentRatio, models.AgentConcall},
			wantReason: "full score",
		},
		{
			name:       "unknown names are dropped",
			reply:      `{"agents": ["MACRO_AGENT", "concall"], "reason": "tone"}`,
			wantAgents: []models.AgentKind{models.AgentConcall},
			wantReason: "tone",
		},
		{
			name:       "generator error",
			err:        errors.New("connection refused"),
			wantAgents: []models.AgentKind{models.AgentForensic},
			wantReason: "LLM API error: connection refused",
		},
		{
			name:       "no braces",
			reply:      "I think you want ratios.",
			wantAgents: []models.AgentKind{models.AgentForensic},
			wantReason: "JSON parsing error: no JSON object found in reply",
		},
		{
			name:       "malformed json",
			reply:      `{"agents": [RATIO_AGENT]}`,
			wantAgents: []models.AgentKind{models.AgentForensic},
			reasonCheck: func(t *testing.T, reason string) {
				assert.True(t, strings.HasPrefix(reason, "JSON parsing error: "), reason)
			},
		},
		{
			name:       "empty agents",
			reply:      `{"agents": [], "reason": "none"}`,
			wantAgents: []models.AgentKind{models.AgentForensic},
			reasonCheck: func(t *testing.T, reason string) {
				assert.True(t, strings.HasPrefix(reason, "JSON parsing error: "), reason)
			},
		},
		{
			name:       "only unknown agents",
			reply:      `{"agents": ["MACRO_AGENT"], "reason": "macro"}`,
			wantAgents: []models.AgentKind{models.AgentForensic},
			reasonCheck: func(t *testing.T, reason string) {
				assert.True(t, strings.HasPrefix(reason, "Unexpected error: "), reason)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := newRouter(t, tt.reply, tt.err).Route(context.Background(), "query")

			assert.Equal(t, tt.wantAgents, decision.Agents)
			if tt.reasonCheck != nil {
				tt.reasonCheck(t, decision.Reason)
			} else {
				assert.Equal(t, tt.wantReason, decision.Reason)
			}
		})
	}
}

func TestRoutePromptEmbedsQuery(t *testing.T) {
	var prompt string
	gen := &mockGenerator{generateFunc: func(ctx context.Context, p string) (string, error) {
		prompt = p
		return `{"agents": ["FORENSIC_AGENT"], "reason": "fraud"}`, nil
	}}
	svc, err := NewService(gen, "", arbor.NewLogger())
	require.NoError(t, err)

	svc.Route(context.Background(), "Any audit red flags at XYZ?")
	assert.Contains(t, prompt, "User: Any audit red flags at XYZ?")
	assert.Contains(t, prompt, "FORENSIC_AGENT")
}

func TestRouteRecoversFromPanic(t *testing.T) {
	gen := &mockGenerator{generateFunc: func(ctx context.Context, p string) (string, error) {
		panic("boom")
	}}
	svc, err := NewService(gen, "", arbor.NewLogger())
	require.NoError(t, err)

	decision := svc.Route(context.Background(), "q")
	assert.Equal(t, []models.AgentKind{models.AgentForensic}, decision.Agents)
	assert.Equal(t, "Unexpected error: panic: boom", decision.Reason)
}
