package agents

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
	"github.com/ternarybob/fundalyst/internal/services/heuristics"
)

// LoopState is a state of the forensic action loop
type LoopState int

const (
	// StateThinking waits on the next model reply
	StateThinking LoopState = iota
	// StateAwaitingToolResult runs a requested search
	StateAwaitingToolResult
	// StateDone is terminal
	StateDone
)

func (s LoopState) String() string {
	switch s {
	case StateThinking:
		return "THINKING"
	case StateAwaitingToolResult:
		return "AWAITING_TOOL_RESULT"
	case StateDone:
		return "DONE"
	}
	return fmt.Sprintf("LoopState(%d)", int(s))
}

// Loop budget defaults
const (
	DefaultMaxIterations = 6
	DefaultLoopTimeout   = 2 * time.Minute
)

const (
	loopKickoff        = "Begin your investigation."
	loopNudge          = "Continue. Reply with either \"Action: search[<query>]\" or \"Final Answer: <answer>\"."
	observationResults = 5
	observationChars   = 500
	exhaustedNarrative = "Analysis incomplete: the investigation budget ran out before a final answer."
)

var (
	finalAnswerRe = regexp.MustCompile(`(?i)final answer:`)
	actionRe      = regexp.MustCompile(`(?i)action:\s*search\[([^\]]+)\]`)
)

// LoopResult is the outcome of an action loop run
type LoopResult struct {
	Answer     string
	Iterations int
	Exhausted  bool
	Messages   []interfaces.Message
}

// ActionLoop drives a bounded think/search/answer conversation
type ActionLoop struct {
	generator     interfaces.NarrativeGenerator
	search        interfaces.SearchGateway
	maxIterations int
	timeout       time.Duration
	logger        arbor.ILogger
}

// NewActionLoop creates an action loop. Non-positive budgets use the defaults.
func NewActionLoop(generator interfaces.NarrativeGenerator, search interfaces.SearchGateway, maxIterations int, timeout time.Duration, logger arbor.ILogger) *ActionLoop {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if timeout <= 0 {
		timeout = DefaultLoopTimeout
	}
	return &ActionLoop{
		generator:     generator,
		search:        search,
		maxIterations: maxIterations,
		timeout:       timeout,
		logger:        logger,
	}
}

// Run executes the loop with system as the instruction.
// The loop ends on a "Final Answer:" reply or when the iteration or time budget
// is spent, in which case the last reply becomes the answer and Exhausted is set.
// Generator errors and cancellation of ctx are returned.
func (l *ActionLoop) Run(ctx context.Context, system string) (*LoopResult, error) {
	loopCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	messages := []interfaces.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: loopKickoff},
	}

	result := &LoopResult{}
	state := StateThinking
	var lastReply, pendingQuery string

	for state != StateDone {
		switch state {
		case StateThinking:
			if result.Iterations >= l.maxIterations || loopCtx.Err() != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				result.Exhausted = true
				state = StateDone
				continue
			}

			reply, err := l.generator.Chat(loopCtx, messages)
			if err != nil {
				if ctx.Err() == nil && errors.Is(loopCtx.Err(), context.DeadlineExceeded) {
					result.Exhausted = true
					state = StateDone
					continue
				}
				return nil, err
			}
			result.Iterations++
			reply = strings.TrimSpace(reply)
			lastReply = reply
			messages = append(messages, interfaces.Message{Role: "assistant", Content: reply})

			if loc := finalAnswerRe.FindStringIndex(reply); loc != nil {
				result.Answer = strings.TrimSpace(reply[loc[1]:])
				state = StateDone
				continue
			}

			if m := actionRe.FindStringSubmatch(reply); m != nil {
				pendingQuery = strings.TrimSpace(m[1])
				state = StateAwaitingToolResult
				continue
			}

			messages = append(messages, interfaces.Message{Role: "user", Content: loopNudge})

		case StateAwaitingToolResult:
			l.logger.Debug().
				Str("query", pendingQuery).
				Int("iteration", result.Iterations).
				Msg("Action loop search")

			results, err := l.search.Search(loopCtx, pendingQuery)
			messages = append(messages, interfaces.Message{Role: "user", Content: observation(results, err)})
			pendingQuery = ""
			state = StateThinking
		}
	}

	if result.Exhausted {
		result.Answer = lastReply
		if result.Answer == "" {
			result.Answer = exhaustedNarrative
		}
		l.logger.Warn().
			Int("iterations", result.Iterations).
			Int("max_iterations", l.maxIterations).
			Dur("timeout", l.timeout).
			Msg("Action loop budget exhausted without a final answer")
	}

	result.Messages = messages
	return result, nil
}

func observation(results []models.SearchResult, err error) string {
	if err != nil {
		return fmt.Sprintf("Observation: search failed: %v", err)
	}
	if len(results) == 0 {
		return "Observation: no results found."
	}

	var b strings.Builder
	b.WriteString("Observation:\n")
	for i, r := range results {
		if i >= observationResults {
			break
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", r.Title, r.URL, heuristics.Truncate(strings.TrimSpace(r.Content), observationChars))
	}
	return strings.TrimRight(b.String(), "\n")
}
