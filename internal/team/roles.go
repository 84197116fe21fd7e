package team

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/martinemde/tandem/internal/config"
	"github.com/martinemde/tandem/internal/oracle"
	"github.com/martinemde/tandem/internal/sandbox"
	"github.com/martinemde/tandem/internal/tools"
)

// Role is one of the two cooperating responders. The planner carries no
// tools; the executor runs tool rounds against the workspace.
type Role struct {
	ID           RoleID
	systemPrompt string
	registry     *tools.Registry // nil for tool-less roles
	maxRounds    int
}

// NewPlanner builds the planning role.
func NewPlanner(sentinels config.Sentinels) *Role {
	return &Role{ID: RolePlanner, systemPrompt: plannerPrompt(sentinels)}
}

// NewExecutor builds the tool-wielding role.
func NewExecutor(sentinels config.Sentinels, registry *tools.Registry, maxRounds int) *Role {
	if maxRounds <= 0 {
		maxRounds = 25
	}
	return &Role{
		ID:           RoleExecutor,
		systemPrompt: executorPrompt(sentinels),
		registry:     registry,
		maxRounds:    maxRounds,
	}
}

// Invoke runs one turn of the role: an oracle call, plus tool rounds for
// roles that carry tools. Every produced message is delivered through emit
// in generation order; the caller owns history bookkeeping.
func (r *Role) Invoke(ctx context.Context, client *oracle.Client, cfg config.Oracle, history History, ws *sandbox.Workspace, emit func(Message)) error {
	working := history

	rounds := r.maxRounds
	if r.registry == nil {
		rounds = 1
	}

	for round := 0; round < rounds; round++ {
		req := r.buildRequest(cfg, working)
		resp, err := client.Complete(ctx, req)
		if err != nil {
			return fmt.Errorf("%s oracle call: %w", r.ID, err)
		}

		if text := resp.Text(); text != "" {
			msg := TextMessage(string(r.ID), text)
			emit(msg)
			working = append(working, msg)
		}

		calls := resp.ToolCalls()
		if r.registry == nil || len(calls) == 0 {
			return nil
		}

		// Tool calls execute strictly in order; the workspace is shared
		// and results must land in sequence.
		for _, call := range calls {
			callMsg := ToolCallMessage(r.ID, call.Name, string(call.Arguments))
			emit(callMsg)
			working = append(working, callMsg)

			output := r.executeTool(ctx, call, ws)
			resultMsg := ToolResultMessage(call.Name, output)
			emit(resultMsg)
			working = append(working, resultMsg)
		}
	}
	return nil
}

// executeTool runs one tool call. Failures become result text so the role
// sees the error and can adapt; nothing raises past the tool boundary.
func (r *Role) executeTool(ctx context.Context, call oracle.ToolCall, ws *sandbox.Workspace) string {
	tool := r.registry.Get(call.Name)
	if tool == nil {
		return fmt.Sprintf("Error: unknown tool %q", call.Name)
	}
	output, err := tool.Execute(ctx, call.Arguments, ws)
	if err != nil {
		return fmt.Sprintf("Error running %s: %v", call.Name, err)
	}
	return output
}

func (r *Role) buildRequest(cfg config.Oracle, history History) oracle.Request {
	msgs := []oracle.Message{oracle.SystemMessage(r.systemPrompt)}
	for _, m := range history {
		msgs = append(msgs, r.convert(m))
	}

	req := oracle.Request{
		Model:    cfg.Model,
		Provider: cfg.Provider,
		Messages: msgs,
	}
	if cfg.Temperature > 0 {
		t := cfg.Temperature
		req.Temperature = &t
	}
	if cfg.MaxTokens > 0 {
		n := cfg.MaxTokens
		req.MaxTokens = &n
	}
	if r.registry != nil {
		req.ToolDefs = r.registry.Definitions()
		req.ToolChoice = &oracle.ToolChoice{Mode: "auto"}
	}
	return req
}

// convert maps a history message into the role's own view of the
// conversation. The role's past messages are assistant turns; everything
// else arrives as labeled user content.
func (r *Role) convert(m Message) oracle.Message {
	switch {
	case m.Source == string(r.ID) && m.Kind == KindText:
		return oracle.AssistantMessage(m.Content)
	case m.Kind == KindToolCallReq:
		args := m.ToolArgs
		if args == "" {
			args = "{}"
		}
		return oracle.UserMessage(fmt.Sprintf("[Tool Call by %s] %s(%s)", m.Source, m.ToolName, compactJSON(args)))
	case m.Kind == KindToolCallResult:
		return oracle.UserMessage(fmt.Sprintf("[Tool Result: %s] %s", m.ToolName, m.Content))
	default:
		return oracle.UserMessage(fmt.Sprintf("[%s] %s", m.Source, m.Content))
	}
}

func compactJSON(raw string) string {
	var buf json.RawMessage
	if err := json.Unmarshal([]byte(raw), &buf); err != nil {
		return raw
	}
	out, err := json.Marshal(buf)
	if err != nil {
		return raw
	}
	return string(out)
}
