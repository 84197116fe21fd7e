// Package team implements the two-role turn-taking loop: a planner that
// breaks a request into subtasks and an executor that carries them out with
// tools. The scheduler decides who speaks next, the termination policy
// decides when the run stops, and the pipeline drives the loop while
// streaming and checkpointing interaction records.
package team

import "time"

// RoleID identifies one of the cooperating roles.
type RoleID string

const (
	RolePlanner  RoleID = "Planner"
	RoleExecutor RoleID = "Executor"

	// SourceUser and SourceSystem are non-role message sources.
	SourceUser   = "user"
	SourceSystem = "system"
)

// MessageKind is the closed union of message shapes the scheduler and
// pipeline operate on.
type MessageKind string

const (
	KindText           MessageKind = "text"
	KindToolCallReq    MessageKind = "tool_call_request"
	KindToolCallResult MessageKind = "tool_call_result"
)

// Message is one entry in a run's history. Immutable once created.
type Message struct {
	Source    string      `json:"source"` // RoleID, "user", or "system"
	Kind      MessageKind `json:"kind"`
	Content   string      `json:"content"`
	ToolName  string      `json:"tool_name,omitempty"`
	ToolArgs  string      `json:"tool_args,omitempty"` // raw argument text for tool call requests
	Timestamp time.Time   `json:"timestamp"`
}

// History is the ordered message sequence of one run.
type History []Message

// Last returns the final message, or a zero Message when empty.
func (h History) Last() (Message, bool) {
	if len(h) == 0 {
		return Message{}, false
	}
	return h[len(h)-1], true
}

// TextMessage builds a plain text message from the given source.
func TextMessage(source, content string) Message {
	return Message{Source: source, Kind: KindText, Content: content, Timestamp: time.Now().UTC()}
}

// ToolCallMessage builds a tool invocation request attributed to a role.
func ToolCallMessage(source RoleID, toolName, rawArgs string) Message {
	return Message{
		Source:    string(source),
		Kind:      KindToolCallReq,
		Content:   toolName,
		ToolName:  toolName,
		ToolArgs:  rawArgs,
		Timestamp: time.Now().UTC(),
	}
}

// ToolResultMessage builds a tool result message. Tool results carry a
// non-role source so the scheduler routes the next turn back to the role.
func ToolResultMessage(toolName, content string) Message {
	return Message{
		Source:    SourceSystem,
		Kind:      KindToolCallResult,
		Content:   content,
		ToolName:  toolName,
		Timestamp: time.Now().UTC(),
	}
}

// IsRole reports whether source names one of the two roles.
func IsRole(source string) bool {
	return source == string(RolePlanner) || source == string(RoleExecutor)
}
