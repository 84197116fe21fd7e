package team

import (
	"encoding/json"
	"strings"
	"time"
)

// RecordType classifies an interaction record.
type RecordType string

const (
	RecordThought      RecordType = "thought"
	RecordToolCall     RecordType = "tool_call"
	RecordToolResponse RecordType = "tool_response"
)

// InteractionRecord is one append-only entry of a run's interaction log.
// Records are never mutated after append and their order is the order of
// generation.
type InteractionRecord struct {
	AgentName     string         `json:"agent_name"`
	MessageType   RecordType     `json:"message_type"`
	Content       string         `json:"content"`
	ToolName      string         `json:"tool_name,omitempty"`
	ToolArguments map[string]any `json:"tool_arguments,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// DecodeToolArguments parses raw tool arguments tolerantly. Anything that is
// not a JSON object comes back as {"raw": original} so a malformed oracle
// payload never aborts the run.
func DecodeToolArguments(raw string) map[string]any {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		var out map[string]any
		if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
			return out
		}
	}
	return map[string]any{"raw": raw}
}

// IsSentinelOnly reports whether content consists solely of one of the given
// control sentinels, ignoring surrounding whitespace. Such messages steer
// the scheduler but carry nothing worth recording as a thought.
func IsSentinelOnly(content string, sentinels ...string) bool {
	trimmed := strings.TrimSpace(content)
	for _, s := range sentinels {
		if trimmed == s {
			return true
		}
	}
	return false
}

// previewLimit bounds tool output echoed into diagnostics. The full content
// is always persisted; only logging is truncated.
const previewLimit = 200

// Preview returns s truncated for diagnostic logging.
func Preview(s string) string {
	if len(s) <= previewLimit {
		return s
	}
	return s[:previewLimit] + "..."
}
