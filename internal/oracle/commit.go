package oracle

import (
	"context"
	"encoding/json"
	"strings"
)

const commitMessagePrompt = `You write git commit messages. Given a unified diff
and the user request that produced it, reply with a JSON object of the form
{"title": "...", "body": "..."}. The title is an imperative summary under 70
characters; the body is one to three sentences describing what changed and why.
Reply with the JSON object only.`

const maxCommitDiffChars = 12000

// CommitMessage holds a generated commit title and body.
type CommitMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Full returns the title and body joined as a full commit message.
func (m CommitMessage) Full() string {
	if m.Body == "" {
		return m.Title
	}
	return m.Title + "\n\n" + m.Body
}

// GenerateCommitMessage asks the oracle to summarize a diff into a commit
// message. On any failure it returns a deterministic fallback derived from the
// user request, never an error: commit messages are best-effort.
func GenerateCommitMessage(ctx context.Context, client *Client, model string, diff, userRequest string) CommitMessage {
	fallback := fallbackCommitMessage(userRequest)
	if client == nil {
		return fallback
	}

	if len(diff) > maxCommitDiffChars {
		diff = diff[:maxCommitDiffChars] + "\n[diff truncated]"
	}

	resp, err := client.Complete(ctx, Request{
		Model: model,
		Messages: []Message{
			SystemMessage(commitMessagePrompt),
			UserMessage("User request:\n" + userRequest + "\n\nDiff:\n" + diff),
		},
	})
	if err != nil {
		return fallback
	}

	var msg CommitMessage
	text := resp.Text()
	// The model may wrap the JSON in a code fence; find the object.
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}
	if err := json.Unmarshal([]byte(text), &msg); err != nil || strings.TrimSpace(msg.Title) == "" {
		return fallback
	}
	msg.Title = strings.TrimSpace(msg.Title)
	msg.Body = strings.TrimSpace(msg.Body)
	return msg
}

func fallbackCommitMessage(userRequest string) CommitMessage {
	title := strings.TrimSpace(userRequest)
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	if len(title) > 60 {
		title = title[:60]
	}
	if title == "" {
		title = "Apply assistant changes"
	}
	return CommitMessage{Title: "Auto-commit: " + title}
}
