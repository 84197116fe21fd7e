package oracle

import (
	"context"
	"strings"
	"testing"
)

// scriptedAdapter returns canned responses in order.
type scriptedAdapter struct {
	responses []string
	err       error
	calls     int
}

func (a *scriptedAdapter) Name() string { return "scripted" }

func (a *scriptedAdapter) Complete(_ context.Context, req Request) (*Response, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	idx := a.calls - 1
	if idx >= len(a.responses) {
		idx = len(a.responses) - 1
	}
	return &Response{
		Model:    req.Model,
		Provider: "scripted",
		Message:  AssistantMessage(a.responses[idx]),
	}, nil
}

func scriptedClient(adapter *scriptedAdapter) *Client {
	return NewClient(
		WithProvider("scripted", adapter),
		WithDefaultProvider("scripted"),
	)
}

func TestGenerateCommitMessageParsesJSON(t *testing.T) {
	adapter := &scriptedAdapter{responses: []string{
		"```json\n{\"title\": \"Add dark mode toggle\", \"body\": \"Wires the theme switch into the header.\"}\n```",
	}}
	msg := GenerateCommitMessage(context.Background(), scriptedClient(adapter), "m", "diff --git a/x b/x", "add dark mode")
	if msg.Title != "Add dark mode toggle" {
		t.Errorf("unexpected title: %q", msg.Title)
	}
	if !strings.Contains(msg.Full(), "Wires the theme switch") {
		t.Errorf("body missing from full message: %q", msg.Full())
	}
}

func TestGenerateCommitMessageFallsBackOnError(t *testing.T) {
	adapter := &scriptedAdapter{err: &ServerError{ProviderError: ProviderError{OracleError: OracleError{Message: "boom"}}}}
	msg := GenerateCommitMessage(context.Background(), scriptedClient(adapter), "m", "diff", "make the header sticky")
	if msg.Title != "Auto-commit: make the header sticky" {
		t.Errorf("unexpected fallback: %q", msg.Title)
	}
}

func TestGenerateCommitMessageFallsBackOnGarbage(t *testing.T) {
	adapter := &scriptedAdapter{responses: []string{"I cannot produce JSON today."}}
	msg := GenerateCommitMessage(context.Background(), scriptedClient(adapter), "m", "diff", "fix footer")
	if !strings.HasPrefix(msg.Title, "Auto-commit: ") {
		t.Errorf("expected fallback, got %q", msg.Title)
	}
}

func TestGenerateCommitMessageNilClient(t *testing.T) {
	msg := GenerateCommitMessage(context.Background(), nil, "m", "diff", "")
	if msg.Title != "Auto-commit: Apply assistant changes" {
		t.Errorf("unexpected empty-request fallback: %q", msg.Title)
	}
}

func TestGenerateCommitMessageTruncatesLongRequest(t *testing.T) {
	long := strings.Repeat("x", 200)
	msg := GenerateCommitMessage(context.Background(), nil, "m", "diff", long)
	if len(msg.Title) > len("Auto-commit: ")+60 {
		t.Errorf("fallback title not truncated: %d chars", len(msg.Title))
	}
}
