// Package oracle is the text-generation collaborator used by the team
// runtime. It wraps the gollm library (github.com/teilomillet/gollm) behind a
// provider-agnostic Client with middleware, so the rest of the system only
// ever sees Request/Response and a typed error hierarchy.
//
// The Client routes by provider name and applies middleware around every
// call; RetryMiddleware adds exponential backoff for retryable errors.
//
//	adapter, _ := oracle.NewGollmAdapter("openai", os.Getenv("OPENAI_API_KEY"))
//	client := oracle.NewClient(
//	    oracle.WithProvider("openai", adapter),
//	    oracle.WithMiddleware(oracle.RetryMiddleware(oracle.DefaultRetryPolicy())),
//	)
//
//	resp, err := client.Complete(ctx, oracle.Request{
//	    Model:    "gpt-4o-mini",
//	    Messages: []oracle.Message{oracle.UserMessage("Hello")},
//	})
//
// GenerateCommitMessage is a small high-level helper for the auto-commit
// path; it degrades to a deterministic fallback instead of failing.
package oracle
