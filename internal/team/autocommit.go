package team

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/martinemde/tandem/internal/gitops"
	"github.com/martinemde/tandem/internal/oracle"
)

// AutoCommitter commits a run's accumulated file changes with an
// oracle-generated message. Every failure path downgrades to an
// unsuccessful CommitResult; the parent request never fails because a
// commit did.
type AutoCommitter struct {
	client *oracle.Client
	model  string
	logger *log.Logger
}

// NewAutoCommitter builds the post-run committer.
func NewAutoCommitter(client *oracle.Client, model string, logger *log.Logger) *AutoCommitter {
	if logger == nil {
		logger = log.Default()
	}
	return &AutoCommitter{client: client, model: model, logger: logger}
}

// AutoCommit diffs the project working tree and, when there are changes,
// commits them with a message generated from the diff and the originating
// request.
func (a *AutoCommitter) AutoCommit(ctx context.Context, projectDir, userRequest string) CommitResult {
	repo := gitops.Open(projectDir)

	diff, err := repo.Diff(ctx, "")
	if err != nil {
		return CommitResult{Success: false, Error: "diff failed: " + err.Error()}
	}
	if diff == "" {
		return CommitResult{Success: true, Message: "no changes to commit"}
	}

	// Message generation never errors; it falls back to a deterministic
	// message built from the request.
	msg := oracle.GenerateCommitMessage(ctx, a.client, a.model, diff, userRequest)

	committed, err := repo.CommitAll(ctx, msg.Full(), nil)
	if err != nil {
		return CommitResult{Success: false, Error: "commit failed: " + err.Error()}
	}
	if !committed {
		return CommitResult{Success: true, Message: "no changes to commit"}
	}
	a.logger.Info("auto-committed changes", "project", projectDir, "title", msg.Title)
	return CommitResult{Success: true, Message: msg.Title}
}
