package team

import (
	"strings"

	"github.com/martinemde/tandem/internal/config"
)

// Scheduler decides which role speaks next. It is a pure function of the
// history: identical input always yields identical output, and it holds no
// mutable state beyond the configured sentinel strings.
type Scheduler struct {
	sentinels config.Sentinels
}

// NewScheduler builds a scheduler with the given sentinel set.
func NewScheduler(sentinels config.Sentinels) *Scheduler {
	return &Scheduler{sentinels: sentinels}
}

// Select returns the next speaker. ok is false when no speaker can be
// chosen: either the last executor message carries the terminate sentinel
// (termination is the policy's call, not the scheduler's) or no rule
// matched. The caller applies its own fallback for the latter case.
func (s *Scheduler) Select(history History) (speaker RoleID, ok bool) {
	last, exists := history.Last()
	if !exists {
		return RoleExecutor, true
	}

	switch last.Source {
	case string(RolePlanner):
		return RoleExecutor, true

	case string(RoleExecutor):
		switch {
		case strings.Contains(last.Content, s.sentinels.Delegate):
			return RolePlanner, true
		case strings.Contains(last.Content, s.sentinels.SubtaskDone):
			return RolePlanner, true
		case strings.Contains(last.Content, s.sentinels.Terminate):
			return "", false
		default:
			// Mid-sequence tool work stays with the executor.
			return RoleExecutor, true
		}

	}

	if last.Kind == KindToolCallResult {
		// A role must see tool output before anyone else speaks.
		return RoleExecutor, true
	}

	if last.Source == SourceUser {
		if strings.Contains(last.Content, s.sentinels.DirectEditTag) {
			return RoleExecutor, true
		}
		return RolePlanner, true
	}

	return "", false
}
