package team

import (
	"testing"

	"github.com/martinemde/tandem/internal/config"
)

func testScheduler() *Scheduler {
	return NewScheduler(config.DefaultSentinels())
}

func TestSelectEmptyHistory(t *testing.T) {
	speaker, ok := testScheduler().Select(History{})
	if !ok || speaker != RoleExecutor {
		t.Errorf("empty history: got (%v, %v), want (Executor, true)", speaker, ok)
	}
}

func TestSelectRules(t *testing.T) {
	cases := []struct {
		name    string
		last    Message
		want    RoleID
		wantOK  bool
	}{
		{
			name:   "after planner, executor acts",
			last:   TextMessage(string(RolePlanner), "Please update the header."),
			want:   RoleExecutor,
			wantOK: true,
		},
		{
			name:   "executor delegates back",
			last:   TextMessage(string(RoleExecutor), "The requirements are unclear. DELEGATE_TO_PLANNER: which color?"),
			want:   RolePlanner,
			wantOK: true,
		},
		{
			name:   "executor finishes subtask",
			last:   TextMessage(string(RoleExecutor), "Header updated. SUBTASK_DONE"),
			want:   RolePlanner,
			wantOK: true,
		},
		{
			name:   "executor terminate defers to policy",
			last:   TextMessage(string(RoleExecutor), "TERMINATE"),
			wantOK: false,
		},
		{
			name:   "executor continues tool sequence",
			last:   TextMessage(string(RoleExecutor), "Reading the file first."),
			want:   RoleExecutor,
			wantOK: true,
		},
		{
			name:   "tool result returns to executor",
			last:   ToolResultMessage("read_file", "1 | package main"),
			want:   RoleExecutor,
			wantOK: true,
		},
		{
			name:   "user request routes through planner",
			last:   TextMessage(SourceUser, "Make the landing page responsive"),
			want:   RolePlanner,
			wantOK: true,
		},
		{
			name:   "direct edit bypasses planning",
			last:   TextMessage(SourceUser, "[DIRECT_EDIT] change the button label to Save"),
			want:   RoleExecutor,
			wantOK: true,
		},
	}

	s := testScheduler()
	for _, tc := range cases {
		speaker, ok := s.Select(History{tc.last})
		if ok != tc.wantOK || (ok && speaker != tc.want) {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", tc.name, speaker, ok, tc.want, tc.wantOK)
		}
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	s := testScheduler()
	history := History{
		TextMessage(SourceUser, "build a todo list"),
		TextMessage(string(RolePlanner), "Executor: create the component."),
		TextMessage(string(RoleExecutor), "Working on it."),
	}
	first, firstOK := s.Select(history)
	for i := 0; i < 50; i++ {
		got, ok := s.Select(history)
		if got != first || ok != firstOK {
			t.Fatalf("call %d: got (%v, %v), want (%v, %v)", i, got, ok, first, firstOK)
		}
	}
}

func TestSelectUsesConfiguredSentinels(t *testing.T) {
	custom := config.Sentinels{
		Delegate:    "ASK_BOSS",
		SubtaskDone: "STEP_OK",
		Terminate:   "ALL_DONE",
	}
	s := NewScheduler(custom)

	speaker, ok := s.Select(History{TextMessage(string(RoleExecutor), "finished, STEP_OK")})
	if !ok || speaker != RolePlanner {
		t.Errorf("custom subtask sentinel: got (%v, %v)", speaker, ok)
	}

	// The default sentinel text is just prose under a custom set.
	speaker, ok = s.Select(History{TextMessage(string(RoleExecutor), "SUBTASK_DONE")})
	if !ok || speaker != RoleExecutor {
		t.Errorf("default sentinel should not match custom set: got (%v, %v)", speaker, ok)
	}
}
