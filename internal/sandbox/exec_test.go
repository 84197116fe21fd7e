package sandbox

import (
	"context"
	"strings"
	"testing"
)

func testWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return ws
}

func TestExecCommandSuccess(t *testing.T) {
	ws := testWorkspace(t)
	res, err := ws.ExecCommand(context.Background(), "echo hello", ExecOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 0 || strings.TrimSpace(res.Stdout) != "hello" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestExecCommandFailureIsStructured(t *testing.T) {
	ws := testWorkspace(t)
	res, err := ws.ExecCommand(context.Background(), "exit 3", ExecOptions{})
	if err != nil {
		t.Fatalf("command failure must not be an error: %v", err)
	}
	if res.ExitCode != 3 || res.TimedOut {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestExecCommandTimeout(t *testing.T) {
	ws := testWorkspace(t)
	res, err := ws.ExecCommand(context.Background(), "sleep 5", ExecOptions{TimeoutMs: 100})
	if err != nil {
		t.Fatalf("timeout must not be an error: %v", err)
	}
	if !res.TimedOut {
		t.Fatalf("expected TimedOut, got %+v", res)
	}
	if res.Reason == "" {
		t.Error("timeout should carry a descriptive reason")
	}
}

func TestExecCommandBlocked(t *testing.T) {
	ws := testWorkspace(t)
	for _, cmd := range []string{"npm run dev", "vite", "next dev --port 3000"} {
		res, err := ws.ExecCommand(context.Background(), cmd, ExecOptions{})
		if err != nil {
			t.Fatalf("%s: blocked must not be an error: %v", cmd, err)
		}
		if !res.Blocked || res.Reason == "" {
			t.Errorf("%s: expected blocked with a reason, got %+v", cmd, res)
		}
	}
}

func TestExecCommandNotBlocked(t *testing.T) {
	ws := testWorkspace(t)
	res, err := ws.ExecCommand(context.Background(), "ls", ExecOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Blocked {
		t.Errorf("ls should not be blocked: %+v", res)
	}
}

func TestExecCommandBackgroundBlocked(t *testing.T) {
	ws := testWorkspace(t)
	res, err := ws.ExecCommand(context.Background(), "node server.js &", ExecOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Blocked {
		t.Errorf("backgrounded command should be blocked: %+v", res)
	}
}

func TestSlowCommandAllowList(t *testing.T) {
	if !isSlowCommand("npx tsc --noEmit") {
		t.Error("tsc should get the slow timeout")
	}
	if !isSlowCommand("npm audit") {
		t.Error("npm audit should get the slow timeout")
	}
	if isSlowCommand("ls -la") {
		t.Error("ls does not get the slow timeout")
	}
}
