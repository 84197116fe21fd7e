package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
	"time"
)

// ExecResult holds the result of a command execution. Timeouts are reported
// through TimedOut rather than an error so the caller can relay a structured
// outcome to the model.
type ExecResult struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exit_code"`
	TimedOut   bool   `json:"timed_out"`
	Blocked    bool   `json:"blocked"`
	Reason     string `json:"reason,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Output returns combined stdout and stderr.
func (r ExecResult) Output() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// ExecOptions configures a command execution.
type ExecOptions struct {
	TimeoutMs     int               // 0 picks a default based on the command
	SlowTimeoutMs int               // used for allow-listed slow commands
	EnvVars       map[string]string // appended to the filtered environment
}

// Commands that legitimately take longer than the default timeout.
var slowCommands = []string{
	"tsc",
	"npx tsc",
	"npm audit",
	"npm outdated",
}

// Long-lived dev-server commands are refused outright: the preview
// environment runs the dev server itself, and these would hang the run.
var blockedCommands = []string{
	"npm run dev", "npm start", "npm run build",
	"yarn dev", "yarn start", "yarn build",
	"pnpm dev", "pnpm start", "pnpm build",
	"vite",
	"react-scripts start",
	"next dev", "next start",
}

func isSlowCommand(command string) bool {
	lower := strings.ToLower(command)
	for _, c := range slowCommands {
		if strings.Contains(lower, c) {
			return true
		}
	}
	return false
}

func blockedReason(command string) string {
	lower := strings.ToLower(strings.TrimSpace(command))
	for _, c := range blockedCommands {
		if strings.Contains(lower, c) {
			return fmt.Sprintf("command %q is blocked: the preview environment manages the dev server; edit files and the preview reloads automatically", c)
		}
	}
	if strings.Contains(command, "&") && !strings.HasSuffix(strings.TrimSpace(command), "&&") {
		return "background commands (with &) are blocked: they leave processes hanging past the run"
	}
	return ""
}

// sensitiveEnvSuffixes are excluded from the child environment.
var sensitiveEnvSuffixes = []string{
	"_API_KEY", "_SECRET", "_TOKEN", "_PASSWORD", "_CREDENTIAL",
}

var safeEnvVars = map[string]bool{
	"PATH": true, "HOME": true, "USER": true, "SHELL": true,
	"LANG": true, "TERM": true, "TMPDIR": true,
	"GOPATH": true, "GOROOT": true, "NVM_DIR": true,
	"XDG_CONFIG_HOME": true, "XDG_DATA_HOME": true, "XDG_CACHE_HOME": true,
}

func isSensitiveEnvVar(name string) bool {
	upper := strings.ToUpper(name)
	for _, suffix := range sensitiveEnvSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return true
		}
	}
	return false
}

func filterEnvironment() []string {
	var filtered []string
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if safeEnvVars[parts[0]] || !isSensitiveEnvVar(parts[0]) {
			filtered = append(filtered, env)
		}
	}
	return filtered
}

// ExecCommand runs a shell command inside the workspace root with a timeout.
// Timed-out and blocked commands are reported in the result, not as errors;
// only failures to start the process at all return an error.
func (w *Workspace) ExecCommand(ctx context.Context, command string, opts ExecOptions) (*ExecResult, error) {
	if reason := blockedReason(command); reason != "" {
		return &ExecResult{Blocked: true, Reason: reason, ExitCode: -1}, nil
	}

	timeoutMs := opts.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 15000
	}
	if isSlowCommand(command) {
		slow := opts.SlowTimeoutMs
		if slow <= 0 {
			slow = 30000
		}
		if slow > timeoutMs {
			timeoutMs = slow
		}
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	shell, shellArg := "/bin/bash", "-c"
	if runtime.GOOS == "windows" {
		shell, shellArg = "cmd.exe", "/c"
	}

	cmd := exec.CommandContext(ctx, shell, shellArg, command)
	cmd.Dir = w.root
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	env := filterEnvironment()
	for k, v := range opts.EnvVars {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &ExecResult{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMs: duration.Milliseconds(),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.TimedOut = true
			result.ExitCode = -1
			result.Reason = fmt.Sprintf("command exceeded %dms and was terminated", timeoutMs)
			if cmd.Process != nil {
				_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			}
		} else if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("exec_command: %w", err)
		}
	}

	return result, nil
}
