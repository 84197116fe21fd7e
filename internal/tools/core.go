package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/martinemde/tandem/internal/oracle"
	"github.com/martinemde/tandem/internal/sandbox"
)

func objSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func strProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func intProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc}
}

// ExecConfig carries command timeout configuration into the shell tool.
type ExecConfig struct {
	DefaultTimeoutMs int
	SlowTimeoutMs    int
}

// RegisterCore registers the file, search, and shell tools on a Registry.
func RegisterCore(reg *Registry, execCfg ExecConfig) {
	registerReadFile(reg)
	registerWriteFile(reg)
	registerEditFile(reg)
	registerDeleteFile(reg)
	registerListDir(reg)
	registerGrep(reg)
	registerGlob(reg)
	registerShell(reg, execCfg)
	registerJSONTools(reg)
}

func registerReadFile(reg *Registry) {
	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "read_file",
			Description: "Read a file from the project. Returns line-numbered content.",
			Parameters: objSchema(map[string]interface{}{
				"file_path": strProp("Path to the file, relative to the project root."),
				"offset":    intProp("1-based line number to start reading from."),
				"limit":     intProp("Maximum number of lines to read. Default: 2000."),
			}, "file_path"),
		},
		Execute: func(_ context.Context, arguments json.RawMessage, ws *sandbox.Workspace) (string, error) {
			args, err := ParseArguments(arguments)
			if err != nil {
				return "", err
			}
			filePath, ok := StringArg(args, "file_path")
			if !ok || filePath == "" {
				return "", fmt.Errorf("file_path is required")
			}
			offset, _ := IntArg(args, "offset")
			limit, _ := IntArg(args, "limit")
			if limit == 0 {
				limit = 2000
			}
			return ws.ReadFile(filePath, offset, limit)
		},
	})
}

func registerWriteFile(reg *Registry) {
	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "write_file",
			Description: "Write content to a file. Creates the file and parent directories if needed; never use shell commands to create directories.",
			Parameters: objSchema(map[string]interface{}{
				"file_path": strProp("Path to write to, relative to the project root."),
				"content":   strProp("The full file content to write."),
			}, "file_path", "content"),
		},
		Execute: func(_ context.Context, arguments json.RawMessage, ws *sandbox.Workspace) (string, error) {
			args, err := ParseArguments(arguments)
			if err != nil {
				return "", err
			}
			filePath, ok := StringArg(args, "file_path")
			if !ok || filePath == "" {
				return "", fmt.Errorf("file_path is required")
			}
			content, ok := StringArg(args, "content")
			if !ok {
				return "", fmt.Errorf("content is required")
			}
			if err := ws.WriteFile(filePath, content); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), filePath), nil
		},
	})
}

func registerEditFile(reg *Registry) {
	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "edit_file",
			Description: "Replace an exact string occurrence in a file. The old_string must be unique in the file unless replace_all is true.",
			Parameters: objSchema(map[string]interface{}{
				"file_path":   strProp("Path to the file to edit."),
				"old_string":  strProp("Exact text to find in the file."),
				"new_string":  strProp("Replacement text."),
				"replace_all": map[string]interface{}{"type": "boolean", "description": "Replace every occurrence instead of requiring uniqueness."},
			}, "file_path", "old_string", "new_string"),
		},
		Execute: func(_ context.Context, arguments json.RawMessage, ws *sandbox.Workspace) (string, error) {
			args, err := ParseArguments(arguments)
			if err != nil {
				return "", err
			}
			filePath, _ := StringArg(args, "file_path")
			oldString, okOld := StringArg(args, "old_string")
			newString, okNew := StringArg(args, "new_string")
			if filePath == "" || !okOld || !okNew {
				return "", fmt.Errorf("file_path, old_string and new_string are required")
			}
			replaceAll, _ := BoolArg(args, "replace_all")

			content, err := ws.ReadRaw(filePath)
			if err != nil {
				return "", err
			}

			count := strings.Count(content, oldString)
			if count == 0 {
				return "", fmt.Errorf("old_string not found in %s", filePath)
			}
			if count > 1 && !replaceAll {
				return "", fmt.Errorf("old_string occurs %d times in %s; provide more context or set replace_all", count, filePath)
			}

			var updated string
			if replaceAll {
				updated = strings.ReplaceAll(content, oldString, newString)
			} else {
				updated = strings.Replace(content, oldString, newString, 1)
			}
			if err := ws.WriteFile(filePath, updated); err != nil {
				return "", err
			}
			return fmt.Sprintf("Replaced %d occurrence(s) in %s", count, filePath), nil
		},
	})
}

func registerDeleteFile(reg *Registry) {
	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "delete_file",
			Description: "Delete a file from the project.",
			Parameters: objSchema(map[string]interface{}{
				"file_path": strProp("Path to the file to delete."),
			}, "file_path"),
		},
		Execute: func(_ context.Context, arguments json.RawMessage, ws *sandbox.Workspace) (string, error) {
			args, err := ParseArguments(arguments)
			if err != nil {
				return "", err
			}
			filePath, ok := StringArg(args, "file_path")
			if !ok || filePath == "" {
				return "", fmt.Errorf("file_path is required")
			}
			if err := ws.DeleteFile(filePath); err != nil {
				return "", err
			}
			return "Deleted " + filePath, nil
		},
	})
}

func registerListDir(reg *Registry) {
	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "list_dir",
			Description: "List the entries of a directory.",
			Parameters: objSchema(map[string]interface{}{
				"path": strProp("Directory to list, relative to the project root. Defaults to the root."),
			}),
		},
		Execute: func(_ context.Context, arguments json.RawMessage, ws *sandbox.Workspace) (string, error) {
			args, err := ParseArguments(arguments)
			if err != nil {
				return "", err
			}
			path, _ := StringArg(args, "path")
			if path == "" {
				path = "."
			}
			entries, err := ws.ListDirectory(path)
			if err != nil {
				return "", err
			}
			var sb strings.Builder
			for _, e := range entries {
				if e.IsDir {
					fmt.Fprintf(&sb, "%s/\n", e.Name)
				} else {
					fmt.Fprintf(&sb, "%s (%d bytes)\n", e.Name, e.Size)
				}
			}
			if sb.Len() == 0 {
				return "(empty directory)", nil
			}
			return sb.String(), nil
		},
	})
}

func registerGrep(reg *Registry) {
	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "grep_search",
			Description: "Search file contents for a regular expression. Returns matching lines with file and line number.",
			Parameters: objSchema(map[string]interface{}{
				"pattern":          strProp("Regular expression to search for."),
				"path":             strProp("Directory to search in. Defaults to the project root."),
				"glob_filter":      strProp("Optional glob to restrict files, e.g. *.tsx."),
				"case_insensitive": map[string]interface{}{"type": "boolean", "description": "Match case-insensitively."},
			}, "pattern"),
		},
		Execute: func(ctx context.Context, arguments json.RawMessage, ws *sandbox.Workspace) (string, error) {
			args, err := ParseArguments(arguments)
			if err != nil {
				return "", err
			}
			pattern, ok := StringArg(args, "pattern")
			if !ok || pattern == "" {
				return "", fmt.Errorf("pattern is required")
			}
			path, _ := StringArg(args, "path")
			glob, _ := StringArg(args, "glob_filter")
			ci, _ := BoolArg(args, "case_insensitive")

			out, err := ws.Grep(ctx, pattern, path, sandbox.GrepOptions{
				GlobFilter:      glob,
				CaseInsensitive: ci,
				MaxResults:      200,
			})
			if err != nil {
				return "", err
			}
			if out == "" {
				return "No matches found.", nil
			}
			return out, nil
		},
	})
}

func registerGlob(reg *Registry) {
	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "glob_search",
			Description: "Find files matching a glob pattern.",
			Parameters: objSchema(map[string]interface{}{
				"pattern": strProp("Glob pattern, e.g. src/**/*.tsx."),
				"path":    strProp("Directory to search in. Defaults to the project root."),
			}, "pattern"),
		},
		Execute: func(_ context.Context, arguments json.RawMessage, ws *sandbox.Workspace) (string, error) {
			args, err := ParseArguments(arguments)
			if err != nil {
				return "", err
			}
			pattern, ok := StringArg(args, "pattern")
			if !ok || pattern == "" {
				return "", fmt.Errorf("pattern is required")
			}
			path, _ := StringArg(args, "path")
			matches, err := ws.Glob(pattern, path)
			if err != nil {
				return "", err
			}
			if len(matches) == 0 {
				return "No files matched.", nil
			}
			return strings.Join(matches, "\n"), nil
		},
	})
}

func registerShell(reg *Registry, cfg ExecConfig) {
	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "run_terminal_cmd",
			Description: "Run a shell command in the project directory. Dev-server commands are blocked; the preview environment runs the server. Long commands are terminated after the timeout.",
			Parameters: objSchema(map[string]interface{}{
				"command":     strProp("The shell command to run."),
				"explanation": strProp("One sentence explaining why the command is needed."),
			}, "command"),
		},
		Execute: func(ctx context.Context, arguments json.RawMessage, ws *sandbox.Workspace) (string, error) {
			args, err := ParseArguments(arguments)
			if err != nil {
				return "", err
			}
			command, ok := StringArg(args, "command")
			if !ok || command == "" {
				return "", fmt.Errorf("command is required")
			}

			result, err := ws.ExecCommand(ctx, command, sandbox.ExecOptions{
				TimeoutMs:     cfg.DefaultTimeoutMs,
				SlowTimeoutMs: cfg.SlowTimeoutMs,
			})
			if err != nil {
				return "", err
			}

			// Timeouts and blocked commands become structured text so the
			// model can adapt instead of the run failing.
			if result.Blocked {
				return "COMMAND BLOCKED: " + result.Reason, nil
			}
			if result.TimedOut {
				return fmt.Sprintf("COMMAND TIMEOUT: %s\nPartial output:\n%s", result.Reason, result.Output()), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Command: %s\nExit code: %d\n", command, result.ExitCode)
			if result.Stdout != "" {
				fmt.Fprintf(&sb, "\nSTDOUT:\n%s", result.Stdout)
			}
			if result.Stderr != "" {
				fmt.Fprintf(&sb, "\nSTDERR:\n%s", result.Stderr)
			}
			return sb.String(), nil
		},
	})
}
