package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/martinemde/tandem/internal/oracle"
	"github.com/martinemde/tandem/internal/sandbox"
)

// registerJSONTools adds structured-data helpers so the executor does not
// have to round-trip JSON files through the shell.
func registerJSONTools(reg *Registry) {
	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "validate_json",
			Description: "Check whether a file contains valid JSON.",
			Parameters: objSchema(map[string]interface{}{
				"file_path": strProp("Path to the JSON file."),
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
			content, err := ws.ReadRaw(filePath)
			if err != nil {
				return "", err
			}
			var v interface{}
			if err := json.Unmarshal([]byte(content), &v); err != nil {
				return fmt.Sprintf("INVALID: %v", err), nil
			}
			return "Valid JSON.", nil
		},
	})

	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "json_get_value",
			Description: "Read a value from a JSON file by dotted key path, e.g. dependencies.react.",
			Parameters: objSchema(map[string]interface{}{
				"file_path": strProp("Path to the JSON file."),
				"key_path":  strProp("Dotted path to the value."),
			}, "file_path", "key_path"),
		},
		Execute: func(_ context.Context, arguments json.RawMessage, ws *sandbox.Workspace) (string, error) {
			args, err := ParseArguments(arguments)
			if err != nil {
				return "", err
			}
			filePath, _ := StringArg(args, "file_path")
			keyPath, _ := StringArg(args, "key_path")
			if filePath == "" || keyPath == "" {
				return "", fmt.Errorf("file_path and key_path are required")
			}
			content, err := ws.ReadRaw(filePath)
			if err != nil {
				return "", err
			}
			var doc interface{}
			if err := json.Unmarshal([]byte(content), &doc); err != nil {
				return "", fmt.Errorf("json_get_value: %w", err)
			}
			cur := doc
			for _, key := range strings.Split(keyPath, ".") {
				obj, ok := cur.(map[string]interface{})
				if !ok {
					return fmt.Sprintf("Key path %q not found (hit a non-object)", keyPath), nil
				}
				cur, ok = obj[key]
				if !ok {
					return fmt.Sprintf("Key path %q not found", keyPath), nil
				}
			}
			out, _ := json.MarshalIndent(cur, "", "  ")
			return string(out), nil
		},
	})

	reg.Register(Tool{
		Definition: oracle.ToolDefinition{
			Name:        "write_json",
			Description: "Pretty-print and write a JSON document to a file, validating it first.",
			Parameters: objSchema(map[string]interface{}{
				"file_path": strProp("Path to write to."),
				"content":   strProp("The JSON document as a string."),
			}, "file_path", "content"),
		},
		Execute: func(_ context.Context, arguments json.RawMessage, ws *sandbox.Workspace) (string, error) {
			args, err := ParseArguments(arguments)
			if err != nil {
				return "", err
			}
			filePath, _ := StringArg(args, "file_path")
			content, _ := StringArg(args, "content")
			if filePath == "" || content == "" {
				return "", fmt.Errorf("file_path and content are required")
			}
			var v interface{}
			if err := json.Unmarshal([]byte(content), &v); err != nil {
				return "", fmt.Errorf("write_json: invalid JSON: %w", err)
			}
			pretty, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return "", fmt.Errorf("write_json: %w", err)
			}
			if err := ws.WriteFile(filePath, string(pretty)+"\n"); err != nil {
				return "", err
			}
			return "Wrote " + filePath, nil
		},
	})
}
