package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirEntry represents a filesystem directory entry.
type DirEntry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size,omitempty"`
}

// ReadFile returns the file content formatted with line numbers. offset is a
// 1-based starting line; limit caps the number of lines (0 = no cap).
func (w *Workspace) ReadFile(path string, offset, limit int) (string, error) {
	data, err := os.ReadFile(w.Resolve(path))
	if err != nil {
		return "", fmt.Errorf("read_file: %w", err)
	}

	lines := strings.Split(string(data), "\n")

	startLine := 0
	if offset > 0 {
		startLine = offset - 1
	}
	if startLine >= len(lines) {
		return "", nil
	}

	endLine := len(lines)
	if limit > 0 && startLine+limit < endLine {
		endLine = startLine + limit
	}

	var sb strings.Builder
	for i := startLine; i < endLine; i++ {
		fmt.Fprintf(&sb, "%d | %s\n", i+1, lines[i])
	}
	return sb.String(), nil
}

// ReadRaw returns the file content without line numbering.
func (w *Workspace) ReadRaw(path string) (string, error) {
	data, err := os.ReadFile(w.Resolve(path))
	if err != nil {
		return "", fmt.Errorf("read_file: %w", err)
	}
	return string(data), nil
}

// WriteFile writes content, creating parent directories as needed.
func (w *Workspace) WriteFile(path string, content string) error {
	resolved := w.Resolve(path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("write_file: %w", err)
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write_file: %w", err)
	}
	return nil
}

// DeleteFile removes a file. Missing files are not an error.
func (w *Workspace) DeleteFile(path string) error {
	err := os.Remove(w.Resolve(path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete_file: %w", err)
	}
	return nil
}

// FileExists reports whether the path exists in the workspace.
func (w *Workspace) FileExists(path string) bool {
	_, err := os.Stat(w.Resolve(path))
	return err == nil
}

// ListDirectory lists the entries of a directory.
func (w *Workspace) ListDirectory(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(w.Resolve(path))
	if err != nil {
		return nil, fmt.Errorf("list_directory: %w", err)
	}

	var result []DirEntry
	for _, entry := range entries {
		de := DirEntry{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
		}
		if info, err := entry.Info(); err == nil {
			de.Size = info.Size()
		}
		result = append(result, de)
	}
	return result, nil
}
