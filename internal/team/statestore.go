package team

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// stateRelPath is the hidden per-project location of the persisted snapshot.
const stateRelPath = ".tandem/team_state.json"

// Snapshot is the persisted run state: the interaction log so far plus an
// opaque blob owned by the role runtime. It must round-trip through
// save/load unchanged.
type Snapshot struct {
	InteractionLog []InteractionRecord `json:"interaction_log"`
	TeamState      json.RawMessage     `json:"team_state,omitempty"`
}

// StateStore persists one Snapshot per project directory. Persistence is
// best-effort: Save never aborts a run and Load never surfaces a parse
// error.
type StateStore struct {
	logger *log.Logger
}

// NewStateStore returns a store logging through the given logger.
func NewStateStore(logger *log.Logger) *StateStore {
	if logger == nil {
		logger = log.Default()
	}
	return &StateStore{logger: logger}
}

func statePath(projectDir string) string {
	return filepath.Join(projectDir, filepath.FromSlash(stateRelPath))
}

// Save writes the snapshot as pretty-printed UTF-8 JSON. Failures are
// logged and swallowed.
func (s *StateStore) Save(projectDir string, snap Snapshot) {
	path := statePath(projectDir)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.logger.Warn("state snapshot encode failed", "project", projectDir, "err", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.logger.Warn("state dir create failed", "path", path, "err", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Warn("state snapshot write failed", "path", path, "err", err)
	}
}

// Load returns the persisted snapshot. A missing file is absent, not an
// error; a corrupt file logs a warning and is treated as absent.
func (s *StateStore) Load(projectDir string) (Snapshot, bool) {
	path := statePath(projectDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("state snapshot read failed", "path", path, "err", err)
		}
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("state snapshot corrupt, ignoring", "path", path, "err", err)
		return Snapshot{}, false
	}
	return snap, true
}

// Reset deletes the persisted snapshot. Safe to call when nothing exists.
func (s *StateStore) Reset(projectDir string) {
	path := statePath(projectDir)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("state snapshot delete failed", "path", path, "err", err)
	}
}
