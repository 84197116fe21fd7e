package team

import "strings"

// Termination decides when a run stops: a terminate sentinel anywhere in the
// history, or a history length cap. Monotonic by construction, since
// histories only grow and both conditions survive extension.
type Termination struct {
	Sentinel    string
	MaxMessages int
}

// ShouldStop reports whether the run should end. The sentinel scan runs
// first so a terminated run stops even below the length cap.
func (t Termination) ShouldStop(history History) bool {
	for _, m := range history {
		if strings.Contains(m.Content, t.Sentinel) {
			return true
		}
	}
	return t.MaxMessages > 0 && len(history) >= t.MaxMessages
}
