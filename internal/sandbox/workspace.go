// Package sandbox is the tool-execution environment. A Workspace carries an
// explicit filesystem root; every operation resolves paths against that root,
// so no tool ever depends on the process working directory. Runs take an
// exclusive lease on a root for their duration.
package sandbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// Workspace is a rooted view of the filesystem for tool execution.
type Workspace struct {
	root string
}

// New creates a Workspace rooted at dir. The directory is created if absent.
func New(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	return &Workspace{root: abs}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// Platform returns the host platform string.
func (w *Workspace) Platform() string { return runtime.GOOS + "/" + runtime.GOARCH }

// Resolve maps a (possibly relative) path into the workspace.
func (w *Workspace) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(w.root, path)
}

// leases serializes runs per workspace root. A run holds the lease for its
// whole lifetime; release must happen on every exit path, so Lease returns a
// release func the caller defers.
var leases = struct {
	mu    sync.Mutex
	locks map[string]*leaseEntry
}{locks: make(map[string]*leaseEntry)}

type leaseEntry struct {
	sem chan struct{}
}

func leaseFor(root string) *leaseEntry {
	leases.mu.Lock()
	defer leases.mu.Unlock()
	entry, ok := leases.locks[root]
	if !ok {
		entry = &leaseEntry{sem: make(chan struct{}, 1)}
		leases.locks[root] = entry
	}
	return entry
}

// Lease acquires exclusive use of the workspace root, blocking until it is
// available or ctx is cancelled. The returned release func is idempotent.
func (w *Workspace) Lease(ctx context.Context) (release func(), err error) {
	entry := leaseFor(w.root)
	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("workspace lease %s: %w", w.root, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-entry.sem })
	}, nil
}
