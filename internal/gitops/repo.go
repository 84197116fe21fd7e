// Package gitops wraps the git commands the service consumes: init, diff,
// commit, history, restore, and remote configuration. Every call is bound to
// an explicit repository directory and runs with a timeout.
package gitops

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const commandTimeout = 30 * time.Second

// Commit is one entry of the commit history.
type Commit struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// Remote describes the configured remote, if any.
type Remote struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Repo is a git repository rooted at Dir.
type Repo struct {
	Dir string
}

// Open returns a Repo handle for dir. It does not verify the repository
// exists; Init creates one.
func Open(dir string) *Repo {
	return &Repo{Dir: dir}
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return stdout.String(), fmt.Errorf("git %s: %s", args[0], msg)
	}
	return stdout.String(), nil
}

// Init initializes the repository with a default identity and an initial
// commit of whatever files are present.
func (r *Repo) Init(ctx context.Context) error {
	if _, err := r.run(ctx, "init"); err != nil {
		return err
	}
	if _, err := r.run(ctx, "config", "user.email", "agent@tandem.local"); err != nil {
		return err
	}
	if _, err := r.run(ctx, "config", "user.name", "Tandem Agent"); err != nil {
		return err
	}
	if _, err := r.run(ctx, "add", "."); err != nil {
		return err
	}
	// An empty tree makes the initial commit fail; that is fine.
	_, _ = r.run(ctx, "commit", "-m", "Initial project structure")
	return nil
}

// Diff returns the working-tree diff, optionally restricted to one path.
// Untracked files are included via intent-to-add so a fresh file shows up.
func (r *Repo) Diff(ctx context.Context, path string) (string, error) {
	_, _ = r.run(ctx, "add", "-N", ".")
	args := []string{"diff"}
	if path != "" {
		args = append(args, "--", path)
	}
	return r.run(ctx, args...)
}

// CommitAll stages the given files (all changes when files is empty) and
// commits them. Returns false without error when there is nothing to commit.
func (r *Repo) CommitAll(ctx context.Context, message string, files []string) (bool, error) {
	if len(files) > 0 {
		for _, f := range files {
			if _, err := r.run(ctx, "add", f); err != nil {
				return false, err
			}
		}
	} else {
		if _, err := r.run(ctx, "add", "."); err != nil {
			return false, err
		}
	}

	// diff --cached --quiet exits 1 when the index has changes.
	if _, err := r.run(ctx, "diff", "--cached", "--quiet"); err == nil {
		return false, nil
	}

	if _, err := r.run(ctx, "commit", "-m", message); err != nil {
		return false, err
	}
	return true, nil
}

// Log returns the most recent commits, newest first.
func (r *Repo) Log(ctx context.Context, limit int) ([]Commit, error) {
	if limit <= 0 {
		limit = 10
	}
	out, err := r.run(ctx, "log", fmt.Sprintf("-%d", limit), "--pretty=format:%H%x1f%an%x1f%aI%x1f%s")
	if err != nil {
		// A repository with no commits yet has an empty history.
		if strings.Contains(err.Error(), "does not have any commits") {
			return nil, nil
		}
		return nil, err
	}

	var commits []Commit
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\x1f", 4)
		if len(fields) != 4 {
			continue
		}
		commits = append(commits, Commit{
			Hash:    fields[0],
			Author:  fields[1],
			Date:    fields[2],
			Message: fields[3],
		})
	}
	return commits, nil
}

// FileAtCommit returns the content of a file at a given commit.
func (r *Repo) FileAtCommit(ctx context.Context, path, hash string) (string, error) {
	return r.run(ctx, "show", hash+":"+path)
}

// Restore checks the working tree back to the given commit, discarding
// later changes.
func (r *Repo) Restore(ctx context.Context, hash string) error {
	if _, err := r.run(ctx, "checkout", hash, "--", "."); err != nil {
		return err
	}
	_, err := r.run(ctx, "commit", "-am", "Restore to "+hash)
	return err
}

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RemoteConfig returns the configured remote, or nil when none is set.
func (r *Repo) RemoteConfig(ctx context.Context) (*Remote, error) {
	out, err := r.run(ctx, "remote", "-v")
	if err != nil {
		return nil, err
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			return &Remote{Name: fields[0], URL: fields[1]}, nil
		}
	}
	return nil, nil
}

// SetRemote adds or updates the named remote.
func (r *Repo) SetRemote(ctx context.Context, name, url string) error {
	if name == "" {
		name = "origin"
	}
	if _, err := r.run(ctx, "remote", "get-url", name); err != nil {
		_, err = r.run(ctx, "remote", "add", name, url)
		return err
	}
	_, err := r.run(ctx, "remote", "set-url", name, url)
	return err
}
