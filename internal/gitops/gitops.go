// Package gitops snapshots ledger files into a git repository.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who snapshot commits are attributed to.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if out, err := git(dir, "init"); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Snapshot stages paths (relative to dir) and commits them if anything
// changed. It returns the short hash, or "" when there was nothing to commit.
func Snapshot(dir, message string, author Author, paths ...string) (string, error) {
	args := append([]string{"add", "--"}, paths...)
	if len(paths) == 0 {
		args = []string{"add", "-A"}
	}
	if out, err := git(dir, args...); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Anything else already staged in the index stays out of the commit.
	var pathspec []string
	if len(paths) > 0 {
		pathspec = append([]string{"--"}, paths...)
	}

	// diff --cached --quiet exits 1 when something is staged.
	if _, err := git(dir, append([]string{"diff", "--cached", "--quiet"}, pathspec...)...); err == nil {
		return "", nil
	}

	commit := append([]string{"commit", "-m", message, "--author", author.String()}, pathspec...)
	if out, err := git(dir, commit...); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := git(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	// Commits must not depend on the user's global identity being set.
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME=passbook",
		"GIT_COMMITTER_EMAIL=passbook@localhost",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
