package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who commits imported data.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if out, err := git(dir, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// HasChanges reports whether any of paths (or the whole tree when none are
// given) has uncommitted changes.
func HasChanges(dir string, paths ...string) (bool, error) {
	args := append([]string{"status", "--porcelain", "--"}, paths...)
	out, err := git(dir, args...)
	if err != nil {
		return false, fmt.Errorf("git status: %s: %w", out, err)
	}
	return strings.TrimSpace(out) != "", nil
}

// Commit stages paths (everything when none are given) and creates a commit.
// Returns the short commit hash.
func Commit(dir, message string, author Author, paths ...string) (string, error) {
	add := []string{"add", "-A"}
	if len(paths) > 0 {
		add = append(add, "--")
		add = append(add, paths...)
	}
	if out, err := git(dir, add...); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	if out, err := git(dir, "commit", "--quiet", "-m", message, "--author", author.String()); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := git(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// git runs a git subcommand in dir. Committer identity falls back to the
// author so commits work on machines without a global git config.
func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+envOr("GIT_COMMITTER_NAME", "cartola"),
		"GIT_COMMITTER_EMAIL="+envOr("GIT_COMMITTER_EMAIL", "cartola@localhost"),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
