// Package gitops keeps a project's history in git when the user asks for it.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author names the identity commits are made as.
type Author struct {
	Name  string
	Email string
}

// git runs a git subcommand in dir with author as the configured identity,
// so commits work on machines without a global git config.
func git(dir string, author Author, args ...string) (string, error) {
	full := append([]string{
		"-c", "user.name=" + author.Name,
		"-c", "user.email=" + author.Email,
	}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	_, err := git(dir, Author{}, "init", "-q")
	return err
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// HasChanges reports whether the work tree differs from HEAD.
func HasChanges(dir string) (bool, error) {
	out, err := git(dir, Author{}, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// CommitAll stages all files and creates a commit. Returns the short commit
// hash, or "" when there was nothing to commit.
func CommitAll(dir, message string, author Author) (string, error) {
	changed, err := HasChanges(dir)
	if err != nil {
		return "", err
	}
	if !changed {
		return "", nil
	}

	if _, err := git(dir, author, "add", "-A"); err != nil {
		return "", err
	}
	id := fmt.Sprintf("%s <%s>", author.Name, author.Email)
	if _, err := git(dir, author, "commit", "-q", "-m", message, "--author", id); err != nil {
		return "", err
	}
	return git(dir, author, "rev-parse", "--short", "HEAD")
}
