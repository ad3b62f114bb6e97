// Package discovery finds the dev servers of a JavaScript monorepo: every
// package with a "dev" script, its framework and its expected port.
package discovery

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotGitRepo is returned when the working directory is outside a git
// repository.
var ErrNotGitRepo = errors.New("not in a git repository")

// FindGitRoot returns the top-level directory of the git repository that
// contains dir.
func FindGitRoot(dir string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", ErrNotGitRepo
		}
		return "", fmt.Errorf("run git: %w", err)
	}
	root := strings.TrimSpace(stdout.String())
	if root == "" {
		return "", ErrNotGitRepo
	}
	return filepath.FromSlash(root), nil
}

// ProjectName derives the project name from the repository root.
func ProjectName(root string) string {
	name := filepath.Base(filepath.Clean(root))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "unknown"
	}
	return name
}
