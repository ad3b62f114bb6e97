// Package logstore persists per-service output and reads it back, either as a
// snapshot of the last lines or as a live tail.
package logstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var fileNameReplacer = strings.NewReplacer(":", "_", "/", "_", "\\", "_")

// Path returns the log file of service within project.
func Path(logDir, project, service string) string {
	return filepath.Join(logDir, fileNameReplacer.Replace(project), fileNameReplacer.Replace(service)+".log")
}

// Create truncates (or creates) the log file at path for a new session.
func Create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	return f, nil
}
