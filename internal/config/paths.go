package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "groo"

// Paths locates every file groo keeps outside the workspace. It is resolved
// once at startup and passed to the components that need it.
type Paths struct {
	ConfigDir  string
	StateFile  string
	LockFile   string
	LogDir     string
	ConfigFile string
}

// NewPaths lays out the groo files beneath dir.
func NewPaths(dir string) Paths {
	return Paths{
		ConfigDir:  dir,
		StateFile:  filepath.Join(dir, "state.json"),
		LockFile:   filepath.Join(dir, "state.lock"),
		LogDir:     filepath.Join(dir, "logs"),
		ConfigFile: filepath.Join(dir, "config.yaml"),
	}
}

// ResolvePaths picks the config directory: $GROO_HOME when set, otherwise
// the platform config directory, otherwise ~/.groo.
func ResolvePaths() (Paths, error) {
	if dir := os.Getenv("GROO_HOME"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return Paths{}, fmt.Errorf("resolve GROO_HOME: %w", err)
		}
		return NewPaths(abs), nil
	}
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		return NewPaths(filepath.Join(base, appName)), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("locate config directory: %w", err)
	}
	return NewPaths(filepath.Join(home, "."+appName)), nil
}
