package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

// Service is a package that can be run as a dev server.
type Service struct {
	// Name is the package path relative to the root with separators
	// replaced by ':'.
	Name string
	// Dir is the absolute package directory.
	Dir string
	// Script is the body of the "dev" script.
	Script string
	// Command is the shell command that runs the dev script.
	Command   string
	Framework Framework
	// Port is the expected listening port, or 0 when unknown.
	Port int
}

// HasPort reports whether a port was detected.
func (s Service) HasPort() bool {
	return s.Port > 0
}

// PortPtr returns the port as an optional value.
func (s Service) PortPtr() *int {
	if !s.HasPort() {
		return nil
	}
	port := s.Port
	return &port
}

var ignoredDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"dist":         {},
	"build":        {},
	".next":        {},
	".turbo":       {},
}

var orchestratorScripts = []string{
	"turbo dev",
	"turbo run dev",
	"pnpm -r",
	"pnpm --filter",
	"pnpm run -r",
	"npm run --workspaces",
	"yarn workspaces",
	"lerna run",
}

// Options tune discovery.
type Options struct {
	// Runner forces the package manager; empty means detect from lockfiles.
	Runner string
}

// Discover walks root and returns every package with a runnable dev script,
// sorted by name. The root package itself is skipped.
func Discover(root string, opts Options) ([]Service, error) {
	root = filepath.Clean(root)
	runner := opts.Runner
	if runner == "" {
		runner = DetectRunner(root)
	}

	var services []Service
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Debug("skip unreadable path", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if _, skip := ignoredDirs[d.Name()]; skip && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() != "package.json" {
			return nil
		}
		dir := filepath.Dir(path)
		if dir == root {
			return nil
		}
		svc, ok, err := parsePackage(root, dir, path, runner)
		if err != nil {
			log.Debug("skip package", "path", path, "err", err)
			return nil
		}
		if ok {
			services = append(services, svc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover services: %w", err)
	}

	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services, nil
}

func parsePackage(root, dir, path, runner string) (Service, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Service{}, false, err
	}
	if !gjson.ValidBytes(data) {
		return Service{}, false, fmt.Errorf("invalid package.json")
	}
	script := gjson.GetBytes(data, "scripts.dev")
	if !script.Exists() || script.Type != gjson.String {
		return Service{}, false, nil
	}
	if IsOrchestratorScript(script.String()) {
		return Service{}, false, nil
	}

	framework := DetectFramework(script.String(), dir)
	return Service{
		Name:      ServiceName(root, dir),
		Dir:       dir,
		Script:    script.String(),
		Command:   RunCommand(runner),
		Framework: framework,
		Port:      DetectPort(framework, script.String(), dir),
	}, true, nil
}

// IsOrchestratorScript reports whether a dev script fans out to other
// packages instead of running a server itself.
func IsOrchestratorScript(script string) bool {
	for _, o := range orchestratorScripts {
		if strings.Contains(script, o) {
			return true
		}
	}
	return false
}

// ServiceName converts a package directory into its service name.
func ServiceName(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Base(dir)
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ":")
}
