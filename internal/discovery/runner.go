package discovery

import "path/filepath"

var lockfiles = []struct {
	file   string
	runner string
}{
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
	{"package-lock.json", "npm"},
}

// DetectRunner picks the package manager from the lockfile at root,
// defaulting to npm.
func DetectRunner(root string) string {
	for _, lf := range lockfiles {
		if fileExists(root, lf.file) {
			return lf.runner
		}
	}
	return "npm"
}

// RunCommand returns the shell command running the dev script with runner.
func RunCommand(runner string) string {
	if runner == "" {
		runner = "npm"
	}
	return runner + " run dev"
}

// FindService returns the service with the given name.
func FindService(services []Service, name string) (Service, bool) {
	for _, svc := range services {
		if svc.Name == name {
			return svc, true
		}
	}
	return Service{}, false
}

// Names lists the service names in order.
func Names(services []Service) []string {
	names := make([]string, len(services))
	for i, svc := range services {
		names[i] = svc.Name
	}
	return names
}

// Rel returns dir relative to root for display, or dir itself.
func Rel(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return dir
	}
	return rel
}
