package discovery

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscoverFindsDevScripts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"scripts":{"dev":"next dev"}}`)
	writeFile(t, filepath.Join(root, "pnpm-lock.yaml"), "")
	writeFile(t, filepath.Join(root, "apps", "web", "package.json"), `{"scripts":{"dev":"next dev -p 3001","build":"next build"}}`)
	writeFile(t, filepath.Join(root, "apps", "admin", "package.json"), `{"scripts":{"dev":"vite"}}`)
	writeFile(t, filepath.Join(root, "apps", "admin", "vite.config.ts"), "export default { server: { port: 4000 } }")
	writeFile(t, filepath.Join(root, "workers", "api", "package.json"), `{"scripts":{"dev":"wrangler dev"}}`)
	writeFile(t, filepath.Join(root, "packages", "ui", "package.json"), `{"scripts":{"build":"tsc"}}`)
	writeFile(t, filepath.Join(root, "packages", "all", "package.json"), `{"scripts":{"dev":"turbo run dev --parallel"}}`)
	writeFile(t, filepath.Join(root, "packages", "broken", "package.json"), `{"scripts":`)
	writeFile(t, filepath.Join(root, "apps", "web", "node_modules", "dep", "package.json"), `{"scripts":{"dev":"node server.js"}}`)
	writeFile(t, filepath.Join(root, "apps", "web", ".next", "package.json"), `{"scripts":{"dev":"node x"}}`)

	services, err := Discover(root, Options{})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	names := strings.Join(Names(services), ",")
	if names != "apps:admin,apps:web,workers:api" {
		t.Fatalf("unexpected services %s", names)
	}

	web, _ := FindService(services, "apps:web")
	if web.Framework != FrameworkNext || web.Port != 3001 {
		t.Fatalf("unexpected web service %+v", web)
	}
	if web.Command != "pnpm run dev" {
		t.Fatalf("expected pnpm runner, got %q", web.Command)
	}
	if web.Dir != filepath.Join(root, "apps", "web") {
		t.Fatalf("unexpected dir %s", web.Dir)
	}

	admin, _ := FindService(services, "apps:admin")
	if admin.Framework != FrameworkVite || admin.Port != 4000 {
		t.Fatalf("unexpected admin service %+v", admin)
	}

	api, _ := FindService(services, "workers:api")
	if api.Framework != FrameworkWrangler || api.Port != DefaultWranglerPort {
		t.Fatalf("unexpected api service %+v", api)
	}
}

func TestDiscoverRunnerOverride(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "yarn.lock"), "")
	writeFile(t, filepath.Join(root, "site", "package.json"), `{"scripts":{"dev":"astro dev --port 4321"}}`)

	services, err := Discover(root, Options{})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(services) != 1 || services[0].Command != "yarn run dev" || services[0].Port != 4321 {
		t.Fatalf("unexpected services %+v", services)
	}

	services, _ = Discover(root, Options{Runner: "bun"})
	if services[0].Command != "bun run dev" {
		t.Fatalf("expected runner override, got %q", services[0].Command)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "missing"), Options{}); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestIsOrchestratorScript(t *testing.T) {
	for _, script := range []string{"turbo dev", "pnpm -r --parallel dev", "pnpm --filter web dev", "lerna run dev", "npm run --workspaces dev"} {
		if !IsOrchestratorScript(script) {
			t.Fatalf("expected %q to be an orchestrator script", script)
		}
	}
	for _, script := range []string{"next dev", "vite --host", "node server.js"} {
		if IsOrchestratorScript(script) {
			t.Fatalf("expected %q to run a server", script)
		}
	}
}

func TestServiceName(t *testing.T) {
	root := filepath.Join("/", "repo")
	if got := ServiceName(root, filepath.Join(root, "apps", "web")); got != "apps:web" {
		t.Fatalf("unexpected name %s", got)
	}
	if got := ServiceName(root, filepath.Join(root, "docs")); got != "docs" {
		t.Fatalf("unexpected name %s", got)
	}
}

func TestDetectRunner(t *testing.T) {
	tests := map[string]string{
		"pnpm-lock.yaml":    "pnpm",
		"yarn.lock":         "yarn",
		"bun.lockb":         "bun",
		"package-lock.json": "npm",
	}
	for file, want := range tests {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, file), "")
		if got := DetectRunner(root); got != want {
			t.Fatalf("%s: expected %s, got %s", file, want, got)
		}
	}
	if got := DetectRunner(t.TempDir()); got != "npm" {
		t.Fatalf("expected npm default, got %s", got)
	}
}

func TestFindGitRoot(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	root := t.TempDir()
	if out, err := exec.Command("git", "init", root).CombinedOutput(); err != nil {
		t.Fatalf("git init: %v\n%s", err, out)
	}
	nested := filepath.Join(root, "apps", "web")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := FindGitRoot(nested)
	if err != nil {
		t.Fatalf("find git root: %v", err)
	}
	want, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Fatalf("expected %s, got %s", want, gotResolved)
	}
	if ProjectName(got) != filepath.Base(want) {
		t.Fatalf("unexpected project name %s", ProjectName(got))
	}
}

func TestFindGitRootOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	if _, err := FindGitRoot(dir); err != ErrNotGitRepo {
		t.Fatalf("expected ErrNotGitRepo, got %v", err)
	}
}
