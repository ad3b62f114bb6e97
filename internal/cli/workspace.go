package cli

import (
	"fmt"
	"os"

	"github.com/Paintersrp/groo/internal/discovery"
	"github.com/Paintersrp/groo/internal/logstore"
	"github.com/Paintersrp/groo/internal/state"
)

// workspace is a discovered monorepo.
type workspace struct {
	root     string
	project  string
	services []discovery.Service
}

// loadWorkspace discovers the repository containing the working directory.
func (c *context) loadWorkspace() (*workspace, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	root, err := discovery.FindGitRoot(cwd)
	if err != nil {
		return nil, err
	}
	return c.workspaceAt(root, discovery.ProjectName(root))
}

func (c *context) workspaceAt(root, project string) (*workspace, error) {
	services, err := discovery.Discover(root, discovery.Options{Runner: c.settings.Runner})
	if err != nil {
		return nil, err
	}
	return &workspace{root: root, project: project, services: services}, nil
}

func (c *context) logPath(project, service string) string {
	return logstore.Path(c.paths.LogDir, project, service)
}

// isRunning reports whether svc is up, either as a live registry entry or
// because something listens on its detected port.
func (c *context) isRunning(st *state.State, project string, svc discovery.Service) bool {
	if rec := st.Service(project, svc.Name); rec != nil && c.checker.IsRunning(rec.PortValue(), rec.PID) {
		return true
	}
	return svc.HasPort() && c.prober.PortInUse(svc.Port)
}

func (c *context) runningServices(st *state.State, ws *workspace) []discovery.Service {
	var running []discovery.Service
	for _, svc := range ws.services {
		if c.isRunning(st, ws.project, svc) {
			running = append(running, svc)
		}
	}
	return running
}
