// Package state records which dev servers groo has started so that later
// invocations can find, stop or restart them.
package state

import (
	"sort"
	"time"
)

// State is the persisted registry of supervised services per project.
type State struct {
	Projects map[string]*Project `json:"projects"`
}

// Project groups the services of one workspace.
type Project struct {
	Path string `json:"path"`
	// Session identifies the groo run that last registered services.
	Session  string              `json:"session,omitempty"`
	Services map[string]*Service `json:"services"`
}

// Service is one recorded process. Port is nil when it could not be
// detected.
type Service struct {
	PID       int        `json:"pid"`
	Port      *int       `json:"port,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// PortValue returns the recorded port or 0.
func (s *Service) PortValue() int {
	if s == nil || s.Port == nil {
		return 0
	}
	return *s.Port
}

// Liveness decides whether a recorded process is still running.
type Liveness interface {
	IsRunning(port, pid int) bool
}

// New returns an empty registry.
func New() *State {
	return &State{Projects: make(map[string]*Project)}
}

func (s *State) ensure() {
	if s.Projects == nil {
		s.Projects = make(map[string]*Project)
	}
}

// Project returns the named project, or nil.
func (s *State) Project(name string) *Project {
	if s == nil || s.Projects == nil {
		return nil
	}
	return s.Projects[name]
}

// Service returns the named service of project, or nil.
func (s *State) Service(project, service string) *Service {
	p := s.Project(project)
	if p == nil || p.Services == nil {
		return nil
	}
	return p.Services[service]
}

// ProjectNames returns the project names in lexical order.
func (s *State) ProjectNames() []string {
	names := make([]string, 0, len(s.Projects))
	for name := range s.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ServiceNames returns the service names of the project in lexical order.
func (p *Project) ServiceNames() []string {
	names := make([]string, 0, len(p.Services))
	for name := range p.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddService records a service, creating the project entry when needed. An
// existing project keeps its path; an existing service is replaced.
func (s *State) AddService(project, path, service string, pid int, port *int) *Service {
	s.ensure()
	p, ok := s.Projects[project]
	if !ok {
		p = &Project{Path: path, Services: make(map[string]*Service)}
		s.Projects[project] = p
	}
	if p.Services == nil {
		p.Services = make(map[string]*Service)
	}
	now := time.Now().UTC()
	var recorded *int
	if port != nil {
		value := *port
		recorded = &value
	}
	svc := &Service{PID: pid, Port: recorded, StartedAt: &now}
	p.Services[service] = svc
	return svc
}

// RemoveService deletes a service record and drops its project once empty.
// Missing entries are ignored.
func (s *State) RemoveService(project, service string) {
	p := s.Project(project)
	if p == nil {
		return
	}
	delete(p.Services, service)
	if len(p.Services) == 0 {
		delete(s.Projects, project)
	}
}

// RemoveProject deletes a project and all of its services.
func (s *State) RemoveProject(project string) {
	if s.Projects == nil {
		return
	}
	delete(s.Projects, project)
}

// CleanStalePids drops every service that is no longer running according to
// live, and every project left without services. It returns the number of
// service records removed. Running it twice in a row removes nothing the
// second time.
func (s *State) CleanStalePids(live Liveness) int {
	removed := 0
	for name, p := range s.Projects {
		if p == nil {
			delete(s.Projects, name)
			continue
		}
		for svcName, svc := range p.Services {
			if svc == nil || !live.IsRunning(svc.PortValue(), svc.PID) {
				delete(p.Services, svcName)
				removed++
			}
		}
		if len(p.Services) == 0 {
			delete(s.Projects, name)
		}
	}
	return removed
}
