// Package api defines the read-only status model served while groo
// supervises a project.
package api

import (
	stdcontext "context"
	"errors"
	"time"
)

var (
	ErrUnknownProject = errors.New("unknown project")
	ErrUnknownService = errors.New("unknown service")
)

// ServiceReport describes one supervised service.
type ServiceReport struct {
	Name      string     `json:"name"`
	PID       int        `json:"pid"`
	Port      int        `json:"port,omitempty"`
	URL       string     `json:"url,omitempty"`
	Running   bool       `json:"running"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// StatusReport is the registry view of one project.
type StatusReport struct {
	Project     string          `json:"project"`
	Path        string          `json:"path"`
	Session     string          `json:"session,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Services    []ServiceReport `json:"services"`
}

// Service returns the named service report.
func (r *StatusReport) Service(name string) (ServiceReport, bool) {
	for _, svc := range r.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return ServiceReport{}, false
}

// Controller produces status reports for the HTTP server.
type Controller interface {
	Status(stdcontext.Context) (*StatusReport, error)
}
