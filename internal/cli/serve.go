package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Paintersrp/groo/internal/api"
	httpapi "github.com/Paintersrp/groo/internal/api/http"
	"github.com/Paintersrp/groo/internal/cliutil"
	"github.com/Paintersrp/groo/internal/metrics"
)

var newAPIServer = httpapi.NewServer

// statusController reports the registry view of one project.
type statusController struct {
	ctx     *context
	project string
}

func (s *statusController) Status(stdcontext.Context) (*api.StatusReport, error) {
	st := s.ctx.store.Load()
	p := st.Project(s.project)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", api.ErrUnknownProject, s.project)
	}
	report := &api.StatusReport{
		Project:     s.project,
		Path:        p.Path,
		Session:     p.Session,
		GeneratedAt: time.Now().UTC(),
		Services:    make([]api.ServiceReport, 0, len(p.Services)),
	}
	for _, name := range p.ServiceNames() {
		rec := p.Services[name]
		svc := api.ServiceReport{
			Name:      name,
			PID:       rec.PID,
			Port:      rec.PortValue(),
			Running:   s.ctx.checker.IsRunning(rec.PortValue(), rec.PID),
			StartedAt: rec.StartedAt,
		}
		if svc.Port > 0 {
			svc.URL = cliutil.LocalURL(svc.Port)
		}
		report.Services = append(report.Services, svc)
	}
	return report, nil
}

// startSessionServer serves /metrics and the project status on addr until
// the returned stop function is called. An empty addr disables it.
func (c *context) startSessionServer(addr, project string, out io.Writer) (func(), error) {
	if addr == "" {
		return func() {}, nil
	}
	server, err := newAPIServer(httpapi.Config{
		Addr:       addr,
		Controller: &statusController{ctx: c, project: project},
		Metrics:    promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}),
	})
	if err != nil {
		return nil, err
	}
	if err := server.Listen(); err != nil {
		return nil, err
	}

	ctx, cancel := stdcontext.WithCancel(stdcontext.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(ctx)
	}()
	cliutil.PrintDim(out, "Metrics on http://%s/metrics, status on http://%s/api/v1/status", server.Addr(), server.Addr())

	return func() {
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, stdcontext.Canceled) {
			log.Debug("session server stopped", "err", err)
		}
	}, nil
}

func (c *context) metricsAddr(flag string) string {
	if flag != "" {
		return flag
	}
	return c.settings.MetricsAddr
}
