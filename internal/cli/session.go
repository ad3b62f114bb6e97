package cli

import (
	stdcontext "context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/groo/internal/cliutil"
	"github.com/Paintersrp/groo/internal/discovery"
	"github.com/Paintersrp/groo/internal/engine"
	"github.com/Paintersrp/groo/internal/logmux"
	"github.com/Paintersrp/groo/internal/runtime"
	"github.com/Paintersrp/groo/internal/runtime/process"
	"github.com/Paintersrp/groo/internal/state"
)

var errNothingStarted = errors.New("no services could be started")

type superviseOptions struct {
	// removeProject clears the whole project from the registry on shutdown.
	// Otherwise only the supervised services are removed.
	removeProject bool
	metricsAddr   string
}

// supervise starts services, records them in the registry and streams their
// output until they all exit or the command context is cancelled.
func (c *context) supervise(cmd *cobra.Command, ws *workspace, services []discovery.Service, opts superviseOptions) error {
	ctx := cmd.Context()
	out := &lockedWriter{w: cmd.OutOrStdout()}
	errOut := &lockedWriter{w: cmd.ErrOrStderr()}
	session := uuid.NewString()

	stopServer, err := c.startSessionServer(opts.metricsAddr, ws.project, out)
	if err != nil {
		return err
	}
	defer stopServer()

	cliutil.PrintStep(out, "Starting %d service(s)...", len(services))

	byName := make(map[string]discovery.Service, len(services))
	specs := make([]runtime.Spec, 0, len(services))
	for i, svc := range services {
		byName[svc.Name] = svc
		specs = append(specs, runtime.Spec{
			Name:    svc.Name,
			Command: svc.Command,
			Dir:     svc.Dir,
			LogPath: c.logPath(ws.project, svc.Name),
			Index:   i,
		})
	}

	events := make(chan engine.Event, 64)
	go logEvents(events)
	defer close(events)

	mux := logmux.New(out, errOut)
	supervisor := engine.NewSupervisor(process.New(mux), mux,
		engine.WithPollInterval(c.settings.PollInterval.Duration),
		engine.WithEvents(events),
		engine.WithExitHook(func(inst runtime.Instance, status runtime.ExitStatus) {
			if ctx.Err() != nil {
				return
			}
			log.Debug("service exited on its own", "service", inst.Name(), "status", status.String())
			c.forget(ws.project, inst.Name())
		}),
	)

	instances, errs := supervisor.Launch(ctx, specs)
	for _, err := range errs {
		log.Debug("spawn failed", "err", err)
	}
	if len(instances) == 0 {
		return errNothingStarted
	}

	if err := c.store.Update(func(st *state.State) error {
		for _, inst := range instances {
			st.AddService(ws.project, ws.root, inst.Name(), inst.PID(), byName[inst.Name()].PortPtr())
		}
		st.Project(ws.project).Session = session
		return nil
	}); err != nil {
		log.Warn("Failed to record services", "error", err)
	}
	log.Debug("session started", "project", ws.project, "session", session, "services", len(instances))

	stopNotice := stdcontext.AfterFunc(ctx, func() {
		cliutil.PrintStep(out, "Shutting down...")
	})
	supervisor.AwaitAll(ctx, instances)
	stopNotice()

	if err := c.store.Update(func(st *state.State) error {
		if opts.removeProject {
			st.RemoveProject(ws.project)
			return nil
		}
		for _, spec := range specs {
			st.RemoveService(ws.project, spec.Name)
		}
		return nil
	}); err != nil {
		log.Warn("Failed to update state", "error", err)
	}
	return nil
}

func logEvents(events <-chan engine.Event) {
	for evt := range events {
		log.Debug("service event", "service", evt.Service, "type", evt.Type, "pid", evt.PID, "reason", evt.Reason, "msg", evt.Message)
	}
}

func (c *context) forget(project, service string) {
	if err := c.store.Update(func(st *state.State) error {
		st.RemoveService(project, service)
		return nil
	}); err != nil {
		log.Warn("Failed to update state", "error", err)
	}
}

// lockedWriter serialises writes from the multiplexer and status messages.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
