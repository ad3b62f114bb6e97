package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/groo/internal/cliutil"
	"github.com/Paintersrp/groo/internal/discovery"
	"github.com/Paintersrp/groo/internal/engine"
	"github.com/Paintersrp/groo/internal/state"
	"github.com/Paintersrp/groo/internal/tui"
)

// target is a running service that can be stopped.
type target struct {
	name string
	port int
	pid  int
}

func (c *context) targetFor(st *state.State, project string, svc discovery.Service) target {
	t := target{name: svc.Name, port: svc.Port}
	if rec := st.Service(project, svc.Name); rec != nil {
		t.pid = rec.PID
		if rec.PortValue() > 0 {
			t.port = rec.PortValue()
		}
	}
	return t
}

// stopTarget terminates whatever listens on the target's port, falling back
// to the recorded pid when the port is unknown or idle.
func (c *context) stopTarget(ctx stdcontext.Context, t target) error {
	grace := c.settings.GracePeriod.Duration
	if t.port > 0 {
		_, err := engine.StopPort(ctx, c.prober, t.port, grace)
		if !errors.Is(err, engine.ErrNoProcess) {
			return err
		}
	}
	if t.pid > 0 && c.prober.ProcessExists(t.pid) {
		return engine.Terminate(ctx, c.prober, t.pid, grace)
	}
	return fmt.Errorf("%s: %w", t.name, engine.ErrNoProcess)
}

// stopAll stops every target and reports each outcome.
func (c *context) stopAll(cmd *cobra.Command, targets []target) {
	out := cmd.OutOrStdout()
	for _, t := range targets {
		err := c.stopTarget(cmd.Context(), t)
		switch {
		case err == nil:
			cliutil.PrintSuccess(out, "Stopped %s", t.name)
		case errors.Is(err, engine.ErrNoProcess):
			cliutil.PrintWarning(out, "Could not find process for %s", t.name)
		default:
			cliutil.PrintError(out, "Failed to stop %s: %v", t.name, err)
		}
	}
}

func newStopCmd(ctx *context) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "stop [project] [service...]",
		Short: "Stop running dev servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := ctx.reconcile()

			var (
				project  string
				names    = args
				explicit bool
			)
			if len(args) > 0 && st.Project(args[0]) != nil {
				project, names, explicit = args[0], args[1:], true
			}

			var ws *workspace
			if !explicit {
				var err error
				ws, err = ctx.loadWorkspace()
				if err != nil {
					return err
				}
				project = ws.project
			}

			targets := ctx.stopTargets(st, project, ws)
			if len(targets) == 0 {
				cliutil.PrintWarning(out, "No running services found for '%s'", project)
				return nil
			}

			labels := make([]string, len(targets))
			items := make([]tui.Item, len(targets))
			for i, t := range targets {
				labels[i] = t.name
				hint := "no port"
				if t.port > 0 {
					hint = fmt.Sprintf(":%d", t.port)
				}
				items[i] = tui.Item{Label: t.name, Hint: hint, Selected: true}
			}
			picked, err := pick(cmd, "Select services to stop", labels, items, all, names)
			if err != nil {
				return err
			}
			if len(picked) == 0 {
				cliutil.PrintDim(out, "No services selected.")
				return nil
			}

			selected := make([]target, 0, len(picked))
			for _, i := range picked {
				selected = append(selected, targets[i])
			}
			ctx.stopAll(cmd, selected)

			if err := sleepContext(cmd.Context(), ctx.settings.SettleDelay.Duration); err != nil {
				return err
			}
			ctx.reconcile()
			cliutil.PrintSuccess(out, "Done.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Stop every running service without prompting")
	return cmd
}

// stopTargets lists the running services of project: every live registry
// entry plus, when the workspace is known, discovered services whose port is
// in use.
func (c *context) stopTargets(st *state.State, project string, ws *workspace) []target {
	seen := make(map[string]bool)
	var targets []target
	if p := st.Project(project); p != nil {
		for _, name := range p.ServiceNames() {
			rec := p.Services[name]
			targets = append(targets, target{name: name, port: rec.PortValue(), pid: rec.PID})
			seen[name] = true
		}
	}
	if ws != nil {
		for _, svc := range ws.services {
			if seen[svc.Name] || !c.isRunning(st, project, svc) {
				continue
			}
			targets = append(targets, c.targetFor(st, project, svc))
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].name < targets[j].name })
	return targets
}

func sleepContext(ctx stdcontext.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
