package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/groo/internal/cliutil"
	"github.com/Paintersrp/groo/internal/state"
)

func newStatusCmd(ctx *context) *cobra.Command {
	return &cobra.Command{
		Use:   "status [project]",
		Short: "Show the dev servers of a project and whether they are running",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := ctx.reconcile()

			var (
				ws  *workspace
				err error
			)
			if len(args) == 1 {
				p := st.Project(args[0])
				if p == nil {
					cliutil.PrintWarning(out, "No running services found for '%s'", args[0])
					return nil
				}
				ws, err = ctx.workspaceAt(p.Path, args[0])
			} else {
				ws, err = ctx.loadWorkspace()
			}
			if err != nil {
				return err
			}

			ctx.printStatus(out, st, ws, time.Now())
			return nil
		},
	}
}

func (c *context) printStatus(out io.Writer, st *state.State, ws *workspace, now time.Time) {
	cliutil.PrintTitle(out, "%s", ws.project)
	if len(ws.services) == 0 {
		cliutil.PrintDim(out, "No services with dev scripts found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tPORT\tSTATUS\tPID\tUPTIME")
	for _, svc := range ws.services {
		port := "-"
		if svc.HasPort() {
			port = strconv.Itoa(svc.Port)
		}
		status := "Stopped"
		if c.isRunning(st, ws.project, svc) {
			status = "Running"
		}
		pid, uptime := "-", "-"
		if rec := st.Service(ws.project, svc.Name); rec != nil {
			if rec.PID > 0 {
				pid = strconv.Itoa(rec.PID)
			}
			if rec.StartedAt != nil {
				uptime = units.HumanDuration(now.Sub(*rec.StartedAt))
			}
			if rec.PortValue() > 0 {
				port = strconv.Itoa(rec.PortValue())
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", svc.Name, port, status, pid, uptime)
	}
	w.Flush()
}
