package cli

import (
	"fmt"
	"io"
	"time"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/groo/internal/cliutil"
	"github.com/Paintersrp/groo/internal/state"
)

func newListCmd(ctx *context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects with running services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printProjects(cmd.OutOrStdout(), ctx.reconcile(), time.Now())
			return nil
		},
	}
}

func printProjects(out io.Writer, st *state.State, now time.Time) {
	names := st.ProjectNames()
	if len(names) == 0 {
		cliutil.PrintDim(out, "No projects with running services.")
		return
	}
	cliutil.PrintTitle(out, "Projects with running services:")
	for _, name := range names {
		p := st.Project(name)
		line := fmt.Sprintf("  %s %s (%d service(s))", cliutil.RunningStyle.Render("●"), name, len(p.Services))
		if started := earliestStart(p); !started.IsZero() {
			line += cliutil.DimStyle.Render(" up " + units.HumanDuration(now.Sub(started)))
		}
		fmt.Fprintln(out, line)
		if p.Path != "" {
			cliutil.PrintDim(out, "    %s", p.Path)
		}
	}
}

func earliestStart(p *state.Project) time.Time {
	var earliest time.Time
	for _, svc := range p.Services {
		if svc == nil || svc.StartedAt == nil {
			continue
		}
		if earliest.IsZero() || svc.StartedAt.Before(earliest) {
			earliest = *svc.StartedAt
		}
	}
	return earliest
}
