package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/groo/internal/cliutil"
	"github.com/Paintersrp/groo/internal/state"
)

var openBrowser = cliutil.OpenBrowser

func newOpenCmd(ctx *context) *cobra.Command {
	return &cobra.Command{
		Use:   "open <service>",
		Short: "Open a running service in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.loadWorkspace()
			if err != nil {
				return err
			}
			url, err := serviceURL(ctx.store.Load(), ws.project, args[0])
			if err != nil {
				return err
			}
			cliutil.PrintStep(cmd.OutOrStdout(), "Opening %s", url)
			return openBrowser(url)
		},
	}
}

func serviceURL(st *state.State, project, service string) (string, error) {
	p := st.Project(project)
	if p == nil {
		return "", fmt.Errorf("no running services for project %s", project)
	}
	rec, ok := p.Services[service]
	if !ok || rec == nil {
		return "", fmt.Errorf("%w: %s (running: %v)", ErrUnknownService, service, p.ServiceNames())
	}
	if rec.PortValue() <= 0 {
		return "", fmt.Errorf("service %s has no known port", service)
	}
	return cliutil.LocalURL(rec.PortValue()), nil
}

