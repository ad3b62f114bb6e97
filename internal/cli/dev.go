package cli

import (
	"github.com/spf13/cobra"

	"github.com/Paintersrp/groo/internal/cliutil"
	"github.com/Paintersrp/groo/internal/discovery"
	"github.com/Paintersrp/groo/internal/tui"
)

func newDevCmd(ctx *context) *cobra.Command {
	var (
		all         bool
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "dev [service...]",
		Short: "Start dev servers and stream their output",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ws, err := ctx.loadWorkspace()
			if err != nil {
				return err
			}
			if len(ws.services) == 0 {
				cliutil.PrintWarning(out, "No services with dev scripts found.")
				return nil
			}

			st := ctx.reconcile()
			running := make([]bool, len(ws.services))
			items := make([]tui.Item, len(ws.services))
			idle := 0
			for i, svc := range ws.services {
				running[i] = ctx.isRunning(st, ws.project, svc)
				if !running[i] {
					idle++
				}
				items[i] = serviceItem(svc, running[i], svc.HasPort() && !running[i])
				items[i].Disabled = running[i]
			}
			if idle == 0 {
				cliutil.PrintWarning(out, "All services are already running. Use groo restart to restart.")
				return nil
			}

			picked, err := pick(cmd, "Select services to start", serviceNames(ws.services), items, all, args)
			if err != nil {
				return err
			}
			var selected []discovery.Service
			for _, i := range picked {
				if running[i] {
					cliutil.PrintWarning(out, "%s is already running", ws.services[i].Name)
					continue
				}
				selected = append(selected, ws.services[i])
			}
			if len(selected) == 0 {
				cliutil.PrintDim(out, "No services selected.")
				return nil
			}

			return ctx.supervise(cmd, ws, selected, superviseOptions{
				removeProject: true,
				metricsAddr:   ctx.metricsAddr(metricsAddr),
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Start the default selection without prompting")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve metrics and project status on this address")
	return cmd
}
