package cli

import (
	"github.com/spf13/cobra"

	"github.com/Paintersrp/groo/internal/cliutil"
	"github.com/Paintersrp/groo/internal/discovery"
	"github.com/Paintersrp/groo/internal/tui"
)

func newRestartCmd(ctx *context) *cobra.Command {
	var (
		all         bool
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "restart [service...]",
		Short: "Stop running dev servers and start them again",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ws, err := ctx.loadWorkspace()
			if err != nil {
				return err
			}

			st := ctx.reconcile()
			running := ctx.runningServices(st, ws)
			if len(running) == 0 {
				cliutil.PrintWarning(out, "No running services found. Use groo dev to start services.")
				return nil
			}

			items := make([]tui.Item, len(running))
			for i, svc := range running {
				items[i] = serviceItem(svc, false, true)
			}
			picked, err := pick(cmd, "Select services to restart", serviceNames(running), items, all, args)
			if err != nil {
				return err
			}
			if len(picked) == 0 {
				cliutil.PrintDim(out, "No services selected.")
				return nil
			}

			selected := make([]discovery.Service, 0, len(picked))
			targets := make([]target, 0, len(picked))
			for _, i := range picked {
				selected = append(selected, running[i])
				targets = append(targets, ctx.targetFor(st, ws.project, running[i]))
			}
			ctx.stopAll(cmd, targets)
			ctx.reconcile()

			if err := sleepContext(cmd.Context(), ctx.settings.SettleDelay.Duration); err != nil {
				return err
			}
			return ctx.supervise(cmd, ws, selected, superviseOptions{
				metricsAddr: ctx.metricsAddr(metricsAddr),
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Restart every running service without prompting")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve metrics and project status on this address")
	return cmd
}
