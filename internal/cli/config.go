package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newConfigCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect groo's files and settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where groo keeps its state, logs and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "config\t%s\n", ctx.paths.ConfigDir)
			fmt.Fprintf(w, "settings\t%s\n", ctx.paths.ConfigFile)
			fmt.Fprintf(w, "state\t%s\n", ctx.paths.StateFile)
			fmt.Fprintf(w, "logs\t%s\n", ctx.paths.LogDir)
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.settings.Encode()
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	return cmd
}
