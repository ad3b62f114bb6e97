package cli

import (
	stdcontext "context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/groo/internal/config"
	"github.com/Paintersrp/groo/internal/probe"
	"github.com/Paintersrp/groo/internal/state"
)

func NewRootCmd() *cobra.Command {
	root, _ := newRootCommand()
	return root
}

func newRootCommand() (*cobra.Command, *context) {
	ctx := &context{}

	root := &cobra.Command{
		Use:   "groo",
		Short: "Run and supervise the dev servers of a monorepo",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if ctx.debug {
				log.SetLevel(log.DebugLevel)
			}
			if ctx.workdir != "" {
				if err := os.Chdir(ctx.workdir); err != nil {
					return fmt.Errorf("change directory: %w", err)
				}
			}
			return ctx.init()
		},
	}

	root.PersistentFlags().StringVarP(&ctx.workdir, "workdir", "w", "", "Run as if groo was started in this directory")
	root.PersistentFlags().BoolVar(&ctx.debug, "debug", false, "Enable debug logging")

	root.AddCommand(newDevCmd(ctx))
	root.AddCommand(newRestartCmd(ctx))
	root.AddCommand(newStopCmd(ctx))
	root.AddCommand(newListCmd(ctx))
	root.AddCommand(newStatusCmd(ctx))
	root.AddCommand(newLogsCmd(ctx))
	root.AddCommand(newOpenCmd(ctx))
	root.AddCommand(newConfigCmd(ctx))

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root, ctx
}

// Execute runs the CLI entrypoint.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetContext(ctx)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// context carries what every command needs once flags are parsed.
type context struct {
	workdir string
	debug   bool

	paths    config.Paths
	settings config.Settings
	store    *state.Store
	prober   probe.Prober
	checker  *probe.Checker
}

func (c *context) init() error {
	if c.store != nil {
		return nil
	}
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings(paths.ConfigFile)
	if err != nil {
		return err
	}
	c.paths = paths
	c.settings = settings
	c.store = state.NewStore(paths.StateFile, paths.LockFile)
	if c.prober == nil {
		c.prober = probe.NewSystem()
	}
	c.checker = probe.NewChecker(c.prober)
	log.Debug("resolved paths", "config", paths.ConfigDir, "state", paths.StateFile, "logs", paths.LogDir)
	return nil
}

// reconcile prunes dead services from the registry and returns it.
func (c *context) reconcile() *state.State {
	st, err := c.store.Reconcile(c.checker)
	if err != nil {
		log.Warn("Failed to update state", "error", err)
		st = c.store.Load()
		st.CleanStalePids(c.checker)
	}
	return st
}
