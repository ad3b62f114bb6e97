package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/groo/internal/cliutil"
	"github.com/Paintersrp/groo/internal/discovery"
	"github.com/Paintersrp/groo/internal/logmux"
	"github.com/Paintersrp/groo/internal/logstore"
	"github.com/Paintersrp/groo/internal/tui"
)

func newLogsCmd(ctx *context) *cobra.Command {
	var (
		lines  int
		follow bool
		asJSON bool
		redact bool
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "logs [service...]",
		Short: "Show and follow the logs of running dev servers",
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
			picked, err := pick(cmd, "Select services to show logs for", serviceNames(running), items, all, args)
			if err != nil {
				return err
			}
			if len(picked) == 0 {
				cliutil.PrintDim(out, "No services selected.")
				return nil
			}

			if !cmd.Flags().Changed("lines") {
				lines = ctx.settings.TailLines
			}
			printer := newLogPrinter(out, cmd.ErrOrStderr(), ws.project, asJSON, redact)
			selected := make([]discovery.Service, 0, len(picked))
			for n, i := range picked {
				svc := running[i]
				selected = append(selected, svc)
				printer.register(svc.Name, n)
			}

			targets := make([]logstore.Target, 0, len(selected))
			for _, svc := range selected {
				path := ctx.logPath(ws.project, svc.Name)
				recent, found, offset, err := recentLines(path, lines, follow)
				if err != nil {
					return err
				}
				targets = append(targets, logstore.Target{Service: svc.Name, Path: path, Offset: &offset})
				if !found || len(recent) == 0 {
					printer.empty(svc.Name)
					continue
				}
				for _, line := range recent {
					printer.line(svc.Name, line)
				}
			}

			if !follow {
				return nil
			}
			if !asJSON {
				fmt.Fprintln(out)
				cliutil.PrintStep(out, "Following logs... (Ctrl+C to stop)")
			}
			for line := range logstore.TailAll(cmd.Context(), targets) {
				printer.line(line.Service, line.Text)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "Number of recent lines to show per service")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit one JSON record per line")
	cmd.Flags().BoolVar(&redact, "redact", false, "Mask secrets in log lines")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show every running service without prompting")
	return cmd
}

// recentLines reads the last n lines of a log file. When following, the
// trailing partial line is left to the tailer and offset marks where it
// resumes, so lines written in between are neither lost nor repeated.
func recentLines(path string, n int, follow bool) (lines []string, found bool, offset int64, err error) {
	if !follow {
		lines, found, err = logstore.LastLines(path, n)
		return lines, found, 0, err
	}
	snap, err := logstore.ReadSnapshot(path, n)
	return snap.Lines, snap.Found, snap.Offset, err
}

// logPrinter renders stored log lines either with coloured prefixes or as
// JSON records.
type logPrinter struct {
	out      io.Writer
	errOut   io.Writer
	project  string
	enc      *json.Encoder
	redact   bool
	prefixes map[string]string
}

func newLogPrinter(out, errOut io.Writer, project string, asJSON, redact bool) *logPrinter {
	p := &logPrinter{
		out:      out,
		errOut:   errOut,
		project:  project,
		redact:   redact,
		prefixes: make(map[string]string),
	}
	if asJSON {
		p.enc = json.NewEncoder(out)
	}
	return p
}

func (p *logPrinter) register(service string, index int) {
	p.prefixes[service] = logmux.Prefix(service, logmux.ColorFor(index))
}

func (p *logPrinter) line(service, text string) {
	if p.redact {
		text = cliutil.RedactSecrets(text)
	}
	if p.enc != nil {
		cliutil.EncodeLogRecord(p.enc, p.errOut, cliutil.NewLogRecord(p.project, service, text, time.Now()))
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.prefix(service), text)
}

func (p *logPrinter) empty(service string) {
	if p.enc != nil {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.prefix(service), cliutil.DimStyle.Render("(no logs yet)"))
}

func (p *logPrinter) prefix(service string) string {
	if prefix, ok := p.prefixes[service]; ok {
		return prefix
	}
	return logmux.Prefix(service, logmux.ColorFor(len(p.prefixes)))
}
