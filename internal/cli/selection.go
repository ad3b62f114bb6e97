package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/groo/internal/discovery"
	"github.com/Paintersrp/groo/internal/tui"
)

// ErrUnknownService is returned when a service named on the command line
// does not exist.
var ErrUnknownService = errors.New("unknown service")

var (
	interactive = tui.Interactive
	multiSelect = tui.MultiSelect
)

// pick resolves which items a command acts on. Names given as arguments win
// and a repeated name is picked once; otherwise --all or a missing terminal take the default selection, and the
// user is prompted in every other case. A cancelled prompt selects nothing.
func pick(cmd *cobra.Command, title string, names []string, items []tui.Item, all bool, args []string) ([]int, error) {
	if len(args) > 0 {
		index := make(map[string]int, len(names))
		for i, name := range names {
			index[name] = i
		}
		picked := make([]int, 0, len(args))
		seen := make(map[int]bool, len(args))
		for _, arg := range args {
			i, ok := index[arg]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownService, arg)
			}
			if seen[i] {
				continue
			}
			seen[i] = true
			picked = append(picked, i)
		}
		return picked, nil
	}

	if all || !interactive() {
		return tui.NewSelection(items).Selected(), nil
	}

	picked, err := multiSelect(cmd.Context(), title, items)
	if errors.Is(err, tui.ErrCancelled) {
		return nil, nil
	}
	return picked, err
}

func serviceItem(svc discovery.Service, running, selected bool) tui.Item {
	hint := "no port"
	if svc.HasPort() {
		hint = ":" + strconv.Itoa(svc.Port)
	}
	if running {
		hint += " (running)"
	}
	return tui.Item{Label: svc.Name, Hint: hint, Selected: selected}
}

func serviceNames(services []discovery.Service) []string {
	return discovery.Names(services)
}
