// Package tui renders the interactive service pickers.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user dismisses the prompt.
var ErrCancelled = errors.New("selection cancelled")

const helpText = "[gray]↑/↓ move  space toggle  a toggle all  enter confirm  esc cancel"

// Prompt is a checkbox list backed by tview.
type Prompt struct {
	app   *tview.Application
	table *tview.Table
	help  *tview.TextView
	title string

	mu        sync.Mutex
	selection *Selection
	confirmed bool
	stopOnce  sync.Once
}

// New constructs a prompt over items.
func New(title string, items []Item) *Prompt {
	app := tview.NewApplication()
	table := tview.NewTable().SetSelectable(true, false)
	table.SetBorder(true).SetTitle(" " + title + " ")

	help := tview.NewTextView().SetDynamicColors(true).SetText(helpText)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, true).
		AddItem(help, 1, 0, false)

	p := &Prompt{
		app:       app,
		table:     table,
		help:      help,
		title:     title,
		selection: NewSelection(items),
	}

	app.SetRoot(flex, true)
	app.SetInputCapture(p.handleKey)

	p.mu.Lock()
	p.renderLocked()
	p.mu.Unlock()

	return p
}

// Run shows the prompt until it is confirmed, cancelled or ctx is done. It
// returns the indices of the checked items.
func (p *Prompt) Run(ctx context.Context) ([]int, error) {
	if p.selection.Len() == 0 {
		return nil, nil
	}

	stopWatch := make(chan struct{})
	defer close(stopWatch)
	go func() {
		select {
		case <-ctx.Done():
			p.stop()
		case <-stopWatch:
		}
	}()

	if err := p.app.Run(); err != nil {
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.confirmed {
		return nil, ErrCancelled
	}
	return p.selection.Selected(), nil
}

func (p *Prompt) stop() {
	p.stopOnce.Do(p.app.Stop)
}

func (p *Prompt) handleKey(event *tcell.EventKey) *tcell.EventKey {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.Key() {
	case tcell.KeyEnter:
		p.confirmed = true
		go p.stop()
		return nil
	case tcell.KeyEscape, tcell.KeyCtrlC:
		go p.stop()
		return nil
	case tcell.KeyUp:
		p.selection.Move(-1)
	case tcell.KeyDown, tcell.KeyTab:
		p.selection.Move(1)
	case tcell.KeyRune:
		switch event.Rune() {
		case ' ':
			p.selection.Toggle()
		case 'a', 'A':
			p.selection.ToggleAll()
		case 'k':
			p.selection.Move(-1)
		case 'j':
			p.selection.Move(1)
		case 'q':
			go p.stop()
			return nil
		default:
			return event
		}
	default:
		return event
	}
	p.renderLocked()
	return nil
}

func (p *Prompt) renderLocked() {
	p.table.Clear()
	for i := 0; i < p.selection.Len(); i++ {
		item := p.selection.Item(i)
		box := "[ ]"
		if p.selection.Checked(i) {
			box = "[x]"
		}
		text := fmt.Sprintf("%s %s", tview.Escape(box), tview.Escape(item.Label))
		if item.Hint != "" {
			text += " [gray]" + tview.Escape(item.Hint) + "[-]"
		}
		cell := tview.NewTableCell(text).SetExpansion(1)
		if item.Disabled {
			cell.SetTextColor(tcell.ColorGray)
		}
		p.table.SetCell(i, 0, cell)
	}
	p.table.Select(p.selection.Cursor(), 0)
}

// Interactive reports whether stdin and stdout are attached to a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// MultiSelect asks the user to pick items and returns their indices. Without
// a terminal the initially selected items are returned unchanged.
func MultiSelect(ctx context.Context, title string, items []Item) ([]int, error) {
	if !Interactive() {
		log.Debug("no terminal, using default selection", "prompt", title)
		return NewSelection(items).Selected(), nil
	}
	return New(title, items).Run(ctx)
}
