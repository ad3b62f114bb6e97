package cliutil

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	Purple  = lipgloss.Color("#9D61FF")
	Red     = lipgloss.Color("#EF4444")
	Amber   = lipgloss.Color("#F59E0B")
	Green   = lipgloss.Color("#22C55E")
	DimGray = lipgloss.Color("#9CA3AF")
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	SuccessStyle = lipgloss.NewStyle().Foreground(Green).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(Amber)
	InfoStyle    = lipgloss.NewStyle().Foreground(Purple)
	DimStyle     = lipgloss.NewStyle().Foreground(DimGray)
	RunningStyle = lipgloss.NewStyle().Foreground(Green)
	StoppedStyle = lipgloss.NewStyle().Foreground(DimGray)
)

// PrintSuccess writes a "✓" message.
func PrintSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError writes a "✗" message.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning writes a "⚠" message.
func PrintWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintStep writes a "→" progress message.
func PrintStep(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, InfoStyle.Render("→ "+fmt.Sprintf(format, args...)))
}

func PrintDim(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf(format, args...)))
}

func PrintTitle(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf(format, args...)))
}
