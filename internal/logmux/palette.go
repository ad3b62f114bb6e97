package logmux

import "github.com/charmbracelet/lipgloss"

var palette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
}

// PaletteSize is the number of distinct service colours.
var PaletteSize = len(palette)

// ColorFor returns the colour for the service at index, cycling through the
// palette. Any integer is accepted.
func ColorFor(index int) lipgloss.Style {
	n := len(palette)
	return palette[((index%n)+n)%n]
}

// FormatLine renders the plain prefixed form written to log files.
func FormatLine(name, text string) string {
	return "[" + name + "] " + text
}

// Prefix renders the coloured console prefix for name.
func Prefix(name string, style lipgloss.Style) string {
	return style.Render("[" + name + "]")
}
