// Package cliui holds the lipgloss styles used by the solver CLI's
// non-interactive status output (progress lines, inspect tables, summary
// banners). There is no bubbletea event loop here: training is a
// long-running batch job, not an interactive TUI, so styles are applied
// directly to strings written to stderr/stdout.
package cliui

import "github.com/charmbracelet/lipgloss"

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Banner renders a bold title line, used once at the start of a run.
func Banner(title string) string {
	return HeaderStyle.Render(" " + title + " ")
}

// Field renders a "label: value" pair in the dim-label/bright-value pattern
// used by the inspect subcommand's key/value table.
func Field(label, value string) string {
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}
