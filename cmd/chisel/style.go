package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			PaddingLeft(4)
)

// styledStatus renders status lines with coloured verdicts for terminals.
func styledStatus(name string, passed bool) string {
	if passed {
		return name + ": " + goodStyle.Render("GOOD")
	}
	return name + ": " + badStyle.Render("BAD")
}
