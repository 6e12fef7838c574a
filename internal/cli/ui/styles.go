package ui

import "github.com/charmbracelet/lipgloss"

const boxWidth = 64

// Styles holds the shared lipgloss styles for command output. The box
// accents follow the palette used across the CLI: cyan for success and
// headers, red for failures.
var Styles = struct {
	Bold       lipgloss.Style
	SuccessBox lipgloss.Style
	ErrorBox   lipgloss.Style
}{
	Bold: lipgloss.NewStyle().Bold(true),

	SuccessBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("86")).
		Padding(0, 2).
		Width(boxWidth),

	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("203")).
		Padding(0, 2).
		Width(boxWidth),
}
