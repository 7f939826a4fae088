package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorMantle   lipgloss.Color = "#181825"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorText)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorPink).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	fieldErrStyle = lipgloss.NewStyle().Foreground(colorRed)
	noticeStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Padding(0, 1)
	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
)

// renderFooter lays out key hints where every character carries the footer background.
func renderFooter(bindings []key.Binding) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	return strings.Join(parts, sep)
}
