package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpContent = `Mouse
  click ▸     Expand or collapse a node
  click row   Check or uncheck a node and its children
  wheel       Scroll three lines

Keys
  e / c       Expand all / collapse all
  y           Copy checked values to the clipboard
  ?           Toggle this help
  q           Quit`

// RenderHelp renders the help modal centered in a width x height area.
func RenderHelp(theme Theme, width, height int) string {
	r := theme.Renderer

	modalWidth := 60
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 20 {
		modalWidth = 20
	}

	var b strings.Builder
	b.WriteString(r.NewStyle().Bold(true).Foreground(theme.Primary).Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Muted).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n\n")
	b.WriteString(helpContent)
	b.WriteString("\n\n")
	b.WriteString(r.NewStyle().Foreground(theme.Muted).Italic(true).Render("Press ? or Esc to close"))

	modal := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth).
		Render(b.String())

	if width <= 0 || height <= 0 {
		return modal
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
