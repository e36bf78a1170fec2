package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors and styles used by the tree view.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Stripe    lipgloss.AdaptiveColor

	Header  lipgloss.Style
	Footer  lipgloss.Style
	EvenRow lipgloss.Style
	OddRow  lipgloss.Style
}

// DefaultTheme builds the theme for renderer. name may be "dark" or "light"
// to override background detection; anything else auto-detects.
func DefaultTheme(r *lipgloss.Renderer, name string) Theme {
	switch name {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	}

	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"},
		Secondary: lipgloss.AdaptiveColor{Light: "#0A7E8C", Dark: "#5FD7E6"},
		Muted:     lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"},
		Highlight: lipgloss.AdaptiveColor{Light: "#1E8E3E", Dark: "#50FA7B"},
		Stripe:    lipgloss.AdaptiveColor{Light: "#F2F2F2", Dark: "#1E1E24"},
	}
	t.Header = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Footer = r.NewStyle().Foreground(t.Muted)
	t.EvenRow = r.NewStyle().Background(t.Stripe)
	t.OddRow = r.NewStyle()
	return t
}
