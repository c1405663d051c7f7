// Package view renders weftctl output for the terminal.
package view

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorAccent = lipgloss.Color("#A8D8EA")
	ColorDeep   = lipgloss.Color("#596E79")
	ColorText   = lipgloss.Color("#E0E0E0")
	ColorDrop   = lipgloss.Color("#FF6B6B")
	ColorAccept = lipgloss.Color("#4ECDC4")
	ColorWarn   = lipgloss.Color("#FFE66D")
	ColorMuted  = lipgloss.Color("#6c757d")
)

// Styles
var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorDeep)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	StyleUnavailable = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Italic(true)

	StyleAccept = lipgloss.NewStyle().Foreground(ColorAccept).Bold(true)
	StyleDrop   = lipgloss.NewStyle().Foreground(ColorDrop).Bold(true)
	StyleWarn   = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)

	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDeep).
			Padding(0, 1)

	StyleComment = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleCommand = lipgloss.NewStyle().Foreground(ColorAccent)
)

// Unavailable is shown in place of any value the dashboard could not supply.
const Unavailable = "—"
