// ABOUTME: Lipgloss styles derived from the saved theme and dark mode setting
// ABOUTME: Every view asks for styles on render so settings changes apply immediately
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/amil/models"
)

var accentColors = map[string]lipgloss.Color{
	"default": lipgloss.Color("#2563EB"),
	"green":   lipgloss.Color("#22C55E"),
	"purple":  lipgloss.Color("#9333EA"),
	"orange":  lipgloss.Color("#F97316"),
}

type styles struct {
	title       lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	help        lipgloss.Style
	fieldLabel  lipgloss.Style
	fieldValue  lipgloss.Style
	warning     lipgloss.Style
	success     lipgloss.Style
	notifyBox   lipgloss.Style
	confirmBox  lipgloss.Style
	confirmBtn  lipgloss.Style
	cancelBtn   lipgloss.Style
}

func newStyles(s models.Settings) styles {
	accent, ok := accentColors[s.Theme]
	if !ok {
		accent = accentColors["default"]
	}

	text, muted, panel := lipgloss.Color("236"), lipgloss.Color("245"), lipgloss.Color("254")
	if s.DarkMode {
		text, muted, panel = lipgloss.Color("252"), lipgloss.Color("240"), lipgloss.Color("235")
	}
	red := lipgloss.Color("9")

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1),
		tabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Background(panel).
			Padding(0, 2),
		tabInactive: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),
		help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
		fieldLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Width(24),
		fieldValue: lipgloss.NewStyle().
			Foreground(text),
		warning: lipgloss.NewStyle().
			Foreground(red).
			Bold(true),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22C55E")),
		notifyBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1),
		confirmBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(red).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center),
		confirmBtn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(red).
			Padding(0, 2).
			MarginRight(2),
		cancelBtn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("8")).
			Padding(0, 2),
	}
}
