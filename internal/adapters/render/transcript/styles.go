package transcript

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	welcome   lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	body      lipgloss.Style
	turn      lipgloss.Style
	thinking  lipgloss.Style
	errorText lipgloss.Style
	timestamp lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		welcome:   lipgloss.NewStyle().Faint(true),
		user:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		body:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		turn:      lipgloss.NewStyle().MarginTop(1),
		thinking:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		errorText: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
