package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpText = "enter send · ctrl+r reset · ctrl+y copy reply · pgup/pgdn scroll · esc quit"

var (
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	separator := separatorStyle.Render(strings.Repeat("─", max(m.width, 1)))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		separator,
		m.input.View(),
		statusStyle.Render(m.statusLine),
	)
}
