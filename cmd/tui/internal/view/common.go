package view

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	paddedStyle  = lipgloss.NewStyle().Padding(1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

// resultView renders the outcome of an action with a hint to go back.
func resultView(status string, err error) string {
	if err != nil {
		return paddedStyle.Render(errorStyle.Render("Error: "+err.Error()) + "\n\n(Esc to go back)")
	}

	return paddedStyle.Render(successStyle.Render(status) + "\n\n(Esc to go back)")
}
