package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	TaskStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	AnswerStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	ActionStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	RiskStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)
)

// FormatFooter alternates keys and descriptions:
// FormatFooter("y", "Yes", "n", "No") renders "y Yes  n No".
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i+1 < len(parts); i += 2 {
		result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
	}
	return strings.Join(result, "  ")
}
