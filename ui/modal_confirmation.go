package ui

import (
	"context"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ConfirmationState struct {
	Title   string
	Message string
}

func RenderConfirmationModal(state ConfirmationState, width, height int) string {
	modalWidth := 60
	if width > 0 && width < modalWidth+10 {
		modalWidth = width - 10
	}
	if modalWidth < 20 {
		modalWidth = 20
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(warningColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(state.Title)

	messageLines := []string{strings.Repeat(" ", modalWidth)}
	messageStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)
	for _, line := range strings.Split(state.Message, "\n") {
		messageLines = append(messageLines, messageStyle.Render(line))
	}
	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(messageLines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(FormatFooter("y", "Yes", "n", "No"))

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

type confirmModel struct {
	state    ConfirmationState
	width    int
	height   int
	answered bool
	accepted bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch strings.ToLower(msg.String()) {
		case "y":
			m.answered, m.accepted = true, true
			return m, tea.Quit
		case "n", "esc", "ctrl+c", "q":
			m.answered = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	return RenderConfirmationModal(m.state, m.width, m.height)
}

// ModalConfirmer asks in a full-screen modal. Only "y" accepts.
type ModalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (c ModalConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	title, message, _ := strings.Cut(prompt, "\n")
	m := confirmModel{state: ConfirmationState{
		Title:   "⚠  " + strings.TrimSpace(title),
		Message: strings.TrimSpace(message),
	}}

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if c.In != nil {
		opts = append(opts, tea.WithInput(c.In))
	}
	if c.Out != nil {
		opts = append(opts, tea.WithOutput(c.Out))
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, err
	}
	result, ok := final.(confirmModel)
	if !ok {
		return false, errors.New("confirmation ended unexpectedly")
	}
	return result.accepted, nil
}
