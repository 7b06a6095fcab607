package ui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type promptModel struct {
	input     textinput.Model
	submitted bool
	quit      bool
}

func newPromptModel() promptModel {
	ti := textinput.New()
	ti.Placeholder = "Ask Jarvis something, e.g. turn on the fan"
	ti.Prompt = TaskStyle.Render("> ")
	ti.CharLimit = 2000
	ti.Width = 72
	ti.Focus()
	return promptModel{input: ti}
}

func (m promptModel) Init() tea.Cmd { return textinput.Blink }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			m.input.Width = msg.Width - 4
		}
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.submitted || m.quit {
		return ""
	}
	return m.input.View() + "\n" + DimStyle.Render(FormatFooter("Enter", "Send", "Esc", "Quit"))
}

// PromptSource reads tasks with an inline text input. Esc or Ctrl+C ends
// the session with io.EOF.
type PromptSource struct {
	In  io.Reader
	Out io.Writer
}

func (s PromptSource) Next(ctx context.Context) (string, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if s.In != nil {
		opts = append(opts, tea.WithInput(s.In))
	}
	if s.Out != nil {
		opts = append(opts, tea.WithOutput(s.Out))
	}

	final, err := tea.NewProgram(newPromptModel(), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	m, ok := final.(promptModel)
	if !ok {
		return "", errors.New("prompt ended unexpectedly")
	}
	if m.quit {
		return "", io.EOF
	}
	return strings.TrimSpace(m.input.Value()), nil
}
