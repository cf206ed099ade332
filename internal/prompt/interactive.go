package prompt

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

type interactiveAsker struct {
	in  io.Reader
	out io.Writer
}

func (a *interactiveAsker) Ask(q Question) (string, error) {
	final, err := tea.NewProgram(newInputModel(q), tea.WithInput(a.in), tea.WithOutput(a.out)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	m := final.(inputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	if m.value == "" {
		return q.Default, nil
	}
	return m.value, nil
}

type inputModel struct {
	question  Question
	input     textinput.Model
	value     string
	done      bool
	cancelled bool
}

func newInputModel(q Question) inputModel {
	ti := textinput.New()
	ti.Placeholder = q.Default
	if q.Secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.Placeholder = ""
	}
	ti.Focus()
	return inputModel{question: q, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return labelStyle.Render(m.question.Label) + " " + m.input.View() + "\n"
}
