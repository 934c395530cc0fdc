// Package command is the ":" palette for list-wide operations.
package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/theme"
)

// Kind identifies a palette command.
type Kind int

const (
	Reload Kind = iota
	ToggleAll
	ClearCompleted
	SetFilter
	Setup
	Help
	Quit
)

// Command is a parsed palette entry. Filter is set for SetFilter only.
type Command struct {
	Kind   Kind
	Filter model.Filter
}

// aliases maps every accepted spelling to its command.
var aliases = map[string]Kind{
	"reload":          Reload,
	"refresh":         Reload,
	"toggle all":      ToggleAll,
	"clear":           ClearCompleted,
	"clear completed": ClearCompleted,
	"setup":           Setup,
	"config":          Setup,
	"help":            Help,
	"quit":            Quit,
	"q":               Quit,
}

// Hint lists the commands for the palette's hint line.
const Hint = "reload · toggle all · clear · filter all|active|completed · setup · quit"

// Parse normalizes case and whitespace and resolves s to a command.
// "filter" takes a filter name or fragment, e.g. "filter #/active".
func Parse(s string) (Command, error) {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))

	if arg, ok := strings.CutPrefix(s, "filter "); ok {
		f, err := model.ParseFilter(arg)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: SetFilter, Filter: f}, nil
	}
	if k, ok := aliases[s]; ok {
		return Command{Kind: k}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", s)
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Command Command
}

// Model is the command palette view.
type Model struct {
	input   textinput.Model
	problem string
	width   int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "filter active"
	ti.Prompt = ": "
	ti.Width = width - 6

	return Model{input: ti, width: width}
}

// Update handles messages for the command palette. An input that does
// not parse stays in the field with the reason shown below it.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		if strings.TrimSpace(m.input.Value()) == "" {
			return m, nil
		}
		cmd, err := Parse(m.input.Value())
		if err != nil {
			m.problem = err.Error()
			return m, nil
		}
		m.input.Reset()
		m.problem = ""
		return m, func() tea.Msg { return CommandMsg{Command: cmd} }
	}

	m.problem = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Command")

	hint := theme.HelpStyle.Render(Hint)
	if m.problem != "" {
		hint = lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.problem)
	}

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.input.View(), hint))
}

// SetSize updates the palette width.
func (m *Model) SetSize(width, _ int) {
	m.width = width
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Close clears and blurs the input.
func (m *Model) Close() {
	m.input.Reset()
	m.input.Blur()
	m.problem = ""
}
