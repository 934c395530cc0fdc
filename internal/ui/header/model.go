package header

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoapp/internal/keys"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/theme"
)

// SubmitMsg is emitted when the user presses enter in the new todo field.
type SubmitMsg struct {
	Title string
}

// Model is the header: the toggle-all control and the new todo field.
type Model struct {
	input    textinput.Model
	keys     *keys.KeyMap
	disabled bool
	width    int
}

// New creates a header model.
func New(k *keys.KeyMap, width int) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = width - 6

	return Model{
		input: ti,
		keys:  k,
		width: width,
	}
}

// Update handles messages while the new todo field has focus. Input is
// ignored while disabled.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.disabled {
			return m, nil
		}
		if key.Matches(keyMsg, m.keys.Submit) {
			title := m.input.Value()
			return m, func() tea.Msg { return SubmitMsg{Title: title} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the header for the given state.
func (m Model) View(st store.State) string {
	toggle := " "
	if len(st.Items) > 0 {
		style := theme.ToggleAllStyle
		if st.AllCompleted() {
			style = theme.ToggleAllActiveStyle
		}
		toggle = style.Render("❯")
	}

	field := m.input.View()
	if m.disabled {
		field = theme.DimmedStyle.Render(m.input.Value() + " …")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, toggle, "  ", field)
}

// Focus gives keyboard focus to the new todo field.
func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.input.Blur() }

// Value returns the current text.
func (m Model) Value() string { return m.input.Value() }

// Reset clears the field.
func (m *Model) Reset() { m.input.Reset() }

// SetDisabled toggles whether the field accepts input.
func (m *Model) SetDisabled(disabled bool) { m.disabled = disabled }

// SetSize updates the field width.
func (m *Model) SetSize(width int) {
	m.width = width
	m.input.Width = width - 6
}
