package todolist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoapp/internal/keys"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/theme"
)

// EditSubmittedMsg is sent when the user confirms an inline edit.
type EditSubmittedMsg struct {
	Todo  model.Todo
	Title string
}

// Model is the list of visible todos with inline editing.
type Model struct {
	list    list.Model
	keys    *keys.KeyMap
	rs      *renderState
	editor  textinput.Model
	editing model.Todo
	spinner spinner.Model
	width   int
	height  int
}

// New creates a new todo list model.
func New(k *keys.KeyMap, width, height int) Model {
	rs := &renderState{}

	l := list.New([]list.Item{}, ItemDelegate{rs: rs}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	ed := textinput.New()
	ed.Placeholder = "Empty todo will be deleted"
	ed.Prompt = ""
	ed.CharLimit = 256
	ed.Width = width - 8

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorRose)

	return Model{
		list:    l,
		keys:    k,
		rs:      rs,
		editor:  ed,
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Init starts the loader animation.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles navigation, the inline editor and spinner ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.rs.editing {
			return m.updateEditor(msg)
		}
		if key.Matches(msg, m.keys.Up, m.keys.Down) ||
			key.Matches(msg, m.list.KeyMap.NextPage, m.list.KeyMap.PrevPage) {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		t, title := m.editing, m.editor.Value()
		return m, func() tea.Msg { return EditSubmittedMsg{Todo: t, Title: title} }

	case key.Matches(msg, m.keys.Back):
		m.StopEdit()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// SetState refreshes the list from the store state.
func (m *Model) SetState(st store.State) tea.Cmd {
	m.rs.state = st

	visible := st.Visible()
	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = Item{Todo: t}
	}
	cmd := m.list.SetItems(items)

	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}

	// An edited todo that vanished (deleted elsewhere) ends the edit.
	if m.rs.editing {
		if _, ok := st.Find(m.editing.ID); !ok {
			m.StopEdit()
		}
	}
	return cmd
}

// SelectedTodo returns the todo under the cursor.
func (m Model) SelectedTodo() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.Todo{}, false
	}
	return it.Todo, true
}

// StartEdit opens the inline editor on t.
func (m *Model) StartEdit(t model.Todo) tea.Cmd {
	m.editing = t
	m.rs.editing = true
	m.rs.editingID = t.ID
	m.editor.SetValue(t.Title)
	m.editor.CursorEnd()
	return m.editor.Focus()
}

// StopEdit closes the inline editor.
func (m *Model) StopEdit() {
	m.rs.editing = false
	m.rs.editingID = 0
	m.editing = model.Todo{}
	m.editor.Blur()
	m.editor.Reset()
}

// Editing reports whether the inline editor is open.
func (m Model) Editing() bool { return m.rs.editing }

// EditingID returns the id of the todo being edited.
func (m Model) EditingID() int { return m.rs.editingID }

// Len returns the number of visible todos.
func (m Model) Len() int { return len(m.list.Items()) }

// View renders the list.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	m.rs.spinner = m.spinner.View()
	m.rs.editor = m.editor.View()
	return m.list.View()
}

func (m Model) renderEmptyState() string {
	text := "Nothing to do."
	switch m.rs.state.Filter {
	case model.FilterActive:
		text = "No active todos."
	case model.FilterCompleted:
		text = "No completed todos."
	}
	if len(m.rs.state.Items) == 0 && m.rs.state.IsUpdating() {
		text = "Loading…"
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
	m.editor.Width = width - 8
}
