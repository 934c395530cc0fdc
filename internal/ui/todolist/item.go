package todolist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/theme"
)

// Item wraps a model.Todo so it can be used in a bubbles/list.
type Item struct {
	Todo model.Todo
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Todo.Title }

// Title returns the todo title for the list.
func (i Item) Title() string { return i.Todo.Title }

// Description returns the completion status.
func (i Item) Description() string {
	if i.Todo.Completed {
		return "completed"
	}
	return "active"
}

// renderState is shared by reference between Model and ItemDelegate so
// the delegate sees the latest store state, spinner frame and editor.
type renderState struct {
	state     store.State
	spinner   string
	editing   bool
	editingID int
	editor    string
}

// ItemDelegate implements list.ItemDelegate for rendering todos.
type ItemDelegate struct {
	rs *renderState
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single todo line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}
	fmt.Fprint(w, d.line(it.Todo, index == m.Index()))
}

func (d ItemDelegate) line(t model.Todo, isSelected bool) string {
	marker := "○"
	if t.Completed {
		marker = theme.CheckStyle.Render("✓")
	}

	var body string
	switch {
	case d.rs.editing && d.rs.editingID == t.ID:
		body = d.rs.editor
	case t.Completed:
		body = theme.CompletedStyle.Render(t.Title)
	case t.IsTemp():
		body = theme.HelpStyle.Render(t.Title)
	default:
		body = t.Title
	}

	loader := ""
	if d.rs.state.IsBusy(t.ID) {
		loader = " " + d.rs.spinner
	}

	line := fmt.Sprintf("%s %s%s", marker, body, loader)

	if isSelected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}
