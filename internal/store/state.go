package store

import "github.com/nhle/todoapp/internal/model"

// State is the whole application state. Values are treated as immutable:
// Reduce always builds a new Items slice rather than writing into the old one.
type State struct {
	// Items is in insertion order, which is also display order.
	Items []model.Todo

	// Filter controls visibility only; it never changes Items.
	Filter model.Filter

	// SelectedID is the todo currently being edited or acted upon.
	SelectedID *int

	// ErrorMessage describes the most recent failure. Empty means none.
	ErrorMessage string

	// inFlight counts started updates that have not stopped yet.
	inFlight int
}

// NewState returns a state holding items under filter f.
func NewState(items []model.Todo, f model.Filter) State {
	return State{
		Items:  append([]model.Todo(nil), items...),
		Filter: f,
	}
}

// IsUpdating reports whether any network-backed mutation is in flight.
func (s State) IsUpdating() bool { return s.inFlight > 0 }

// IsSelected reports whether id is the selected todo.
func (s State) IsSelected(id int) bool {
	return s.SelectedID != nil && *s.SelectedID == id
}

// Visible returns the items that pass the current filter.
func (s State) Visible() []model.Todo {
	visible := make([]model.Todo, 0, len(s.Items))
	for _, t := range s.Items {
		if s.Filter.Match(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// Find returns the todo with the given id.
func (s State) Find(id int) (model.Todo, bool) {
	for _, t := range s.Items {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}

// TempTodo returns the pending-creation placeholder, if any.
func (s State) TempTodo() (model.Todo, bool) {
	return s.Find(model.TempID)
}

// ActiveCount is the number of todos not completed.
func (s State) ActiveCount() int {
	n := 0
	for _, t := range s.Items {
		if !t.Completed {
			n++
		}
	}
	return n
}

// CompletedCount is the number of completed todos.
func (s State) CompletedCount() int {
	return len(s.Items) - s.ActiveCount()
}

// AllCompleted reports whether every todo is completed. An empty list
// counts as all completed.
func (s State) AllCompleted() bool {
	return s.ActiveCount() == 0
}

// HasCompleted reports whether there is anything to clear.
func (s State) HasCompleted() bool {
	return s.CompletedCount() > 0
}

// IsBusy reports whether a loader should be shown for the todo: it is the
// unconfirmed placeholder, or it is selected while an update is in flight.
func (s State) IsBusy(id int) bool {
	if id == model.TempID {
		return true
	}
	return s.IsUpdating() && s.IsSelected(id)
}
