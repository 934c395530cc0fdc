package store

import "github.com/nhle/todoapp/internal/model"

// Action is a state-transition request. The set of variants is closed:
// only the types in this file implement it.
type Action interface {
	// Name returns the wire-style name of the action, used for logging.
	Name() string
	sealed()
}

// SetFilter changes which todos are visible.
type SetFilter struct {
	Filter model.Filter
}

// AddTempTodo appends the pending-creation placeholder.
type AddTempTodo struct {
	Todo model.Todo
}

// RemoveTempTodo drops the placeholder if present.
type RemoveTempTodo struct{}

// AddTodo appends a server-confirmed todo.
type AddTodo struct {
	Todo model.Todo
}

// UpdateTodo replaces the todo with the same id.
type UpdateTodo struct {
	Todo model.Todo
}

// DeleteTodo removes the todo with the given id.
type DeleteTodo struct {
	ID int
}

// SelectTodo marks the todo being edited or acted upon.
type SelectTodo struct {
	ID int
}

// StartUpdate marks a network-backed mutation as in flight.
type StartUpdate struct{}

// StopUpdate marks a network-backed mutation as finished.
type StopUpdate struct{}

// ShowError sets the error banner. An empty message clears it.
type ShowError struct {
	Message string
}

// SetTodos replaces the whole list, e.g. after the initial load.
type SetTodos struct {
	Items []model.Todo
}

func (SetFilter) Name() string      { return "setFilter" }
func (AddTempTodo) Name() string    { return "addTempTodo" }
func (RemoveTempTodo) Name() string { return "removeTempTodo" }
func (AddTodo) Name() string        { return "addTodo" }
func (UpdateTodo) Name() string     { return "updateTodo" }
func (DeleteTodo) Name() string     { return "deleteTodo" }
func (SelectTodo) Name() string     { return "selectTodo" }
func (StartUpdate) Name() string    { return "startUpdate" }
func (StopUpdate) Name() string     { return "stopUpdate" }
func (ShowError) Name() string      { return "showError" }
func (SetTodos) Name() string       { return "setTodos" }

func (SetFilter) sealed()      {}
func (AddTempTodo) sealed()    {}
func (RemoveTempTodo) sealed() {}
func (AddTodo) sealed()        {}
func (UpdateTodo) sealed()     {}
func (DeleteTodo) sealed()     {}
func (SelectTodo) sealed()     {}
func (StartUpdate) sealed()    {}
func (StopUpdate) sealed()     {}
func (ShowError) sealed()      {}
func (SetTodos) sealed()       {}
