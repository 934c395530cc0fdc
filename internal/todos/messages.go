package todos

import "github.com/nhle/todoapp/internal/model"

// Error texts shown to the user. Every failure collapses into one of these.
const (
	ErrEmptyTitle = "Title should not be empty"
	ErrLoad       = "Unable to load todos"
	ErrAdd        = "Unable to add a todo"
	ErrUpdate     = "Unable to update a todo"
	ErrDelete     = "Unable to delete a todo"
)

// UpdateKind says which gesture produced an update call.
type UpdateKind int

const (
	UpdateToggle UpdateKind = iota
	UpdateRename
	UpdateToggleAll
)

// LoadedMsg is sent when the initial list request completes.
type LoadedMsg struct {
	Todos []model.Todo
	Err   error
}

// CreatedMsg is sent when a create call completes.
type CreatedMsg struct {
	Todo model.Todo
	Err  error
}

// UpdatedMsg is sent when an update call for one todo completes.
type UpdatedMsg struct {
	ID   int
	Kind UpdateKind
	Todo model.Todo
	Err  error
}

// DeletedMsg is sent when a delete call for one todo completes.
type DeletedMsg struct {
	ID  int
	Err error

	// FromRename marks the implicit delete of an edit to a blank title.
	FromRename bool
}

// ClearedMsg is sent once every delete issued by ClearCompleted settled.
// Err is the first failure, nil when all deletes succeeded.
type ClearedMsg struct {
	Deleted []int
	Failed  int
	Err     error
}
