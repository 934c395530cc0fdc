package model

// TempID is the id reserved for a todo that has been submitted but not yet
// confirmed by the server.
const TempID = 0

// Todo is a single task record as the remote API represents it.
type Todo struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// IsTemp reports whether t is the pending-creation placeholder.
func (t Todo) IsTemp() bool { return t.ID == TempID }

// WithCompleted returns a copy of t with the completion flag set to c.
func (t Todo) WithCompleted(c bool) Todo {
	t.Completed = c
	return t
}

// WithTitle returns a copy of t with the given title.
func (t Todo) WithTitle(title string) Todo {
	t.Title = title
	return t
}
