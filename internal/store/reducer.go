package store

import (
	"fmt"

	"github.com/nhle/todoapp/internal/model"
)

// Reduce returns the state that results from applying a to s. It is pure:
// s is left untouched. An action outside the closed set is a programming
// error and panics.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetFilter:
		s.Filter = a.Filter

	case AddTempTodo:
		temp := a.Todo
		temp.ID = model.TempID
		s.Items = append(without(s.Items, model.TempID), temp)

	case RemoveTempTodo:
		s.Items = without(s.Items, model.TempID)

	case AddTodo:
		if _, exists := s.Find(a.Todo.ID); exists {
			s.Items = replaced(s.Items, a.Todo)
		} else {
			s.Items = append(clone(s.Items), a.Todo)
		}

	case UpdateTodo:
		s.Items = replaced(s.Items, a.Todo)

	case DeleteTodo:
		s.Items = without(s.Items, a.ID)
		if s.IsSelected(a.ID) {
			s.SelectedID = nil
		}

	case SelectTodo:
		id := a.ID
		s.SelectedID = &id

	case StartUpdate:
		s.inFlight++

	case StopUpdate:
		if s.inFlight > 0 {
			s.inFlight--
		}

	case ShowError:
		s.ErrorMessage = a.Message

	case SetTodos:
		s.Items = clone(a.Items)
		if s.SelectedID != nil {
			if _, ok := s.Find(*s.SelectedID); !ok {
				s.SelectedID = nil
			}
		}

	default:
		panic(fmt.Sprintf("store: unhandled action %T", a))
	}

	return s
}

func clone(items []model.Todo) []model.Todo {
	out := make([]model.Todo, len(items), len(items)+1)
	copy(out, items)
	return out
}

// without returns a copy of items minus every entry with the given id.
func without(items []model.Todo, id int) []model.Todo {
	out := make([]model.Todo, 0, len(items)+1)
	for _, t := range items {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// replaced returns a copy of items with the entry matching todo.ID swapped
// for todo. Absent ids leave the list unchanged.
func replaced(items []model.Todo, todo model.Todo) []model.Todo {
	out := clone(items)
	for i := range out {
		if out[i].ID == todo.ID {
			out[i] = todo
		}
	}
	return out
}
