// Package api is the transport to the remote todo collection.
package api

import (
	"context"
	"fmt"

	"github.com/nhle/todoapp/internal/model"
)

// CreateRequest is the payload for creating a todo. The server assigns
// the id.
type CreateRequest struct {
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TodoAPI defines the four operations available against the remote
// collection. Every call is independent; nothing is retried.
type TodoAPI interface {
	// List returns all todos owned by userID.
	List(ctx context.Context, userID int) ([]model.Todo, error)

	// Create stores a new todo and returns the server's copy.
	Create(ctx context.Context, req CreateRequest) (model.Todo, error)

	// Update replaces the todo with the given id and returns the
	// server's copy.
	Update(ctx context.Context, id int, todo model.Todo) (model.Todo, error)

	// Delete removes the todo with the given id.
	Delete(ctx context.Context, id int) error
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(
		"unexpected status %d on %s %s: %s",
		e.StatusCode, e.Method, e.Path, e.Body,
	)
}
