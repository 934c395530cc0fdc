// Package todos implements the optimistic update protocol between the
// store and the remote API.
//
// Every operation runs on the UI goroutine: it dispatches its pre-actions
// immediately and returns a tea.Cmd that performs the network call. The
// command never touches the store; its result comes back as a message that
// must be handed to Apply, again on the UI goroutine.
package todos

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/todoapp/internal/api"
	"github.com/nhle/todoapp/internal/logging"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
)

// Coordinator issues API calls on behalf of views and reconciles their
// results into the store.
type Coordinator struct {
	store  *store.Store
	api    api.TodoAPI
	userID int
	logger *log.Logger
}

// New creates a coordinator for the todos owned by userID. A nil logger
// discards output.
func New(s *store.Store, client api.TodoAPI, userID int, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Coordinator{
		store:  s,
		api:    client,
		userID: userID,
		logger: logger,
	}
}

// Load fetches every todo for the current owner.
func (c *Coordinator) Load() tea.Cmd {
	c.store.Dispatch(store.StartUpdate{})

	client, userID := c.api, c.userID
	return func() tea.Msg {
		todos, err := client.List(context.Background(), userID)
		return LoadedMsg{Todos: todos, Err: err}
	}
}

// Create validates title and, if it is not blank, shows a placeholder and
// posts the new todo. A blank title reports an error without any network
// call and returns nil.
func (c *Coordinator) Create(title string) tea.Cmd {
	c.store.Dispatch(store.StartUpdate{})

	title = strings.TrimSpace(title)
	if title == "" {
		c.store.Dispatch(store.ShowError{Message: ErrEmptyTitle})
		c.store.Dispatch(store.StopUpdate{})
		return nil
	}

	req := api.CreateRequest{UserID: c.userID, Title: title}
	c.store.Dispatch(store.AddTempTodo{Todo: model.Todo{
		ID:     model.TempID,
		UserID: req.UserID,
		Title:  req.Title,
	}})

	client := c.api
	return func() tea.Msg {
		created, err := client.Create(context.Background(), req)
		return CreatedMsg{Todo: created, Err: err}
	}
}

// Toggle flips the completion flag of t.
func (c *Coordinator) Toggle(t model.Todo) tea.Cmd {
	if t.IsTemp() {
		return nil
	}
	c.store.Dispatch(store.StartUpdate{})
	c.store.Dispatch(store.SelectTodo{ID: t.ID})

	return c.update(t.WithCompleted(!t.Completed), UpdateToggle)
}

// Rename sets the title of t. A title equal to the current one needs no
// call and returns nil; a blank title deletes the todo instead.
func (c *Coordinator) Rename(t model.Todo, title string) tea.Cmd {
	if t.IsTemp() {
		return nil
	}
	title = strings.TrimSpace(title)
	if title == t.Title {
		return nil
	}
	if title == "" {
		return c.delete(t, true)
	}

	c.store.Dispatch(store.StartUpdate{})
	c.store.Dispatch(store.SelectTodo{ID: t.ID})

	return c.update(t.WithTitle(title), UpdateRename)
}

// Delete removes t.
func (c *Coordinator) Delete(t model.Todo) tea.Cmd {
	if t.IsTemp() {
		return nil
	}
	return c.delete(t, false)
}

// ToggleAll completes every todo unless all are already completed, in which
// case it reopens every todo. Only todos whose flag actually changes are
// sent; each one is an independent concurrent call.
func (c *Coordinator) ToggleAll() tea.Cmd {
	st := c.store.State()
	target := !st.AllCompleted()

	var cmds []tea.Cmd
	for _, t := range st.Items {
		if t.IsTemp() || t.Completed == target {
			continue
		}
		c.store.Dispatch(store.StartUpdate{})
		cmds = append(cmds, c.update(t.WithCompleted(target), UpdateToggleAll))
	}

	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// ClearCompleted deletes every completed todo concurrently and reports
// once, after all calls have settled.
func (c *Coordinator) ClearCompleted() tea.Cmd {
	var ids []int
	for _, t := range c.store.State().Items {
		if t.Completed && !t.IsTemp() {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	client := c.api
	return func() tea.Msg {
		failed := make([]bool, len(ids))

		// A plain Group never cancels siblings, so every delete settles.
		var g errgroup.Group
		for i, id := range ids {
			g.Go(func() error {
				if err := client.Delete(context.Background(), id); err != nil {
					failed[i] = true
					return fmt.Errorf("delete todo %d: %w", id, err)
				}
				return nil
			})
		}

		msg := ClearedMsg{Err: g.Wait()}
		for i, id := range ids {
			if failed[i] {
				msg.Failed++
				continue
			}
			msg.Deleted = append(msg.Deleted, id)
		}
		return msg
	}
}

func (c *Coordinator) update(t model.Todo, kind UpdateKind) tea.Cmd {
	client := c.api
	return func() tea.Msg {
		updated, err := client.Update(context.Background(), t.ID, t)
		return UpdatedMsg{ID: t.ID, Kind: kind, Todo: updated, Err: err}
	}
}

func (c *Coordinator) delete(t model.Todo, fromRename bool) tea.Cmd {
	c.store.Dispatch(store.StartUpdate{})
	c.store.Dispatch(store.SelectTodo{ID: t.ID})

	client, id := c.api, t.ID
	return func() tea.Msg {
		err := client.Delete(context.Background(), id)
		return DeletedMsg{ID: id, Err: err, FromRename: fromRename}
	}
}

// Apply dispatches the post-actions for a completion message. It reports
// whether msg was one of this package's messages.
func (c *Coordinator) Apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			c.logger.Error("load todos", "user_id", c.userID, "err", msg.Err)
			c.store.Dispatch(store.ShowError{Message: ErrLoad})
		} else {
			c.logger.Info("loaded todos", "count", len(msg.Todos))
			c.store.Dispatch(store.SetTodos{Items: msg.Todos})
		}
		c.store.Dispatch(store.StopUpdate{})

	case CreatedMsg:
		if msg.Err != nil {
			c.logger.Error("create todo", "err", msg.Err)
			c.store.Dispatch(store.ShowError{Message: ErrAdd})
		} else {
			c.store.Dispatch(store.AddTodo{Todo: msg.Todo})
		}
		c.store.Dispatch(store.RemoveTempTodo{})
		c.store.Dispatch(store.StopUpdate{})

	case UpdatedMsg:
		if msg.Err != nil {
			c.logger.Error("update todo", "id", msg.ID, "err", msg.Err)
			c.store.Dispatch(store.ShowError{Message: ErrUpdate})
		} else {
			if msg.Kind == UpdateToggleAll {
				c.store.Dispatch(store.SelectTodo{ID: msg.Todo.ID})
			}
			c.store.Dispatch(store.UpdateTodo{Todo: msg.Todo})
		}
		c.store.Dispatch(store.StopUpdate{})

	case DeletedMsg:
		if msg.Err != nil {
			c.logger.Error("delete todo", "id", msg.ID, "err", msg.Err)
			c.store.Dispatch(store.ShowError{Message: ErrDelete})
		} else {
			c.store.Dispatch(store.DeleteTodo{ID: msg.ID})
		}
		c.store.Dispatch(store.StopUpdate{})

	case ClearedMsg:
		if msg.Err != nil {
			c.logger.Error("clear completed", "failed", msg.Failed, "deleted", len(msg.Deleted), "err", msg.Err)
			c.store.Dispatch(store.ShowError{Message: ErrDelete})
		}
		for _, id := range msg.Deleted {
			c.store.Dispatch(store.DeleteTodo{ID: id})
		}

	default:
		return false
	}

	return true
}
