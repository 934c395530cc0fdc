package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todoapp/internal/api"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/todos"
	"github.com/nhle/todoapp/internal/ui/header"
	"github.com/nhle/todoapp/internal/ui/setup"
)

const userID = 962

type fakeAPI struct {
	mu      sync.Mutex
	nextID  int
	todos   []model.Todo
	creates int
	fail    bool
	baseURL string
}

func (f *fakeAPI) List(_ context.Context, uid int) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("down")
	}
	var out []model.Todo
	for _, t := range f.todos {
		if t.UserID == uid {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeAPI) Create(_ context.Context, req api.CreateRequest) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	f.nextID++
	t := model.Todo{ID: f.nextID, UserID: req.UserID, Title: req.Title}
	f.todos = append(f.todos, t)
	return t, nil
}

func (f *fakeAPI) Update(_ context.Context, id int, t model.Todo) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i] = t
		}
	}
	return t, nil
}

func (f *fakeAPI) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			break
		}
	}
	return nil
}

func testConfig() *model.AppConfig {
	return &model.AppConfig{
		API:  model.APIConfig{BaseURL: "http://todos.test"},
		User: model.UserConfig{ID: userID},
	}
}

func newTestModel(t *testing.T, cfg *model.AppConfig, fake *fakeAPI) Model {
	t.Helper()
	if fake.nextID == 0 {
		fake.nextID = 100
	}
	return New(Options{
		Config: cfg,
		NewClient: func(baseURL string) api.TodoAPI {
			fake.mu.Lock()
			fake.baseURL = baseURL
			fake.mu.Unlock()
			return fake
		},
	})
}

// exec runs cmd and any batch it returns. Commands that block (cursor
// blinks, spinner frames) are abandoned after a short wait.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, exec(c)...)
			}
			return out
		}
		if _, ok := msg.(spinner.TickMsg); ok || msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// drive feeds msg and everything it triggers through Update.
func drive(t *testing.T, m Model, msg tea.Msg) (Model, []tea.Msg) {
	t.Helper()
	var seen []tea.Msg
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "message loop did not settle")
		next := queue[0]
		queue = queue[1:]
		seen = append(seen, next)
		if _, ok := next.(tea.QuitMsg); ok {
			continue
		}

		updated, cmd := m.Update(next)
		m = updated.(Model)
		queue = append(queue, exec(cmd)...)
	}
	return m, seen
}

// step runs one Update and returns the messages its command produced
// without feeding them back, so a test can hold a result in flight.
func step(t *testing.T, m Model, msg tea.Msg) (Model, []tea.Msg) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), exec(cmd)
}

func hasSubmit(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(header.SubmitMsg); ok {
			return true
		}
	}
	return false
}

func start(t *testing.T, m Model) Model {
	t.Helper()
	for _, msg := range exec(m.Init()) {
		m, _ = drive(t, m, msg)
	}
	m, _ = drive(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func seed() *fakeAPI {
	return &fakeAPI{todos: []model.Todo{
		{ID: 1, UserID: userID, Title: "Buy milk"},
		{ID: 2, UserID: userID, Title: "Walk dog", Completed: true},
		{ID: 3, UserID: 7, Title: "Someone else's"},
	}}
}

func TestInitLoadsTodos(t *testing.T) {
	fake := seed()
	m := start(t, newTestModel(t, testConfig(), fake))

	st := m.store.State()
	require.Len(t, st.Items, 2)
	assert.False(t, st.IsUpdating())
	assert.Equal(t, "http://todos.test", fake.baseURL)

	view := m.View()
	assert.Contains(t, view, "todos #/")
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "1 items left")
}

func TestLoadFailureShowsError(t *testing.T) {
	fake := seed()
	fake.fail = true
	m := start(t, newTestModel(t, testConfig(), fake))

	st := m.store.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, todos.ErrLoad, st.ErrorMessage)
	assert.Contains(t, m.View(), todos.ErrLoad)
}

func TestTypeAndSubmitCreatesTodo(t *testing.T) {
	fake := seed()
	m := start(t, newTestModel(t, testConfig(), fake))

	m, _ = drive(t, m, keyRunes("Feed cat"))
	assert.Equal(t, "Feed cat", m.header.Value())

	m, _ = drive(t, m, keyEnter)

	st := m.store.State()
	require.Len(t, st.Items, 3)
	assert.Equal(t, "Feed cat", st.Items[2].Title)
	assert.Equal(t, 101, st.Items[2].ID)
	_, hasTemp := st.TempTodo()
	assert.False(t, hasTemp)
	assert.Empty(t, m.header.Value(), "field is cleared after a successful create")
	assert.Equal(t, 1, fake.creates)
}

func TestWhitespaceSubmitShowsErrorWithoutCall(t *testing.T) {
	fake := seed()
	m := start(t, newTestModel(t, testConfig(), fake))

	m, _ = drive(t, m, header.SubmitMsg{Title: "   "})

	st := m.store.State()
	assert.Equal(t, todos.ErrEmptyTitle, st.ErrorMessage)
	assert.False(t, st.IsUpdating())
	assert.Len(t, st.Items, 2)
	assert.Zero(t, fake.creates)
}

func TestEscDismissesError(t *testing.T) {
	m := start(t, newTestModel(t, testConfig(), seed()))
	m, _ = drive(t, m, header.SubmitMsg{Title: ""})
	require.NotEmpty(t, m.store.State().ErrorMessage)

	m, _ = drive(t, m, keyEsc) // leave the input
	assert.Equal(t, focusList, m.focus)
	require.NotEmpty(t, m.store.State().ErrorMessage)

	m, _ = drive(t, m, keyEsc)
	assert.Empty(t, m.store.State().ErrorMessage)
}

func TestFilterKeysChangeFilterOnly(t *testing.T) {
	m := start(t, newTestModel(t, testConfig(), seed()))
	m, _ = drive(t, m, keyEsc)

	before := m.store.State().Items

	m, _ = drive(t, m, keyRunes("2"))
	assert.Equal(t, model.FilterActive, m.store.State().Filter)
	assert.Equal(t, before, m.store.State().Items)
	assert.Equal(t, 1, m.todoList.Len())
	assert.Contains(t, m.View(), "todos #/active")

	m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.FilterCompleted, m.store.State().Filter)

	m, _ = drive(t, m, keyRunes("1"))
	assert.Equal(t, model.FilterAll, m.store.State().Filter)
	assert.Equal(t, 2, m.todoList.Len())
}

func TestSpaceTogglesSelectedTodo(t *testing.T) {
	fake := seed()
	m := start(t, newTestModel(t, testConfig(), fake))
	m, _ = drive(t, m, keyEsc)

	m, _ = drive(t, m, keySpace)

	st := m.store.State()
	got, ok := st.Find(1)
	require.True(t, ok)
	assert.True(t, got.Completed)
	assert.False(t, st.IsUpdating())
	assert.True(t, st.IsSelected(1))
}

func TestInlineRename(t *testing.T) {
	m := start(t, newTestModel(t, testConfig(), seed()))
	m, _ = drive(t, m, keyEsc)

	m, _ = drive(t, m, keyRunes("e"))
	require.True(t, m.todoList.Editing())
	assert.Equal(t, 1, m.todoList.EditingID())

	m, _ = drive(t, m, keyRunes(" now"))
	m, _ = drive(t, m, keyEnter)

	got, _ := m.store.State().Find(1)
	assert.Equal(t, "Buy milk now", got.Title)
	assert.False(t, m.todoList.Editing())
}

func TestInlineRenameUnchangedClosesEditor(t *testing.T) {
	m := start(t, newTestModel(t, testConfig(), seed()))
	m, _ = drive(t, m, keyEsc)

	m, _ = drive(t, m, keyRunes("e"))
	m, _ = drive(t, m, keyEnter)

	assert.False(t, m.todoList.Editing())
	assert.False(t, m.store.State().IsUpdating())
}

func TestClearCompletedKey(t *testing.T) {
	m := start(t, newTestModel(t, testConfig(), seed()))
	m, _ = drive(t, m, keyEsc)

	m, _ = drive(t, m, keyRunes("C"))

	st := m.store.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, 1, st.Items[0].ID)
}

func TestCommandPaletteFilter(t *testing.T) {
	m := start(t, newTestModel(t, testConfig(), seed()))
	m, _ = drive(t, m, keyEsc)

	m, _ = drive(t, m, keyRunes(":"))
	require.Equal(t, ViewCommand, m.currentView)

	m, _ = drive(t, m, keyRunes("filter completed"))
	m, _ = drive(t, m, keyEnter)

	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, model.FilterCompleted, m.store.State().Filter)
}

func TestCommandPaletteKeepsUnknownInput(t *testing.T) {
	m := start(t, newTestModel(t, testConfig(), seed()))
	m, _ = drive(t, m, keyEsc)

	m, _ = drive(t, m, keyRunes(":"))
	m, _ = drive(t, m, keyRunes("filter someday"))
	m, _ = drive(t, m, keyEnter)

	assert.Equal(t, ViewCommand, m.currentView)
	assert.Equal(t, model.FilterAll, m.store.State().Filter)
	assert.Contains(t, m.View(), `unknown filter "someday"`)
}

func TestHelpToggle(t *testing.T) {
	m := start(t, newTestModel(t, testConfig(), seed()))
	m, _ = drive(t, m, keyEsc)

	m, _ = drive(t, m, keyRunes("?"))
	assert.Equal(t, ViewHelp, m.currentView)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = drive(t, m, keyRunes("?"))
	assert.Equal(t, ViewList, m.currentView)
}

func TestQuitKey(t *testing.T) {
	m := start(t, newTestModel(t, testConfig(), seed()))
	m, _ = drive(t, m, keyEsc)

	_, seen := drive(t, m, keyRunes("q"))
	assert.Contains(t, seen, tea.Msg(tea.QuitMsg{}))
}

func TestSetupWhenUnconfigured(t *testing.T) {
	fake := seed()
	cfg := testConfig()
	cfg.User.ID = 0

	path := filepath.Join(t.TempDir(), "config.yaml")
	m := New(Options{
		Config:     cfg,
		ConfigPath: path,
		NewClient:  func(baseURL string) api.TodoAPI { fake.baseURL = baseURL; return fake },
	})
	require.Equal(t, ViewSetup, m.currentView)
	assert.Nil(t, m.coord)

	m, _ = drive(t, m, setup.DoneMsg{BaseURL: "http://other.test/", UserID: userID})

	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, "http://other.test", fake.baseURL)
	assert.Len(t, m.store.State().Items, 2)

	saved, err := model.LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, userID, saved.User.ID)
	assert.Equal(t, "http://other.test", saved.API.BaseURL)
}

func TestSetupCancelQuitsWhenUnconfigured(t *testing.T) {
	cfg := testConfig()
	cfg.User.ID = 0
	m := newTestModel(t, cfg, seed())

	_, seen := drive(t, m, setup.CancelMsg{})
	assert.Contains(t, seen, tea.Msg(tea.QuitMsg{}))
}

func TestErrorTimerHidesLatestError(t *testing.T) {
	s := store.New(store.NewState(nil, model.FilterAll))
	timer := newErrorTimer(s, time.Millisecond)

	assert.Nil(t, timer.schedule(), "nothing to hide yet")

	s.Dispatch(store.ShowError{Message: "first"})
	first := timer.schedule()
	require.NotNil(t, first)
	assert.Nil(t, timer.schedule(), "one tick per error")

	s.Dispatch(store.ShowError{Message: "second"})
	second := timer.schedule()
	require.NotNil(t, second)

	timer.expire(first().(errorExpiredMsg))
	assert.Equal(t, "second", s.State().ErrorMessage, "a stale tick leaves a newer error")

	timer.expire(second().(errorExpiredMsg))
	assert.Empty(t, s.State().ErrorMessage)
}

func TestErrorTimerDisabled(t *testing.T) {
	s := store.New(store.NewState(nil, model.FilterAll))
	timer := newErrorTimer(s, 0)

	s.Dispatch(store.ShowError{Message: "sticky"})
	assert.Nil(t, timer.schedule())
}

func TestRenameKeepsCompletionConfirmedWhileEditing(t *testing.T) {
	m := start(t, newTestModel(t, testConfig(), seed()))
	m, _ = drive(t, m, keyEsc)

	m, held := step(t, m, keySpace)
	require.True(t, m.store.State().IsUpdating())

	m, _ = drive(t, m, keyRunes("e"))
	require.True(t, m.todoList.Editing())

	for _, msg := range held {
		m, _ = drive(t, m, msg)
	}
	toggled, _ := m.store.State().Find(1)
	require.True(t, toggled.Completed)
	require.True(t, m.todoList.Editing())

	m, _ = drive(t, m, keyRunes("!"))
	m, _ = drive(t, m, keyEnter)

	got, ok := m.store.State().Find(1)
	require.True(t, ok)
	assert.Equal(t, "Buy milk!", got.Title)
	assert.True(t, got.Completed, "the rename carries the completion the server confirmed")
	assert.False(t, m.todoList.Editing())
}

func TestFieldIgnoresInputWhileUpdating(t *testing.T) {
	fake := seed()
	m := start(t, newTestModel(t, testConfig(), fake))

	m, _ = drive(t, m, keyRunes("Feed cat"))
	m, out := step(t, m, keyEnter)
	require.True(t, hasSubmit(out))

	var submit tea.Msg
	for _, msg := range out {
		if _, ok := msg.(header.SubmitMsg); ok {
			submit = msg
		}
	}
	m, held := step(t, m, submit)
	require.True(t, m.store.State().IsUpdating())

	m, _ = step(t, m, keyRunes("x"))
	assert.Equal(t, "Feed cat", m.header.Value(), "typing is ignored while a request is in flight")

	m, out = step(t, m, keyEnter)
	assert.False(t, hasSubmit(out), "enter does not submit while a request is in flight")

	for _, msg := range held {
		m, _ = drive(t, m, msg)
	}
	require.False(t, m.store.State().IsUpdating())
	assert.Equal(t, 1, fake.creates)

	m, _ = drive(t, m, keyRunes("y"))
	assert.Equal(t, "y", m.header.Value(), "input works again once the request stopped")
}
