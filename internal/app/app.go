package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nhle/todoapp/internal/api"
	"github.com/nhle/todoapp/internal/keys"
	"github.com/nhle/todoapp/internal/logging"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/theme"
	"github.com/nhle/todoapp/internal/todos"
	"github.com/nhle/todoapp/internal/ui"
	"github.com/nhle/todoapp/internal/ui/command"
	"github.com/nhle/todoapp/internal/ui/footer"
	"github.com/nhle/todoapp/internal/ui/header"
	helpview "github.com/nhle/todoapp/internal/ui/help"
	"github.com/nhle/todoapp/internal/ui/setup"
	"github.com/nhle/todoapp/internal/ui/todolist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
	ViewCommand
	ViewSetup
)

// focus says which part of the list view receives keys.
type focus int

const (
	focusInput focus = iota
	focusList
)

// Options configures a root model.
type Options struct {
	Config     *model.AppConfig
	ConfigPath string
	Store      *store.Store

	// NewClient builds the API client for a base URL. It is called again
	// when the setup form changes the URL.
	NewClient func(baseURL string) api.TodoAPI

	Logger *log.Logger
}

// configSavedMsg reports the result of writing the config file.
type configSavedMsg struct{ err error }

// Model is the root Bubble Tea model that manages view routing, layout
// and the coordinator.
type Model struct {
	currentView  ViewState
	previousView ViewState
	focus        focus
	layout       ui.Layout
	keys         *keys.KeyMap

	cfg        *model.AppConfig
	configPath string
	newClient  func(baseURL string) api.TodoAPI
	logger     *log.Logger

	store  *store.Store
	coord  *todos.Coordinator
	errors *errorTimer

	header      header.Model
	todoList    todolist.Model
	helpView    helpview.Model
	commandView command.Model
	setupView   setup.Model

	ready bool
}

// New creates a new root application model.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &model.AppConfig{}
	}
	s := opts.Store
	if s == nil {
		s = store.New(store.NewState(nil, cfg.InitialFilter()))
	}

	m := Model{
		currentView: ViewList,
		keys:        k,
		cfg:         cfg,
		configPath:  opts.ConfigPath,
		newClient:   opts.NewClient,
		logger:      logger,
		store:       s,
		errors:      newErrorTimer(s, cfg.Display.ErrorTimeout),
		header:      header.New(k, 80),
		todoList:    todolist.New(k, 76, 18),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		setupView:   setup.New(cfg.API.BaseURL, cfg.User.ID, 80, 24),
	}

	if cfg.NeedsSetup() {
		m.currentView = ViewSetup
	} else {
		m.connect()
		m.header.Focus()
	}
	return m
}

// connect replaces the coordinator with one using the current config.
func (m *Model) connect() {
	m.coord = todos.New(m.store, m.newClient(m.cfg.API.BaseURL), m.cfg.User.ID, m.logger)
}

// Init returns the initial commands to load todos and start the loader.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewSetup {
		return tea.Batch(m.todoList.Init(), m.setupView.Init())
	}
	return tea.Batch(
		m.todoList.Init(),
		textinput.Blink,
		m.coord.Load(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	syncCmd := next.sync()
	return next, tea.Batch(cmd, syncCmd)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	if m.coord != nil && m.coord.Apply(msg) {
		return m.afterResult(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.currentView == ViewSetup {
			return m.updateActiveView(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.todoList, cmd = m.todoList.Update(msg)
		return m, cmd

	case errorExpiredMsg:
		m.errors.expire(msg)
		return m, nil

	case header.SubmitMsg:
		return m, m.coord.Create(msg.Title)

	case todolist.EditSubmittedMsg:
		// Rename the current item: other results may have landed while
		// the editor was open.
		current, ok := m.store.State().Find(msg.Todo.ID)
		if !ok {
			m.todoList.StopEdit()
			return m, nil
		}
		cmd := m.coord.Rename(current, msg.Title)
		if cmd == nil {
			m.todoList.StopEdit()
		}
		return m, cmd

	case command.CommandMsg:
		m.commandView.Close()
		m.currentView = m.previousView
		return m.executeCommand(msg.Command)

	case setup.DoneMsg:
		return m.finishSetup(msg)

	case setup.CancelMsg:
		if m.coord == nil {
			return m, tea.Quit
		}
		m.currentView = ViewList
		return m, nil

	case configSavedMsg:
		if msg.err != nil {
			m.logger.Error("save config", "path", m.configPath, "err", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

// afterResult adjusts the views once the coordinator applied a result.
func (m Model) afterResult(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todos.CreatedMsg:
		if msg.Err == nil {
			m.header.Reset()
		}
	case todos.UpdatedMsg:
		if msg.Kind == todos.UpdateRename && msg.Err == nil &&
			m.todoList.Editing() && m.todoList.EditingID() == msg.ID {
			m.todoList.StopEdit()
		}
	case todos.DeletedMsg:
		if msg.FromRename && msg.Err == nil &&
			m.todoList.Editing() && m.todoList.EditingID() == msg.ID {
			m.todoList.StopEdit()
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.currentView {
	case ViewSetup:
		return m.updateActiveView(msg)

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.commandView.Close()
			m.currentView = m.previousView
			return m, nil
		}
		return m.updateActiveView(msg)

	case ViewHelp:
		switch {
		case key.Matches(msg, m.keys.Help, m.keys.Back):
			m.currentView = m.previousView
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	if m.todoList.Editing() {
		var cmd tea.Cmd
		m.todoList, cmd = m.todoList.Update(msg)
		return m, cmd
	}

	if m.focus == focusInput {
		if key.Matches(msg, m.keys.Back) {
			m.focusTodoList()
			return m, nil
		}
		var cmd tea.Cmd
		m.header, cmd = m.header.Update(msg)
		return m, cmd
	}

	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	st := m.store.State()
	selected, hasSelected := m.todoList.SelectedTodo()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case key.Matches(msg, m.keys.Dismiss):
		if st.ErrorMessage != "" {
			m.store.Dispatch(store.ShowError{})
		}
		return m, nil

	case key.Matches(msg, m.keys.NewTodo):
		return m, m.focusNewTodo()

	case key.Matches(msg, m.keys.Toggle):
		if hasSelected {
			return m, m.coord.Toggle(selected)
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if hasSelected && !selected.IsTemp() {
			m.store.Dispatch(store.SelectTodo{ID: selected.ID})
			return m, m.todoList.StartEdit(selected)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if hasSelected {
			return m, m.coord.Delete(selected)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleAll):
		return m, m.coord.ToggleAll()

	case key.Matches(msg, m.keys.Clear):
		if footer.ClearEnabled(st) {
			return m, m.coord.ClearCompleted()
		}
		return m, nil

	case key.Matches(msg, m.keys.FilterAll):
		m.store.Dispatch(store.SetFilter{Filter: model.FilterAll})
		return m, nil

	case key.Matches(msg, m.keys.FilterActive):
		m.store.Dispatch(store.SetFilter{Filter: model.FilterActive})
		return m, nil

	case key.Matches(msg, m.keys.FilterCompleted):
		m.store.Dispatch(store.SetFilter{Filter: model.FilterCompleted})
		return m, nil

	case key.Matches(msg, m.keys.CycleFilter):
		m.store.Dispatch(store.SetFilter{Filter: st.Filter.Next()})
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.coord.Load()
	}

	var cmd tea.Cmd
	m.todoList, cmd = m.todoList.Update(msg)
	return m, cmd
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSetup:
		m.setupView, cmd = m.setupView.Update(msg)
	default:
		// Spinner ticks and cursor blinks keep flowing while other views
		// are on top.
		var listCmd, headerCmd tea.Cmd
		m.todoList, listCmd = m.todoList.Update(msg)
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			m.header, headerCmd = m.header.Update(msg)
		}
		cmd = tea.Batch(listCmd, headerCmd)
	}

	return m, cmd
}

// executeCommand runs a parsed palette command.
func (m Model) executeCommand(c command.Command) (Model, tea.Cmd) {
	switch c.Kind {
	case command.Reload:
		return m, m.coord.Load()
	case command.ToggleAll:
		return m, m.coord.ToggleAll()
	case command.ClearCompleted:
		return m, m.coord.ClearCompleted()
	case command.SetFilter:
		m.store.Dispatch(store.SetFilter{Filter: c.Filter})
		return m, nil
	case command.Setup:
		m.previousView = ViewList
		m.currentView = ViewSetup
		m.setupView = setup.New(m.cfg.API.BaseURL, m.cfg.User.ID, m.layout.ContentWidth(), m.layout.ContentHeight())
		return m, m.setupView.Init()
	case command.Help:
		m.currentView = ViewHelp
		return m, nil
	case command.Quit:
		return m, tea.Quit
	}
	return m, nil
}

// finishSetup stores the new connection settings and reloads.
func (m Model) finishSetup(msg setup.DoneMsg) (Model, tea.Cmd) {
	cfg := *m.cfg
	cfg.API.BaseURL = strings.TrimRight(msg.BaseURL, "/")
	cfg.User.ID = msg.UserID
	m.cfg = &cfg

	m.logger.Info("connection configured", "base_url", cfg.API.BaseURL, "user_id", cfg.User.ID)
	m.connect()
	m.store.Dispatch(store.SetTodos{})
	m.currentView = ViewList
	m.focus = focusInput

	path := m.configPath
	save := func() tea.Msg {
		if path == "" {
			return configSavedMsg{}
		}
		return configSavedMsg{err: model.SaveConfig(path, &cfg)}
	}
	return m, tea.Batch(save, m.header.Focus(), m.coord.Load())
}

func (m *Model) focusNewTodo() tea.Cmd {
	m.focus = focusInput
	return m.header.Focus()
}

func (m *Model) focusTodoList() {
	m.focus = focusList
	m.header.Blur()
}

// sync pushes the store state into the views and arms the error timer.
func (m *Model) sync() tea.Cmd {
	st := m.store.State()
	m.header.SetDisabled(st.IsUpdating())
	return tea.Batch(m.todoList.SetState(st), m.errors.schedule())
}

func (m *Model) resize(width, height int) {
	m.layout = ui.NewLayout(width, height)
	m.ready = true

	contentWidth := m.layout.ContentWidth()
	contentHeight := m.layout.ContentHeight()
	innerWidth := max(contentWidth-4, 0)

	m.header.SetSize(innerWidth)
	m.todoList.SetSize(innerWidth, max(contentHeight-panelChrome, 1))
	m.helpView.SetSize(contentWidth, contentHeight)
	m.commandView.SetSize(contentWidth, contentHeight)
	m.setupView.SetSize(contentWidth, contentHeight)
}

// panelChrome is the number of content rows the panel uses besides the
// list: border, header, footer and two rules.
const panelChrome = 6

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	st := m.store.State()
	title := "todos " + st.Filter.Fragment()
	top := m.layout.RenderHeader(title, m.syncStatus(st))

	var statusBar string
	if st.ErrorMessage != "" {
		statusBar = m.layout.RenderErrorBar(st.ErrorMessage)
	} else {
		statusBar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(top, m.renderContent(st), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent(st store.State) string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View(st)
	case ViewSetup:
		return m.setupView.View()
	case ViewCommand:
		return lipgloss.JoinVertical(lipgloss.Left, m.commandView.View(), m.renderPanel(st))
	default:
		return m.renderPanel(st)
	}
}

func (m Model) renderPanel(st store.State) string {
	innerWidth := max(m.layout.ContentWidth()-4, 0)
	rule := theme.DimmedStyle.Render(strings.Repeat("─", innerWidth))

	parts := []string{m.header.View(st), rule, m.todoList.View()}
	if len(st.Items) > 0 {
		parts = append(parts, rule, footer.View(st, innerWidth))
	}

	return theme.PanelStyle.
		Width(max(m.layout.ContentWidth()-2, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// syncStatus returns a short string describing the request state.
func (m Model) syncStatus(st store.State) string {
	status := "idle"
	if st.IsUpdating() {
		status = "syncing"
	}
	if m.cfg.User.ID > 0 {
		return fmt.Sprintf("user %d · %s", m.cfg.User.ID, status)
	}
	return status
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewSetup:
		return "enter next | esc cancel"
	}

	switch {
	case m.todoList.Editing():
		return "enter save | esc cancel | empty title deletes"
	case m.focus == focusInput:
		return "enter add | esc to list"
	default:
		return m.helpView.ShortView()
	}
}
