package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Todo actions
	Toggle    key.Binding
	Edit      key.Binding
	Delete    key.Binding
	ToggleAll key.Binding
	Clear     key.Binding

	// Filters
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	CycleFilter     key.Binding

	// New todo field
	NewTodo key.Binding
	Submit  key.Binding
	Back    key.Binding

	// Misc
	Reload  key.Binding
	Dismiss key.Binding
	Command key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "toggle"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter/e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle all"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear completed"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		FilterActive: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "active"),
		),
		FilterCompleted: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "completed"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next filter"),
		),
		NewTodo: key.NewBinding(
			key.WithKeys("i", "n"),
			key.WithHelp("i/n", "new todo"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss error"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Toggle, k.Edit, k.Delete,
		k.NewTodo, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Edit, k.Delete},
		{k.ToggleAll, k.Clear, k.NewTodo, k.Submit, k.Back},
		{k.FilterAll, k.FilterActive, k.FilterCompleted, k.CycleFilter},
		{k.Reload, k.Dismiss, k.Command, k.Help, k.Quit},
	}
}
