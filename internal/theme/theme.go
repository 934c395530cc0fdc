package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorRose   = lipgloss.AdaptiveColor{Dark: "#E0485E", Light: "#AF2F2F"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRose).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorBarStyle replaces the status bar while an error is shown.
var ErrorBarStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFFFFF")).
	Background(ColorRed).
	Padding(0, 1)

// PanelStyle wraps the main todo panel.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for todos in the list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the todo under the cursor.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// CompletedStyle is applied to the title of completed todos.
var CompletedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// CheckStyle colors the completion marker of completed todos.
var CheckStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// ToggleAllStyle renders the toggle-all chevron; ToggleAllActiveStyle
// when every todo is completed.
var (
	ToggleAllStyle       = lipgloss.NewStyle().Foreground(ColorSubtle).Bold(true)
	ToggleAllActiveStyle = lipgloss.NewStyle().Foreground(ColorWhite).Bold(true)
)

// FilterLinkStyle and SelectedFilterStyle render the footer filters.
var (
	FilterLinkStyle     = lipgloss.NewStyle().Foreground(ColorGray).Padding(0, 1)
	SelectedFilterStyle = lipgloss.NewStyle().
				Foreground(ColorRose).
				Bold(true).
				Underline(true).
				Padding(0, 1)
)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle is used for disabled controls.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)
