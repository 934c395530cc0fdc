package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoapp/internal/theme"
)

// Layout manages the terminal frame: a one-line header, the content
// area, and a one-line status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the title on the left and status on the right.
func (l Layout) RenderHeader(title string, status string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Align(lipgloss.Right).Render(status)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		left,
		l.filler(theme.HeaderStyle, l.Width-lipgloss.Width(left)-lipgloss.Width(right)),
		right,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.bar(theme.StatusBarStyle, hints)
}

// RenderErrorBar renders an error message in place of the status bar.
func (l Layout) RenderErrorBar(message string) string {
	return l.bar(theme.ErrorBarStyle, "✕ "+message)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	content = lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (l Layout) bar(style lipgloss.Style, text string) string {
	rendered := style.Render(text)
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		rendered,
		l.filler(style, l.Width-lipgloss.Width(rendered)),
	)
}

// filler pads a bar to the full width in the bar's background color.
func (l Layout) filler(style lipgloss.Style, gap int) string {
	if gap <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")
}
