// Package help renders the help overlay and the status bar key hints.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoapp/internal/keys"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys  *keys.KeyMap
	help  help.Model
	width int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, _ int) Model {
	h := help.New()
	h.Width = width
	return Model{keys: k, help: h, width: width}
}

var sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginTop(1)

// View renders the key map followed by what the list currently shows.
func (m Model) View(st store.State) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Keyboard Shortcuts")

	m.help.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.help.View(m.keys),
		sectionStyle.Render("Filters"),
		filterLegend(st),
		sectionStyle.Render("Markers"),
		markerLegend(),
	)

	return theme.PanelStyle.Width(max(m.width-4, 0)).Render(content)
}

// filterLegend lists each filter with its fragment and match count,
// marking the one in effect.
func filterLegend(st store.State) string {
	counts := map[model.Filter]int{
		model.FilterAll:       len(st.Items),
		model.FilterActive:    st.ActiveCount(),
		model.FilterCompleted: st.CompletedCount(),
	}

	lines := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		line := fmt.Sprintf("  %-10s %-13s %d", f.Label(), f.Fragment(), counts[f])
		if f == st.Filter {
			line = theme.SelectedFilterStyle.Render(line + "  (shown)")
		} else {
			line = theme.HelpStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func markerLegend() string {
	rows := []string{
		"  ○  active todo",
		"  " + theme.CheckStyle.Render("✓") + "  completed todo",
		"  " + theme.HelpStyle.Render("dim title") + "  not saved yet",
		"  ❯  toggle all, lit when every todo is done",
	}
	return strings.Join(rows, "\n")
}

// ShortView renders the one-line key hints for the status bar.
func (m Model) ShortView() string {
	m.help.ShowAll = false
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, _ int) {
	m.width = width
	m.help.Width = width - 4
}
