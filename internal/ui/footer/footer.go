// Package footer renders the remaining count, the filter links and the
// clear-completed control.
package footer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/theme"
)

// ItemsLeft returns the counter text, e.g. "3 items left".
func ItemsLeft(st store.State) string {
	return fmt.Sprintf("%d items left", st.ActiveCount())
}

// ClearEnabled reports whether clear completed can do anything.
func ClearEnabled(st store.State) bool {
	return len(st.Items) > 0 && st.HasCompleted()
}

// View renders the footer line at the given width.
func View(st store.State, width int) string {
	count := theme.HelpStyle.Render(ItemsLeft(st))

	links := make([]string, 0, len(model.Filters))
	for i, f := range model.Filters {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == st.Filter {
			links = append(links, theme.SelectedFilterStyle.Render(label))
		} else {
			links = append(links, theme.FilterLinkStyle.Render(label))
		}
	}
	nav := lipgloss.JoinHorizontal(lipgloss.Top, links...)

	clearStyle := theme.HelpStyle
	if !ClearEnabled(st) {
		clearStyle = theme.DimmedStyle
	}
	clearCtl := clearStyle.Render("C Clear completed")

	gap := width - lipgloss.Width(count) - lipgloss.Width(nav) - lipgloss.Width(clearCtl)
	if gap < 2 {
		gap = 2
	}
	left := gap / 2
	right := gap - left

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		count,
		lipgloss.NewStyle().Width(left).Render(""),
		nav,
		lipgloss.NewStyle().Width(right).Render(""),
		clearCtl,
	)
}
