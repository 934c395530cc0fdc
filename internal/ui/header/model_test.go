package header

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todoapp/internal/keys"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
)

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func newField(t *testing.T) Model {
	t.Helper()
	m := New(keys.DefaultKeyMap(), 60)
	m.Focus()
	return m
}

func TestSubmitEmitsTitle(t *testing.T) {
	m := newField(t)
	m, _ = m.Update(typed("Buy milk"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SubmitMsg{Title: "Buy milk"}, cmd())
}

func TestDisabledDropsKeys(t *testing.T) {
	m := newField(t)
	m, _ = m.Update(typed("Buy"))
	m.SetDisabled(true)

	m, cmd := m.Update(typed(" milk"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Buy", m.Value())

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "enter does not submit while disabled")

	m.SetDisabled(false)
	m, _ = m.Update(typed(" milk"))
	assert.Equal(t, "Buy milk", m.Value())
}

func TestViewShowsToggleOnlyWithItems(t *testing.T) {
	m := newField(t)

	assert.NotContains(t, m.View(store.NewState(nil, model.FilterAll)), "❯")
	assert.Contains(t, m.View(store.NewState([]model.Todo{{ID: 1, Title: "A"}}, model.FilterAll)), "❯")
}
