package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoapp/internal/store"
)

// errorExpiredMsg fires when the error with the given sequence number has
// been visible for the configured timeout.
type errorExpiredMsg struct {
	seq int
}

// errorTimer hides the error banner after a timeout. Each new error restarts
// the countdown; an expiry for an older error is ignored.
type errorTimer struct {
	store   *store.Store
	timeout time.Duration
	seq     int
	armed   bool
}

// newErrorTimer subscribes to s. A timeout of zero or less keeps errors
// until dismissed.
func newErrorTimer(s *store.Store, timeout time.Duration) *errorTimer {
	t := &errorTimer{store: s, timeout: timeout}
	s.Subscribe(func(a store.Action, _ store.State) {
		if e, ok := a.(store.ShowError); ok && e.Message != "" {
			t.seq++
			t.armed = true
		}
	})
	return t
}

// schedule returns the tick for the latest error, once per error.
func (t *errorTimer) schedule() tea.Cmd {
	if !t.armed || t.timeout <= 0 {
		return nil
	}
	t.armed = false

	seq := t.seq
	return tea.Tick(t.timeout, func(time.Time) tea.Msg {
		return errorExpiredMsg{seq: seq}
	})
}

func (t *errorTimer) expire(msg errorExpiredMsg) {
	if msg.seq != t.seq || t.store.State().ErrorMessage == "" {
		return
	}
	t.store.Dispatch(store.ShowError{})
}
