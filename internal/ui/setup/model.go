// Package setup is the first-run form that asks for the API location and
// the owner id.
package setup

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoapp/internal/theme"
)

// DoneMsg is sent when the user completes the form.
type DoneMsg struct {
	BaseURL string
	UserID  int
}

// CancelMsg is sent when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	baseURL string
	userID  string
}

// Model is the Bubble Tea model for the setup form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a setup form prefilled with the given values.
func New(baseURL string, userID int, width, height int) Model {
	fb := &formBindings{baseURL: baseURL}
	if userID > 0 {
		fb.userID = strconv.Itoa(userID)
	}
	m := Model{fb: fb, width: width, height: height}
	m.form = m.buildForm()
	return m
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		done := DoneMsg{BaseURL: strings.TrimSpace(m.fb.baseURL)}
		done.UserID, _ = strconv.Atoi(strings.TrimSpace(m.fb.userID))
		return m, func() tea.Msg { return done }
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Connect to your todo list")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(title + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form = m.form.WithWidth(m.formWidth())
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API base URL").
				Placeholder("https://mate.academy/students-api").
				Value(&m.fb.baseURL).
				Validate(ValidateBaseURL),
			huh.NewInput().
				Title("User ID").
				Description("Todos are listed and created for this owner.").
				Placeholder("962").
				Value(&m.fb.userID).
				Validate(ValidateUserID),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// ValidateBaseURL accepts absolute http(s) URLs.
func ValidateBaseURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("enter an http(s) URL")
	}
	return nil
}

// ValidateUserID accepts positive integers.
func ValidateUserID(s string) error {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return fmt.Errorf("user ID must be a positive number")
	}
	return nil
}
