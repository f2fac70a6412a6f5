package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// modal is a controller modal that can take keyboard focus.
type modal interface {
	Open()
	Close()
	Visible() bool
	HandleKey(msg tea.KeyMsg) tea.Cmd
	View() string
}

// FormModal frames one form. Enter submits, esc closes.
type FormModal struct {
	env     *env
	title   string
	form    form
	keys    formKeys
	visible bool
}

func newFormModal(e *env, title string, f form) *FormModal {
	return &FormModal{env: e, title: title, form: f, keys: newFormKeys()}
}

func (m *FormModal) Open() {
	m.visible = true
	m.form.Focus()
}

func (m *FormModal) Close() {
	m.visible = false
}

func (m *FormModal) Visible() bool {
	return m.visible
}

func (m *FormModal) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.Close()
		return nil
	case key.Matches(msg, m.keys.Submit):
		m.form.Submit()
		return nil
	default:
		return m.form.HandleKey(msg)
	}
}

func (m *FormModal) View() string {
	s := m.env.styles
	return s.Modal.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		s.Ledger.Title.Render(m.title),
		"",
		m.form.View(),
		"",
		s.Hint.Render("enter submit · tab next field · esc cancel"),
	))
}

// ConfirmModal asks a yes/no question before a destructive action.
type ConfirmModal struct {
	env       *env
	keys      confirmKeys
	message   string
	onConfirm func()
	visible   bool
}

func newConfirmModal(e *env) *ConfirmModal {
	return &ConfirmModal{env: e, keys: newConfirmKeys()}
}

// Ask opens the modal; onConfirm runs only if the user answers yes.
func (m *ConfirmModal) Ask(message string, onConfirm func()) {
	m.env.ctrl.OpenModal(ModalConfirm)
	m.message = message
	m.onConfirm = onConfirm
}

func (m *ConfirmModal) Open() {
	m.visible = true
}

func (m *ConfirmModal) Close() {
	m.visible = false
	m.onConfirm = nil
}

func (m *ConfirmModal) Visible() bool {
	return m.visible
}

func (m *ConfirmModal) Message() string {
	return m.message
}

func (m *ConfirmModal) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Yes):
		fn := m.onConfirm
		m.Close()
		if fn != nil {
			fn()
		}
	case key.Matches(msg, m.keys.No):
		m.Close()
	}
	return nil
}

func (m *ConfirmModal) View() string {
	s := m.env.styles
	return s.Modal.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		s.Ledger.Warning.Render(m.message),
		"",
		s.Hint.Render("y confirm · n cancel"),
	))
}
