package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type field struct {
	label       string
	placeholder string
	secret      bool
}

// fieldset is a column of labelled text inputs with one focused at a time.
// A focus of -1 means no input is focused.
type fieldset struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newFieldset(fields ...field) *fieldset {
	fs := &fieldset{focus: -1}
	for _, f := range fields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.Prompt = ""
		in.CharLimit = 128
		if f.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		fs.labels = append(fs.labels, f.label)
		fs.inputs = append(fs.inputs, in)
	}
	return fs
}

func (fs *fieldset) focusAt(i int) tea.Cmd {
	for j := range fs.inputs {
		fs.inputs[j].Blur()
	}
	if i < 0 || i >= len(fs.inputs) {
		fs.focus = -1
		return nil
	}
	fs.focus = i
	return fs.inputs[i].Focus()
}

func (fs *fieldset) update(msg tea.Msg) tea.Cmd {
	if fs.focus < 0 {
		return nil
	}
	var cmd tea.Cmd
	fs.inputs[fs.focus], cmd = fs.inputs[fs.focus].Update(msg)
	return cmd
}

func (fs *fieldset) value(i int) string {
	return fs.inputs[i].Value()
}

func (fs *fieldset) trimmed(i int) string {
	return strings.TrimSpace(fs.inputs[i].Value())
}

func (fs *fieldset) reset() {
	for i := range fs.inputs {
		fs.inputs[i].Reset()
	}
	fs.focusAt(0)
}

func (fs *fieldset) view(s Styles) string {
	rows := make([]string, 0, len(fs.inputs))
	for i, in := range fs.inputs {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, s.Label.Render(fs.labels[i]), in.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func cycle(pos, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((pos+delta)%n + n) % n
}
