package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up                key.Binding
	Down              key.Binding
	Focus             key.Binding
	Select            key.Binding
	Login             key.Binding
	Register          key.Binding
	Logout            key.Binding
	NewAccount        key.Binding
	Income            key.Binding
	Expense           key.Binding
	RemoveAccount     key.Binding
	RemoveTransaction key.Binding
	Refresh           key.Binding
	Quit              key.Binding

	signedIn bool
}

func newKeyMap() keyMap {
	return keyMap{
		Up:                key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:              key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Focus:             key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Select:            key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open account")),
		Login:             key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log in")),
		Register:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "register")),
		Logout:            key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "log out")),
		NewAccount:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "new account")),
		Income:            key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "income")),
		Expense:           key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expense")),
		RemoveAccount:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "remove account")),
		RemoveTransaction: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove transaction")),
		Refresh:           key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Quit:              key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	if !k.signedIn {
		return []key.Binding{k.Login, k.Register, k.Quit}
	}
	return []key.Binding{k.Focus, k.Select, k.NewAccount, k.Income, k.Expense, k.Logout, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	if !k.signedIn {
		return [][]key.Binding{k.ShortHelp()}
	}
	return [][]key.Binding{
		{k.Up, k.Down, k.Focus, k.Select},
		{k.NewAccount, k.Income, k.Expense},
		{k.RemoveAccount, k.RemoveTransaction, k.Refresh},
		{k.Logout, k.Quit},
	}
}

// formKeys are active while a form modal is open.
type formKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func newFormKeys() formKeys {
	return formKeys{
		Next:   key.NewBinding(key.WithKeys("tab", "down")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
		Left:   key.NewBinding(key.WithKeys("left")),
		Right:  key.NewBinding(key.WithKeys("right")),
		Submit: key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc")),
	}
}

type confirmKeys struct {
	Yes key.Binding
	No  key.Binding
}

func newConfirmKeys() confirmKeys {
	return confirmKeys{
		Yes: key.NewBinding(key.WithKeys("y", "enter")),
		No:  key.NewBinding(key.WithKeys("n", "esc")),
	}
}
