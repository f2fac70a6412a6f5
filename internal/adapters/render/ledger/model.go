// Package ledger renders accounts and transactions with lipgloss, both for
// CLI output and for the interactive UI.
package ledger

import (
	"errors"
	"io"

	"github.com/bnema/fin/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

// model renders one view through a headless program so CLI output goes
// through the same lipgloss pipeline as the interactive UI.
type model struct {
	view   func(Styles) string
	styles Styles
	output string
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.view(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func render(view func(Styles) string) (string, error) {
	p := tea.NewProgram(
		model{view: view, styles: NewStyles()},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

func RenderAccounts(accounts []domain.Account, opts RenderOptions) (string, error) {
	return render(func(s Styles) string { return AccountsView(accounts, opts, s) })
}

func RenderTransactions(title string, transactions []domain.Transaction, opts RenderOptions) (string, error) {
	return render(func(s Styles) string { return TransactionsView(title, transactions, opts, s) })
}
