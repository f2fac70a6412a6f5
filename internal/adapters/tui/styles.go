package tui

import (
	"github.com/bnema/fin/internal/adapters/render/ledger"
	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	Ledger ledger.Styles

	App         lipgloss.Style
	Brand       lipgloss.Style
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style
	Modal       lipgloss.Style
	Label       lipgloss.Style
	Button      lipgloss.Style
	Hint        lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Spinner     lipgloss.Style
}

func NewStyles() Styles {
	border := lipgloss.RoundedBorder()
	pane := lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	return Styles{
		Ledger:      ledger.NewStyles(),
		App:         lipgloss.NewStyle().Padding(1, 2),
		Brand:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")),
		Pane:        pane,
		FocusedPane: pane.BorderForeground(lipgloss.Color("69")),
		Modal:       lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("69")).Padding(1, 2),
		Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10),
		Button:      lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("25")).Padding(0, 1),
		Hint:        lipgloss.NewStyle().Faint(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Error:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		Spinner:     lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
	}
}
