package ledger

import "github.com/charmbracelet/lipgloss"

// Styles is shared by the CLI listings and the interactive UI.
type Styles struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	Account    lipgloss.Style
	Selected   lipgloss.Style
	Detail     lipgloss.Style
	Income     lipgloss.Style
	Expense    lipgloss.Style
	Warning    lipgloss.Style
	Section    lipgloss.Style
	Empty      lipgloss.Style
	Date       lipgloss.Style
	BarBracket lipgloss.Style
	BarFill    lipgloss.Style
	BarEmpty   lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true),
		Header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Account:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Selected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("25")),
		Detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Income:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Expense:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		Section:    lipgloss.NewStyle().MarginTop(1),
		Empty:      lipgloss.NewStyle().Faint(true),
		Date:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		BarBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		BarFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		BarEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
