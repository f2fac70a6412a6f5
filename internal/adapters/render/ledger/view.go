package ledger

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/fin/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultCurrency     = "₽"
	DefaultAccountTitle = "Account name"
	shareBarWidth       = 16
)

type RenderOptions struct {
	Currency string
	// Active highlights the account with this id.
	Active domain.ID
	// Cursor prefixes the row with this id with a pointer.
	Cursor domain.ID
}

func (o RenderOptions) marker(id domain.ID) string {
	if o.Cursor.IsZero() {
		return ""
	}
	if id == o.Cursor {
		return "› "
	}
	return "  "
}

func (o RenderOptions) currency() string {
	if o.Currency == "" {
		return DefaultCurrency
	}
	return o.Currency
}

func AccountsView(accounts []domain.Account, opts RenderOptions, s Styles) string {
	lines := []string{
		s.Title.Render("Accounts"),
		s.Header.Render(fmt.Sprintf("accounts: %d", len(accounts))),
	}
	if len(accounts) == 0 {
		lines = append(lines, s.Empty.Render("No accounts yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	total := positiveTotal(accounts)
	for _, account := range accounts {
		lines = append(lines, opts.marker(account.ID)+AccountLine(account, share(account.Balance, total), opts, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// AccountLine renders "name / balance" followed by the account's share of
// all positive balances.
func AccountLine(account domain.Account, sharePercent float64, opts RenderOptions, s Styles) string {
	nameStyle := s.Account
	if !opts.Active.IsZero() && account.ID == opts.Active {
		nameStyle = s.Selected
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		nameStyle.Render(account.Name),
		s.Detail.Render(" / "),
		amountStyle(account.Balance, s).Render(FormatAmount(account.Balance, opts.currency())),
		" ",
		renderShareBar(sharePercent, shareBarWidth, s),
	)
}

func TransactionsView(title string, transactions []domain.Transaction, opts RenderOptions, s Styles) string {
	if strings.TrimSpace(title) == "" {
		title = DefaultAccountTitle
	}
	lines := []string{s.Title.Render(title)}
	if len(transactions) == 0 {
		lines = append(lines, s.Empty.Render("No transactions."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	for _, tx := range transactions {
		lines = append(lines, opts.marker(tx.ID)+TransactionLine(tx, opts, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func TransactionLine(tx domain.Transaction, opts RenderOptions, s Styles) string {
	style := s.Income
	sign := "+"
	if tx.Kind == domain.TransactionExpense {
		style = s.Expense
		sign = "-"
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		style.Render(sign+" "+FormatAmount(tx.Amount, opts.currency())),
		"  ",
		s.Detail.Render(tx.Name),
		"  ",
		s.Date.Render(tx.CreatedAt.Human()),
	)
}

func FormatAmount(m domain.Money, currency string) string {
	return m.String() + " " + currency
}

func amountStyle(m domain.Money, s Styles) lipgloss.Style {
	if m.Cents < 0 {
		return s.Expense
	}
	return s.Detail
}

func positiveTotal(accounts []domain.Account) int64 {
	var total int64
	for _, account := range accounts {
		if account.Balance.Cents > 0 {
			total += account.Balance.Cents
		}
	}
	return total
}

func share(m domain.Money, total int64) float64 {
	if total <= 0 || m.Cents <= 0 {
		return 0
	}
	return float64(m.Cents) * 100 / float64(total)
}

func renderShareBar(percent float64, width int, s Styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	if filled > width {
		filled = width
	}

	fill := lipgloss.NewStyle().Foreground(interpolateColor(percent, 0, 100))
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.BarBracket.Render("["),
		fill.Render(strings.Repeat("=", filled)),
		s.BarEmpty.Render(strings.Repeat("-", width-filled)),
		s.BarBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
