package tui

import (
	"github.com/bnema/fin/internal/adapters/render/ledger"
	"github.com/bnema/fin/internal/bus"
	"github.com/bnema/fin/internal/controller"
	"github.com/bnema/fin/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// AccountsWidget lists the signed-in user's accounts. Selecting one opens
// the transactions page for it.
type AccountsWidget struct {
	env    *env
	items  []domain.Account
	cursor int
	active domain.ID
}

func newAccountsWidget(e *env) *AccountsWidget {
	return &AccountsWidget{env: e}
}

func (w *AccountsWidget) Subscriptions() []bus.Kind {
	return []bus.Kind{bus.AccountCreated, bus.AccountRemoved, bus.TransactionCreated, bus.TransactionRemoved}
}

func (w *AccountsWidget) HandleEvent(event bus.Event) {
	if event.Kind == bus.AccountRemoved && event.AccountID == w.active {
		w.active = ""
	}
	w.Update()
}

func (w *AccountsWidget) Update() {
	if !w.env.signedIn() {
		return
	}
	w.env.accounts.List(w.env.ctx, func(items []domain.Account, err error) {
		if err != nil {
			w.env.ctrl.ReportError(err)
			return
		}
		w.items = items
		w.cursor = clamp(w.cursor, len(items))
	})
}

func (w *AccountsWidget) Clear() {
	w.items = nil
	w.cursor = 0
	w.active = ""
}

func (w *AccountsWidget) Items() []domain.Account {
	return w.items
}

// Active is the id of the account whose transactions are shown.
func (w *AccountsWidget) Active() domain.ID {
	return w.active
}

func (w *AccountsWidget) Move(delta int) {
	w.cursor = clamp(w.cursor+delta, len(w.items))
}

func (w *AccountsWidget) Select() {
	if len(w.items) == 0 {
		return
	}
	w.active = w.items[w.cursor].ID
	w.env.ctrl.ShowPage(PageTransactions, controller.PageOptions{AccountID: w.active})
}

func (w *AccountsWidget) View(focused bool) string {
	opts := ledger.RenderOptions{Currency: w.env.currency, Active: w.active}
	if focused && len(w.items) > 0 {
		opts.Cursor = w.items[w.cursor].ID
	}
	return ledger.AccountsView(w.items, opts, w.env.styles.Ledger)
}

// TransactionsWidget holds the new income and new expense actions.
type TransactionsWidget struct {
	env *env
}

func newTransactionsWidget(e *env) *TransactionsWidget {
	return &TransactionsWidget{env: e}
}

func (w *TransactionsWidget) Update() {}

func (w *TransactionsWidget) Clear() {}

func (w *TransactionsWidget) NewIncome() {
	w.open(ModalNewIncome, FormCreateIncome)
}

func (w *TransactionsWidget) NewExpense() {
	w.open(ModalNewExpense, FormCreateExpense)
}

func (w *TransactionsWidget) open(modal, form string) {
	if f, ok := w.env.ctrl.Form(form).(*TransactionForm); ok {
		f.ReloadAccounts()
	}
	w.env.ctrl.OpenModal(modal)
}

func (w *TransactionsWidget) View() string {
	s := w.env.styles
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.Button.Render("i  + income"),
		" ",
		s.Button.Render("e  - expense"),
	)
}

type UserWidget struct {
	env  *env
	name string
}

func newUserWidget(e *env) *UserWidget {
	return &UserWidget{env: e}
}

func (w *UserWidget) Subscriptions() []bus.Kind {
	return []bus.Kind{bus.SessionChanged}
}

func (w *UserWidget) HandleEvent(event bus.Event) {
	if event.Session == nil {
		w.name = ""
		return
	}
	w.name = event.Session.DisplayName()
}

func (w *UserWidget) Update() {
	if session, ok := w.env.session.Current(w.env.ctx); ok {
		w.name = session.DisplayName()
	}
}

func (w *UserWidget) Clear() {
	w.name = ""
}

func (w *UserWidget) Name() string {
	return w.name
}

func (w *UserWidget) View() string {
	if w.name == "" {
		return w.env.styles.Hint.Render("not signed in")
	}
	return w.env.styles.Ledger.Detail.Render("signed in as ") + w.env.styles.Ledger.Account.Render(w.name)
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
