package tui

import (
	"strings"

	"github.com/bnema/fin/internal/adapters/api"
	"github.com/bnema/fin/internal/application"
	"github.com/bnema/fin/internal/bus"
	"github.com/bnema/fin/internal/controller"
	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/ports"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// form is a controller form that a FormModal can drive.
type form interface {
	controller.Form
	Focus() tea.Cmd
	HandleKey(msg tea.KeyMsg) tea.Cmd
	Submit()
	View() string
}

type LoginForm struct {
	env    *env
	fields *fieldset
}

func newLoginForm(e *env) *LoginForm {
	return &LoginForm{
		env: e,
		fields: newFieldset(
			field{label: "Email", placeholder: "you@example.com"},
			field{label: "Password", secret: true},
		),
	}
}

func (f *LoginForm) Reset()         { f.fields.reset() }
func (f *LoginForm) Focus() tea.Cmd { return f.fields.focusAt(0) }
func (f *LoginForm) View() string   { return f.fields.view(f.env.styles) }

func (f *LoginForm) HandleKey(msg tea.KeyMsg) tea.Cmd {
	return handleFieldKeys(f.fields, msg)
}

// Submit signs in. The session service announces the new session before
// the form closes its modal.
func (f *LoginForm) Submit() {
	creds := domain.Credentials{Email: f.fields.trimmed(0), Password: f.fields.value(1)}
	f.env.session.Login(f.env.ctx, creds, func(reply ports.AuthReply, err error) {
		if err := application.ReplyErr("login", reply, err); err != nil {
			f.env.ctrl.ReportError(err)
			return
		}
		f.Reset()
		f.env.closeModal(ModalLogin)
	})
}

type RegisterForm struct {
	env    *env
	fields *fieldset
}

func newRegisterForm(e *env) *RegisterForm {
	return &RegisterForm{
		env: e,
		fields: newFieldset(
			field{label: "Name", placeholder: "Vlad"},
			field{label: "Email", placeholder: "you@example.com"},
			field{label: "Password", secret: true},
		),
	}
}

func (f *RegisterForm) Reset()         { f.fields.reset() }
func (f *RegisterForm) Focus() tea.Cmd { return f.fields.focusAt(0) }
func (f *RegisterForm) View() string   { return f.fields.view(f.env.styles) }

func (f *RegisterForm) HandleKey(msg tea.KeyMsg) tea.Cmd {
	return handleFieldKeys(f.fields, msg)
}

func (f *RegisterForm) Submit() {
	profile := domain.Profile{
		Name:     f.fields.trimmed(0),
		Email:    f.fields.trimmed(1),
		Password: f.fields.value(2),
	}
	f.env.session.Register(f.env.ctx, profile, func(reply ports.AuthReply, err error) {
		if err := application.ReplyErr("register", reply, err); err != nil {
			f.env.ctrl.ReportError(err)
			return
		}
		f.Reset()
		f.env.closeModal(ModalRegister)
	})
}

type AccountForm struct {
	env    *env
	fields *fieldset
}

func newAccountForm(e *env) *AccountForm {
	return &AccountForm{
		env:    e,
		fields: newFieldset(field{label: "Name", placeholder: "Cash"}),
	}
}

func (f *AccountForm) Reset()         { f.fields.reset() }
func (f *AccountForm) Focus() tea.Cmd { return f.fields.focusAt(0) }
func (f *AccountForm) View() string   { return f.fields.view(f.env.styles) }

func (f *AccountForm) HandleKey(msg tea.KeyMsg) tea.Cmd {
	return handleFieldKeys(f.fields, msg)
}

func (f *AccountForm) Submit() {
	f.env.accounts.Create(f.env.ctx, f.fields.trimmed(0), func(account domain.Account, err error) {
		if err != nil {
			f.env.ctrl.ReportError(err)
			return
		}
		f.Reset()
		f.env.closeModal(ModalCreateAccount)
		f.env.ctrl.Publish(bus.Event{Kind: bus.AccountCreated, AccountID: account.ID})
	})
}

// TransactionForm creates an income or an expense. Focus position 0 is the
// account selector, the text inputs follow.
type TransactionForm struct {
	env      *env
	kind     domain.TransactionKind
	modal    string
	fields   *fieldset
	keys     formKeys
	accounts []domain.Account
	selected int
	pos      int
}

func newTransactionForm(e *env, kind domain.TransactionKind, modal string) *TransactionForm {
	return &TransactionForm{
		env:   e,
		kind:  kind,
		modal: modal,
		keys:  newFormKeys(),
		fields: newFieldset(
			field{label: "Name", placeholder: "Salary"},
			field{label: "Sum", placeholder: "12.34"},
		),
	}
}

func (f *TransactionForm) Subscriptions() []bus.Kind {
	return []bus.Kind{bus.AccountCreated, bus.AccountRemoved}
}

func (f *TransactionForm) HandleEvent(bus.Event) {
	f.ReloadAccounts()
}

// ReloadAccounts refreshes the account selector, preferring the account
// shown on the current page.
func (f *TransactionForm) ReloadAccounts() {
	if !f.env.signedIn() {
		return
	}
	f.env.accounts.List(f.env.ctx, func(items []domain.Account, err error) {
		if err != nil {
			f.env.ctrl.ReportError(err)
			return
		}
		f.accounts = items
		f.selected = 0
		if current, ok := f.env.ctrl.CurrentPage(); ok {
			for i, a := range items {
				if a.ID == current.Options.AccountID {
					f.selected = i
				}
			}
		}
	})
}

func (f *TransactionForm) Accounts() []domain.Account {
	return f.accounts
}

func (f *TransactionForm) Selected() (domain.Account, bool) {
	if len(f.accounts) == 0 {
		return domain.Account{}, false
	}
	return f.accounts[f.selected], true
}

func (f *TransactionForm) Reset() {
	f.fields.reset()
	f.pos = 0
	f.fields.focusAt(-1)
}

func (f *TransactionForm) Focus() tea.Cmd {
	f.pos = 0
	return f.fields.focusAt(-1)
}

func (f *TransactionForm) HandleKey(msg tea.KeyMsg) tea.Cmd {
	positions := len(f.fields.inputs) + 1
	switch {
	case key.Matches(msg, f.keys.Next):
		f.pos = cycle(f.pos, 1, positions)
		return f.fields.focusAt(f.pos - 1)
	case key.Matches(msg, f.keys.Prev):
		f.pos = cycle(f.pos, -1, positions)
		return f.fields.focusAt(f.pos - 1)
	case f.pos == 0 && key.Matches(msg, f.keys.Left):
		f.selected = cycle(f.selected, -1, len(f.accounts))
		return nil
	case f.pos == 0 && key.Matches(msg, f.keys.Right):
		f.selected = cycle(f.selected, 1, len(f.accounts))
		return nil
	default:
		return f.fields.update(msg)
	}
}

func (f *TransactionForm) Submit() {
	op := "transaction create"
	account, ok := f.Selected()
	if !ok {
		f.env.ctrl.ReportError(domain.NewValidationError(op, "missing account"))
		return
	}
	amount, err := domain.ParseAmount(f.fields.trimmed(1))
	if err != nil {
		f.env.ctrl.ReportError(&domain.Error{Kind: domain.ErrorKindValidation, Op: op, Err: err})
		return
	}

	in := api.TransactionInput{AccountID: account.ID, Kind: f.kind, Name: f.fields.trimmed(0), Amount: amount}
	f.env.transactions.Create(f.env.ctx, in, func(tx domain.Transaction, err error) {
		if err != nil {
			f.env.ctrl.ReportError(err)
			return
		}
		f.Reset()
		f.env.closeModal(f.modal)
		f.env.ctrl.Publish(bus.Event{Kind: bus.TransactionCreated, AccountID: in.AccountID, TransactionID: tx.ID})
	})
}

func (f *TransactionForm) View() string {
	s := f.env.styles
	name := s.Hint.Render("no accounts")
	if account, ok := f.Selected(); ok {
		name = "‹ " + account.Name + " ›"
	}
	if f.pos == 0 {
		name = s.Ledger.Selected.Render(name)
	}
	selector := lipgloss.JoinHorizontal(lipgloss.Top, s.Label.Render("Account"), name)
	return lipgloss.JoinVertical(lipgloss.Left, selector, f.fields.view(s))
}

// handleFieldKeys moves focus between inputs and passes everything else to
// the focused one.
func handleFieldKeys(fs *fieldset, msg tea.KeyMsg) tea.Cmd {
	keys := newFormKeys()
	switch {
	case key.Matches(msg, keys.Next):
		return fs.focusAt(cycle(fs.focus, 1, len(fs.inputs)))
	case key.Matches(msg, keys.Prev):
		return fs.focusAt(cycle(fs.focus, -1, len(fs.inputs)))
	default:
		return fs.update(msg)
	}
}

func kindTitle(kind domain.TransactionKind) string {
	return "New " + strings.ToLower(string(kind))
}
