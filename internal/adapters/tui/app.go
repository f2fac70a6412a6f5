package tui

import (
	"context"
	"fmt"

	"github.com/bnema/fin/internal/adapters/render/ledger"
	"github.com/bnema/fin/internal/application"
	"github.com/bnema/fin/internal/bus"
	"github.com/bnema/fin/internal/controller"
	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/logging"
	"github.com/bnema/fin/internal/ports"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Session      *application.SessionService
	Accounts     AccountService
	Transactions TransactionService
	Bus          *bus.Bus
	Logger       logrus.FieldLogger
	Currency     string
	// Endpoint is shown while the first session check is running.
	Endpoint string
}

type pane int

const (
	paneAccounts pane = iota
	paneTransactions
)

// App is the root bubbletea model. It owns the controller and every
// registered component; all of them are only touched from Update.
type App struct {
	env      *env
	ctrl     *controller.Controller
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	endpoint string

	accounts     *AccountsWidget
	transactions *TransactionsWidget
	user         *UserWidget
	page         *TransactionsPage
	modals       []modal

	focus     pane
	status    string
	statusErr bool
	booting   bool
}

func New(ctx context.Context, opts Options) *App {
	logger := logging.Component(opts.Logger, "tui")
	currency := opts.Currency
	if currency == "" {
		currency = ledger.DefaultCurrency
	}

	ctrl := controller.New(opts.Bus, opts.Logger)
	e := &env{
		ctx:          ctx,
		ctrl:         ctrl,
		session:      opts.Session,
		accounts:     opts.Accounts,
		transactions: opts.Transactions,
		styles:       NewStyles(),
		currency:     currency,
		log:          logger,
	}

	a := &App{
		env:      e,
		ctrl:     ctrl,
		keys:     newKeyMap(),
		help:     help.New(),
		endpoint: opts.Endpoint,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(e.styles.Spinner),
		),
		accounts:     newAccountsWidget(e),
		transactions: newTransactionsWidget(e),
		user:         newUserWidget(e),
		page:         newTransactionsPage(e),
	}

	ctrl.RegisterPage(PageTransactions, a.page)
	ctrl.RegisterWidget(WidgetAccounts, a.accounts)
	ctrl.RegisterWidget(WidgetTransactions, a.transactions)
	ctrl.RegisterWidget(WidgetUser, a.user)

	login := newLoginForm(e)
	register := newRegisterForm(e)
	account := newAccountForm(e)
	income := newTransactionForm(e, domain.TransactionIncome, ModalNewIncome)
	expense := newTransactionForm(e, domain.TransactionExpense, ModalNewExpense)
	ctrl.RegisterForm(FormLogin, login)
	ctrl.RegisterForm(FormRegister, register)
	ctrl.RegisterForm(FormCreateAccount, account)
	ctrl.RegisterForm(FormCreateIncome, income)
	ctrl.RegisterForm(FormCreateExpense, expense)

	a.addModal(ModalLogin, newFormModal(e, "Log in", login))
	a.addModal(ModalRegister, newFormModal(e, "Register", register))
	a.addModal(ModalCreateAccount, newFormModal(e, "New account", account))
	a.addModal(ModalNewIncome, newFormModal(e, kindTitle(domain.TransactionIncome), income))
	a.addModal(ModalNewExpense, newFormModal(e, kindTitle(domain.TransactionExpense), expense))
	a.addModal(ModalConfirm, newConfirmModal(e))

	ctrl.SetErrorPresenter(a)
	opts.Session.SetNotifier(ctrl)
	ctrl.Start()
	return a
}

func (a *App) addModal(name string, m modal) {
	a.ctrl.RegisterModal(name, m)
	a.modals = append(a.modals, m)
}

func (a *App) Controller() *controller.Controller {
	return a.ctrl
}

func (a *App) Accounts() *AccountsWidget {
	return a.accounts
}

func (a *App) Page() *TransactionsPage {
	return a.page
}

func (a *App) User() *UserWidget {
	return a.user
}

func (a *App) Status() string {
	return a.status
}

// Init asks the server who is signed in; the session service turns the
// answer into a state change.
func (a *App) Init() tea.Cmd {
	a.booting = true
	a.env.session.FetchCurrent(a.env.ctx, func(reply ports.AuthReply, err error) {
		a.booting = false
		if err != nil {
			a.ctrl.ReportError(err)
			return
		}
		if !reply.Success {
			a.setStatus("Press l to log in or r to register.")
		}
	})
	return a.spinner.Tick
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callbackMsg:
		msg.fn()
		return a, nil
	case tea.WindowSizeMsg:
		a.help.Width = msg.Width
		return a, nil
	case spinner.TickMsg:
		if !a.booting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	default:
		return a, nil
	}
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if m := a.visibleModal(); m != nil {
		return m.HandleKey(msg)
	}
	a.status = ""

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case !a.env.signedIn():
		a.handleSignedOutKey(msg)
	default:
		a.handleSignedInKey(msg)
	}
	return nil
}

func (a *App) handleSignedOutKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, a.keys.Login):
		a.ctrl.OpenModal(ModalLogin)
	case key.Matches(msg, a.keys.Register):
		a.ctrl.OpenModal(ModalRegister)
	}
}

func (a *App) handleSignedInKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, a.keys.Logout):
		a.logout()
	case key.Matches(msg, a.keys.NewAccount):
		a.ctrl.OpenModal(ModalCreateAccount)
	case key.Matches(msg, a.keys.Income):
		a.transactions.NewIncome()
	case key.Matches(msg, a.keys.Expense):
		a.transactions.NewExpense()
	case key.Matches(msg, a.keys.Focus):
		if a.focus == paneAccounts {
			a.focus = paneTransactions
		} else {
			a.focus = paneAccounts
		}
	case key.Matches(msg, a.keys.Up):
		a.move(-1)
	case key.Matches(msg, a.keys.Down):
		a.move(1)
	case key.Matches(msg, a.keys.Select):
		if a.focus == paneAccounts {
			a.accounts.Select()
		}
	case key.Matches(msg, a.keys.RemoveAccount):
		a.page.RemoveAccount()
	case key.Matches(msg, a.keys.RemoveTransaction):
		a.page.RemoveSelected()
	case key.Matches(msg, a.keys.Refresh):
		a.ctrl.UpdateWidgets()
		a.ctrl.Update()
	}
}

func (a *App) move(delta int) {
	if a.focus == paneAccounts {
		a.accounts.Move(delta)
		return
	}
	a.page.Move(delta)
}

func (a *App) logout() {
	a.env.session.Logout(a.env.ctx, func(reply ports.AuthReply, err error) {
		if err := application.ReplyErr("logout", reply, err); err != nil {
			a.ctrl.ReportError(err)
			return
		}
		a.setStatus("Signed out.")
	})
}

func (a *App) visibleModal() modal {
	for _, m := range a.modals {
		if m.Visible() {
			return m
		}
	}
	return nil
}

// PresentError shows err in the status line until the next key press.
func (a *App) PresentError(err error) {
	a.status = fmt.Sprintf("%s: %v", domain.KindOf(err).Label(), err)
	a.statusErr = true
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusErr = false
}

func (a *App) View() string {
	s := a.env.styles
	keys := a.keys
	keys.signedIn = a.env.signedIn()

	header := lipgloss.JoinHorizontal(lipgloss.Top, s.Brand.Render("fin"), "  ", a.user.View())

	var body string
	switch {
	case a.booting:
		body = a.spinner.View() + " Connecting to " + a.endpoint + "..."
	case a.visibleModal() != nil:
		body = a.visibleModal().View()
	case !a.env.signedIn():
		body = s.Hint.Render("Sign in to see your accounts.")
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, a.panes(), "", a.transactions.View())
	}

	status := ""
	if a.status != "" {
		style := s.Status
		if a.statusErr {
			style = s.Error
		}
		status = style.Render(a.status)
	}

	return s.App.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		body,
		"",
		status,
		a.help.View(keys),
	))
}

func (a *App) panes() string {
	s := a.env.styles
	accountsPane, pagePane := s.Pane, s.Pane
	if a.focus == paneAccounts {
		accountsPane = s.FocusedPane
	} else {
		pagePane = s.FocusedPane
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		accountsPane.Render(a.accounts.View(a.focus == paneAccounts)),
		" ",
		pagePane.Render(a.page.View(a.focus == paneTransactions)),
	)
}

// Run drives app until the user quits or ctx is cancelled. The scheduler
// is bound to the program so transport callbacks land in Update.
func Run(ctx context.Context, app *App, scheduler *Scheduler, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(app, opts...)
	scheduler.Bind(p.Send)
	defer scheduler.Close()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
