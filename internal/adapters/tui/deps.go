// Package tui is the interactive front end: a bubbletea program whose update
// loop doubles as the callback loop for every request the views issue.
package tui

import (
	"context"

	"github.com/bnema/fin/internal/adapters/api"
	"github.com/bnema/fin/internal/application"
	"github.com/bnema/fin/internal/controller"
	"github.com/bnema/fin/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	PageTransactions = "transactions"

	WidgetAccounts     = "accounts"
	WidgetTransactions = "transactions"
	WidgetUser         = "user"

	ModalLogin         = "login"
	ModalRegister      = "register"
	ModalCreateAccount = "createAccount"
	ModalNewIncome     = "newIncome"
	ModalNewExpense    = "newExpense"
	ModalConfirm       = "confirm"

	FormLogin         = "login"
	FormRegister      = "register"
	FormCreateAccount = "createAccount"
	FormCreateIncome  = "createIncome"
	FormCreateExpense = "createExpense"
)

type AccountService interface {
	List(ctx context.Context, cb func([]domain.Account, error))
	Get(ctx context.Context, id domain.ID, cb func(domain.Account, error))
	Create(ctx context.Context, name string, cb func(domain.Account, error))
	Remove(ctx context.Context, id domain.ID, cb func(error))
}

type TransactionService interface {
	List(ctx context.Context, accountID domain.ID, cb func([]domain.Transaction, error))
	Create(ctx context.Context, in api.TransactionInput, cb func(domain.Transaction, error))
	Remove(ctx context.Context, id domain.ID, cb func(error))
}

var (
	_ AccountService     = (*api.AccountClient)(nil)
	_ TransactionService = (*api.TransactionClient)(nil)
)

// env is what every component shares. Components only touch it from the
// update loop.
type env struct {
	ctx          context.Context
	ctrl         *controller.Controller
	session      *application.SessionService
	accounts     AccountService
	transactions TransactionService
	styles       Styles
	currency     string
	log          logrus.FieldLogger
}

func (e *env) signedIn() bool {
	return e.ctrl.State() == controller.StateUser
}

func (e *env) closeModal(name string) {
	e.ctrl.Modal(name).Close()
}
