package tui

import (
	"fmt"

	"github.com/bnema/fin/internal/adapters/render/ledger"
	"github.com/bnema/fin/internal/bus"
	"github.com/bnema/fin/internal/controller"
	"github.com/bnema/fin/internal/domain"
)

// TransactionsPage shows one account and its transactions. Fetches are
// never cancelled: whichever response resolves last is what stays on
// screen.
type TransactionsPage struct {
	env    *env
	opts   *controller.PageOptions
	title  string
	items  []domain.Transaction
	cursor int
}

func newTransactionsPage(e *env) *TransactionsPage {
	return &TransactionsPage{env: e, title: ledger.DefaultAccountTitle}
}

func (p *TransactionsPage) Subscriptions() []bus.Kind {
	return []bus.Kind{bus.AccountRemoved, bus.TransactionCreated, bus.TransactionRemoved}
}

func (p *TransactionsPage) HandleEvent(event bus.Event) {
	if p.opts == nil {
		return
	}
	switch event.Kind {
	case bus.AccountRemoved:
		if event.AccountID == p.opts.AccountID {
			p.Clear()
		}
	default:
		if event.AccountID.IsZero() || event.AccountID == p.opts.AccountID {
			p.Update()
		}
	}
}

func (p *TransactionsPage) Render(opts controller.PageOptions) {
	p.opts = &opts
	p.cursor = 0
	p.Update()
}

// Update refetches the account and its transactions with the last options.
func (p *TransactionsPage) Update() {
	if p.opts == nil {
		return
	}
	id := p.opts.AccountID

	p.env.accounts.Get(p.env.ctx, id, func(account domain.Account, err error) {
		if err != nil {
			p.env.ctrl.ReportError(err)
			return
		}
		p.title = account.Name
	})
	p.env.transactions.List(p.env.ctx, id, func(items []domain.Transaction, err error) {
		if err != nil {
			p.env.ctrl.ReportError(err)
			return
		}
		p.items = items
		p.cursor = clamp(p.cursor, len(items))
	})
}

func (p *TransactionsPage) Clear() {
	p.opts = nil
	p.title = ledger.DefaultAccountTitle
	p.items = nil
	p.cursor = 0
}

func (p *TransactionsPage) AccountID() domain.ID {
	if p.opts == nil {
		return ""
	}
	return p.opts.AccountID
}

func (p *TransactionsPage) Title() string {
	return p.title
}

func (p *TransactionsPage) Items() []domain.Transaction {
	return p.items
}

func (p *TransactionsPage) Move(delta int) {
	p.cursor = clamp(p.cursor+delta, len(p.items))
}

// RemoveAccount asks for confirmation and removes the shown account.
func (p *TransactionsPage) RemoveAccount() {
	if p.opts == nil {
		return
	}
	id := p.opts.AccountID

	p.confirm().Ask(fmt.Sprintf("Remove account %q and all its transactions?", p.title), func() {
		p.env.accounts.Remove(p.env.ctx, id, func(err error) {
			if err != nil {
				p.env.ctrl.ReportError(err)
				return
			}
			p.Clear()
			p.env.ctrl.Publish(bus.Event{Kind: bus.AccountRemoved, AccountID: id})
		})
	})
}

func (p *TransactionsPage) RemoveTransaction(id domain.ID) {
	if p.opts == nil || id.IsZero() {
		return
	}
	accountID := p.opts.AccountID

	p.confirm().Ask("Remove this transaction?", func() {
		p.env.transactions.Remove(p.env.ctx, id, func(err error) {
			if err != nil {
				p.env.ctrl.ReportError(err)
				return
			}
			p.env.ctrl.Publish(bus.Event{Kind: bus.TransactionRemoved, AccountID: accountID, TransactionID: id})
		})
	})
}

// RemoveSelected removes the transaction under the cursor.
func (p *TransactionsPage) RemoveSelected() {
	if len(p.items) == 0 {
		return
	}
	p.RemoveTransaction(p.items[p.cursor].ID)
}

func (p *TransactionsPage) confirm() *ConfirmModal {
	return p.env.ctrl.Modal(ModalConfirm).(*ConfirmModal)
}

func (p *TransactionsPage) View(focused bool) string {
	if p.opts == nil {
		return p.env.styles.Hint.Render("Select an account to see its transactions.")
	}
	opts := ledger.RenderOptions{Currency: p.env.currency}
	if focused && len(p.items) > 0 {
		opts.Cursor = p.items[p.cursor].ID
	}
	return ledger.TransactionsView(p.title, p.items, opts, p.env.styles.Ledger)
}
