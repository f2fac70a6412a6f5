package api

import (
	"context"
	"strings"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/ports"
)

type TransactionInput struct {
	AccountID domain.ID
	Kind      domain.TransactionKind
	Name      string
	Amount    domain.Money
}

func (in TransactionInput) Validate() error {
	var missing []string
	if in.AccountID.IsZero() {
		missing = append(missing, "account")
	}
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return domain.NewValidationError("transaction create", "missing "+strings.Join(missing, ", "))
	}
	if _, err := domain.ParseTransactionKind(string(in.Kind)); err != nil {
		return &domain.Error{Kind: domain.ErrorKindValidation, Op: "transaction create", Err: err}
	}
	if in.Amount.Cents <= 0 {
		return &domain.Error{Kind: domain.ErrorKindValidation, Op: "transaction create", Err: domain.ErrInvalidAmount}
	}
	return nil
}

func (in TransactionInput) values() ports.Values {
	return ports.Values{}.
		Add("account_id", in.AccountID.String()).
		Add("type", string(in.Kind)).
		Add("name", strings.TrimSpace(in.Name)).
		Add("sum", in.Amount.String())
}

type TransactionClient struct {
	entity entity[domain.Transaction]
}

// List returns the transactions of one account.
func (t *TransactionClient) List(ctx context.Context, accountID domain.ID, cb func([]domain.Transaction, error)) {
	t.entity.list(ctx, ports.Values{}.Add("account_id", accountID.String()), cb)
}

func (t *TransactionClient) Get(ctx context.Context, id domain.ID, cb func(domain.Transaction, error)) {
	t.entity.get(ctx, id, cb)
}

func (t *TransactionClient) Create(ctx context.Context, in TransactionInput, cb func(domain.Transaction, error)) {
	if err := in.Validate(); err != nil {
		cb(domain.Transaction{}, err)
		return
	}
	t.entity.create(ctx, in.values(), cb)
}

func (t *TransactionClient) Remove(ctx context.Context, id domain.ID, cb func(error)) {
	if id.IsZero() {
		cb(domain.NewValidationError("transaction remove", "missing id"))
		return
	}
	t.entity.remove(ctx, id, cb)
}
