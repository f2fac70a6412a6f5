package api

import (
	"context"
	"strings"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/ports"
)

type AccountClient struct {
	entity entity[domain.Account]
}

func (a *AccountClient) List(ctx context.Context, cb func([]domain.Account, error)) {
	a.entity.list(ctx, nil, cb)
}

func (a *AccountClient) Get(ctx context.Context, id domain.ID, cb func(domain.Account, error)) {
	a.entity.get(ctx, id, cb)
}

// Create validates the name locally; an empty name never reaches the
// server.
func (a *AccountClient) Create(ctx context.Context, name string, cb func(domain.Account, error)) {
	name = strings.TrimSpace(name)
	if name == "" {
		cb(domain.Account{}, domain.NewValidationError("account create", "missing name"))
		return
	}
	a.entity.create(ctx, ports.Values{}.Add("name", name), cb)
}

func (a *AccountClient) Remove(ctx context.Context, id domain.ID, cb func(error)) {
	if id.IsZero() {
		cb(domain.NewValidationError("account remove", "missing id"))
		return
	}
	a.entity.remove(ctx, id, cb)
}
