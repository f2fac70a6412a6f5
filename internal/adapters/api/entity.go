package api

import (
	"context"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/logging"
	"github.com/bnema/fin/internal/ports"
	"github.com/tidwall/gjson"
)

// entity implements the list/get/create/remove shape every resource shares:
// GET /<resource>/list, GET /<resource>/get, POST /<resource>/create,
// POST /<resource>/remove.
type entity[T any] struct {
	c        *Client
	resource string
}

func newEntity[T any](c *Client, resource string) entity[T] {
	return entity[T]{c: c, resource: resource}
}

func (e entity[T]) path(action string) string {
	return "/" + e.resource + "/" + action
}

func (e entity[T]) list(ctx context.Context, filter ports.Values, cb func([]T, error)) {
	op := e.resource + " list"
	e.c.get(ctx, op, e.path("list"), filter, func(env Envelope, err error) {
		if err == nil {
			err = env.Err(op)
		}
		if err != nil {
			cb(nil, err)
			return
		}
		items, err := decodeInto[[]T](env.Data, op)
		cb(items, err)
	})
}

func (e entity[T]) get(ctx context.Context, id domain.ID, cb func(T, error)) {
	op := e.resource + " get"
	e.c.get(ctx, op, e.path("get"), ports.Values{}.Add("id", id.String()), func(env Envelope, err error) {
		var zero T
		if err == nil {
			err = env.Err(op)
		}
		if err != nil {
			cb(zero, err)
			return
		}
		cb(decodeOne[T](env.Data, id, op))
	})
}

// decodeOne accepts a get reply carrying either the object itself or a list
// that contains it.
func decodeOne[T any](data gjson.Result, id domain.ID, op string) (T, error) {
	if !data.IsArray() {
		return decodeInto[T](data, op)
	}
	var zero T
	for _, item := range data.Array() {
		if item.Get("id").String() == id.String() {
			return decodeInto[T](item, op)
		}
	}
	return zero, domain.NewSemanticError(op, "no item with id "+id.String())
}

func (e entity[T]) create(ctx context.Context, data ports.Values, cb func(T, error)) {
	op := e.resource + " create"
	e.c.post(ctx, op, e.path("create"), data, func(env Envelope, err error) {
		var zero T
		if err == nil {
			err = env.Err(op)
		}
		if err != nil {
			cb(zero, err)
			return
		}
		item, err := decodeInto[T](env.Data, op)
		if err == nil {
			logging.Created(e.c.log, e.resource, env.Data.Get("id"))
		}
		cb(item, err)
	})
}

func (e entity[T]) remove(ctx context.Context, id domain.ID, cb func(error)) {
	op := e.resource + " remove"
	e.c.post(ctx, op, e.path("remove"), ports.Values{}.Add("id", id.String()), func(env Envelope, err error) {
		if err == nil {
			err = env.Err(op)
		}
		if err == nil {
			logging.Removed(e.c.log, e.resource, id)
		}
		cb(err)
	})
}
