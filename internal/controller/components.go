package controller

import (
	"fmt"

	"github.com/bnema/fin/internal/bus"
	"github.com/bnema/fin/internal/domain"
)

type State string

const (
	StateInit State = "init"
	StateUser State = "user"
)

type PageOptions struct {
	AccountID domain.ID
}

type Page interface {
	Render(opts PageOptions)
	Update()
	Clear()
}

type Widget interface {
	Update()
	Clear()
}

type Modal interface {
	Open()
	Close()
}

type Form interface {
	Reset()
}

// Subscriber is implemented by components that react to mutation events.
type Subscriber interface {
	Subscriptions() []bus.Kind
	HandleEvent(event bus.Event)
}

type ErrorPresenter interface {
	PresentError(err error)
}

// registry keeps components of one kind in registration order.
type registry[T any] struct {
	kind  string
	names []string
	items map[string]T
}

func newRegistry[T any](kind string) *registry[T] {
	return &registry[T]{kind: kind, items: make(map[string]T)}
}

func (r *registry[T]) add(name string, item T) {
	if _, exists := r.items[name]; exists {
		panic(fmt.Sprintf("controller: %s %q registered twice", r.kind, name))
	}
	r.names = append(r.names, name)
	r.items[name] = item
}

func (r *registry[T]) get(name string) T {
	item, ok := r.items[name]
	if !ok {
		panic(fmt.Sprintf("controller: unknown %s %q", r.kind, name))
	}
	return item
}

func (r *registry[T]) each(fn func(name string, item T)) {
	for _, name := range r.names {
		fn(name, r.items[name])
	}
}
