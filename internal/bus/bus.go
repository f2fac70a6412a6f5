// Package bus fans mutation events out to the components that declared
// interest in them. Delivery is synchronous and follows subscription order.
package bus

import (
	"sync"

	"github.com/bnema/fin/internal/domain"
)

type Kind string

const (
	AccountCreated     Kind = "account.created"
	AccountRemoved     Kind = "account.removed"
	TransactionCreated Kind = "transaction.created"
	TransactionRemoved Kind = "transaction.removed"
	SessionChanged     Kind = "session.changed"
)

type Event struct {
	Kind          Kind
	AccountID     domain.ID
	TransactionID domain.ID
	// Session is nil when the event signals a sign-out.
	Session *domain.Session
}

type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Kind][]subscription
}

func New() *Bus {
	return &Bus{subs: make(map[Kind][]subscription)}
}

// Subscribe appends handler to kind's delivery list and returns a function
// that removes it again.
func (b *Bus) Subscribe(kind Kind, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.subs[kind]
		for i, sub := range subs {
			if sub.id == id {
				b.subs[kind] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every handler subscribed to event.Kind. Handlers added or
// removed while a publish is running take effect on the next one.
func (b *Bus) Publish(event Event) int {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[event.Kind]...)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.handler(event)
	}
	return len(subs)
}

func (b *Bus) Subscribers(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[kind])
}
