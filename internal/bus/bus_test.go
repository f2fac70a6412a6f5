package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishFollowsSubscriptionOrder(t *testing.T) {
	t.Parallel()

	b := New()
	var calls []string
	b.Subscribe(AccountRemoved, func(Event) { calls = append(calls, "page") })
	b.Subscribe(AccountRemoved, func(Event) { calls = append(calls, "widget") })
	b.Subscribe(AccountCreated, func(Event) { calls = append(calls, "other") })

	delivered := b.Publish(Event{Kind: AccountRemoved, AccountID: "5"})

	assert.Equal(t, 2, delivered)
	assert.Equal(t, []string{"page", "widget"}, calls)
}

func TestUnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	t.Parallel()

	b := New()
	var calls []string
	unsubscribe := b.Subscribe(TransactionCreated, func(Event) { calls = append(calls, "first") })
	b.Subscribe(TransactionCreated, func(Event) { calls = append(calls, "second") })

	unsubscribe()
	unsubscribe()
	b.Publish(Event{Kind: TransactionCreated})

	assert.Equal(t, []string{"second"}, calls)
	assert.Equal(t, 1, b.Subscribers(TransactionCreated))
}

func TestSubscribeDuringPublishAppliesNextTime(t *testing.T) {
	t.Parallel()

	b := New()
	count := 0
	b.Subscribe(SessionChanged, func(Event) {
		b.Subscribe(SessionChanged, func(Event) { count++ })
	})

	b.Publish(Event{Kind: SessionChanged})
	assert.Equal(t, 0, count)

	b.Publish(Event{Kind: SessionChanged})
	assert.Equal(t, 1, count)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, New().Publish(Event{Kind: AccountCreated}))
}
