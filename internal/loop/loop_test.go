package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesInPostOrder(t *testing.T) {
	t.Parallel()

	l := New()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	l.Post(l.Stop)

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestPostFromWorkersIsSerialized(t *testing.T) {
	t.Parallel()

	l := New()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Post(func() { counter++ })
		}()
	}
	go func() {
		wg.Wait()
		l.Post(l.Stop)
	}()

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, 50, counter)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDrainRunsNestedPosts(t *testing.T) {
	t.Parallel()

	l := New()
	var got []string
	l.Post(func() {
		got = append(got, "outer")
		l.Post(func() { got = append(got, "inner") })
	})

	assert.Equal(t, 2, l.Drain())
	assert.Equal(t, []string{"outer", "inner"}, got)
	assert.Equal(t, 0, l.Pending())
}

func TestAwaitReturnsWhenDoneCalledAsynchronously(t *testing.T) {
	t.Parallel()

	l := New()
	result := ""
	err := Await(context.Background(), l, func(done func()) {
		go func() {
			time.Sleep(5 * time.Millisecond)
			l.Post(func() {
				result = "finished"
				done()
			})
		}()
	})

	require.NoError(t, err)
	assert.Equal(t, "finished", result)
}
