// Package loop runs callbacks one at a time on a single goroutine. Worker
// goroutines never touch view or session state directly; they Post a
// closure and the loop executes it in arrival order.
package loop

import (
	"context"
	"errors"
	"sync"
)

var ErrStopped = errors.New("loop stopped")

type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func New() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Post enqueues fn. It never blocks and is safe from any goroutine.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Stop makes Run return after the callback currently executing.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stopped) })
}

// Run executes posted callbacks until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			select {
			case <-l.stopped:
				return nil
			default:
			}

			fn, ok := l.next()
			if !ok {
				break
			}
			fn()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopped:
			return nil
		case <-l.wake:
		}
	}
}

// Drain runs every queued callback, including ones queued while draining,
// and returns how many ran. Tests use it to step the loop by hand.
func (l *Loop) Drain() int {
	ran := 0
	for {
		fn, ok := l.next()
		if !ok {
			return ran
		}
		fn()
		ran++
	}
}

func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

// Await starts an operation on the loop and runs the loop until the
// operation calls done or ctx ends. It is how one-shot CLI commands wait
// for a callback-style API. A loop can be stopped only once, so each
// Await needs a fresh Loop.
func Await(ctx context.Context, l *Loop, start func(done func())) error {
	l.Post(func() {
		start(l.Stop)
	})

	return l.Run(ctx)
}
