package tui

import (
	"sync"

	"github.com/bnema/fin/internal/ports"
	tea "github.com/charmbracelet/bubbletea"
)

type callbackMsg struct {
	fn func()
}

// Scheduler hands transport callbacks to the bubbletea program as messages,
// so they run on the update loop next to key handling. Every callback goes
// through one queue drained by a single goroutine: delivery follows Post
// order, including callbacks posted before Bind.
type Scheduler struct {
	mu    sync.Mutex
	queue []func()
	bound bool

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

var _ ports.Scheduler = (*Scheduler)(nil)

func NewScheduler() *Scheduler {
	return &Scheduler{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Bind starts delivery through send, typically (*tea.Program).Send.
func (s *Scheduler) Bind(send func(tea.Msg)) {
	s.mu.Lock()
	if s.bound {
		s.mu.Unlock()
		panic("tui: scheduler bound twice")
	}
	s.bound = true
	s.mu.Unlock()

	go s.deliver(send)
	s.notify()
}

func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
	s.notify()
}

// Close stops delivery. Callbacks still queued are dropped.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) deliver(send func(tea.Msg)) {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		for {
			fn, ok := s.pop()
			if !ok {
				break
			}
			send(callbackMsg{fn: fn})
		}
	}
}

func (s *Scheduler) pop() (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, false
	}
	fn := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return fn, true
}
