// Package portstest provides a scripted ports.Transport for tests that need
// to control when and in which order responses arrive.
package portstest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/bnema/fin/internal/ports"
)

type Call struct {
	Request ports.Request
	cb      ports.Callback
	done    bool
}

// Path returns the request path without query.
func (c *Call) Path() string {
	u, err := url.Parse(c.Request.URL)
	if err != nil {
		return c.Request.URL
	}
	return u.Path
}

// Transport queues every Send until the test resolves it. With Auto set,
// requests whose path has a scripted reply are answered immediately.
type Transport struct {
	mu      sync.Mutex
	calls   []*Call
	replies map[string]string
	Auto    bool
}

var _ ports.Transport = (*Transport)(nil)

func NewTransport() *Transport {
	return &Transport{replies: make(map[string]string)}
}

// Reply scripts the JSON body answered for path when Auto is set.
func (t *Transport) Reply(path, body string) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies[path] = body
	t.Auto = true
	return t
}

func (t *Transport) Send(_ context.Context, req ports.Request, cb ports.Callback) {
	call := &Call{Request: req, cb: cb}

	t.mu.Lock()
	t.calls = append(t.calls, call)
	body, scripted := t.replies[call.Path()]
	auto := t.Auto && scripted
	t.mu.Unlock()

	if auto {
		t.resolve(call, &ports.Response{Status: http.StatusOK, StatusText: "OK", Body: []byte(body)}, nil)
	}
}

func (t *Transport) Calls() []*Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Call(nil), t.calls...)
}

// Paths lists the request paths in send order.
func (t *Transport) Paths() []string {
	calls := t.Calls()
	paths := make([]string, 0, len(calls))
	for _, c := range calls {
		paths = append(paths, c.Path())
	}
	return paths
}

func (t *Transport) Pending() []*Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	var pending []*Call
	for _, c := range t.calls {
		if !c.done {
			pending = append(pending, c)
		}
	}
	return pending
}

// Respond answers call i with a 200 JSON body.
func (t *Transport) Respond(i int, body string) {
	t.resolve(t.call(i), &ports.Response{Status: http.StatusOK, StatusText: "OK", Body: []byte(body)}, nil)
}

// Fail answers call i with a transport error.
func (t *Transport) Fail(i int, err error) {
	t.resolve(t.call(i), nil, err)
}

// RespondPending answers the oldest pending call for path.
func (t *Transport) RespondPending(path, body string) {
	for _, c := range t.Pending() {
		if c.Path() == path {
			t.resolve(c, &ports.Response{Status: http.StatusOK, StatusText: "OK", Body: []byte(body)}, nil)
			return
		}
	}
	panic(fmt.Sprintf("portstest: no pending call for %s", path))
}

func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
}

func (t *Transport) call(i int) *Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.calls) {
		panic(fmt.Sprintf("portstest: no call %d (have %d)", i, len(t.calls)))
	}
	return t.calls[i]
}

func (t *Transport) resolve(c *Call, resp *ports.Response, err error) {
	t.mu.Lock()
	if c.done {
		t.mu.Unlock()
		panic("portstest: call resolved twice")
	}
	c.done = true
	t.mu.Unlock()

	c.cb(resp, err)
}
