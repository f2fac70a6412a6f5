package ports

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"
)

type ResponseKind string

const (
	ResponseJSON ResponseKind = "json"
	ResponseText ResponseKind = "text"
)

// Pair is one entry of a request data bag. Bags are ordered and may hold
// the same key more than once.
type Pair struct {
	Key   string
	Value string
}

type Values []Pair

func (v Values) Add(key, value string) Values {
	return append(v, Pair{Key: key, Value: value})
}

// Get returns the first value stored for key.
func (v Values) Get(key string) string {
	for _, pair := range v {
		if pair.Key == key {
			return pair.Value
		}
	}
	return ""
}

type Request struct {
	URL          string
	Method       string
	Header       http.Header
	Data         Values
	ResponseKind ResponseKind
}

type Response struct {
	Status     int
	StatusText string
	Header     http.Header
	Body       []byte
}

func (r *Response) JSON() gjson.Result {
	if r == nil {
		return gjson.Result{}
	}
	return gjson.ParseBytes(r.Body)
}

func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Callback receives exactly one terminal result per Send.
type Callback func(resp *Response, err error)

type Transport interface {
	Send(ctx context.Context, req Request, cb Callback)
}

// Scheduler runs fn on the callback loop.
type Scheduler interface {
	Post(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

func (f SchedulerFunc) Post(fn func()) {
	f(fn)
}
