package transport

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrMalformedURL      = errors.New("malformed url")
	ErrDecode            = errors.New("decode response")
)

// Error is a failure below the payload level: the request never left, the
// connection broke, or the body could not be read as the requested kind.
// Status is zero when no response line was received.
type Error struct {
	Status     int
	StatusText string
	Err        error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return fmt.Sprintf("transport: %d %s: %v", e.Status, e.StatusText, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
