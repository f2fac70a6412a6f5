package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// ErrorKindValidation is raised locally before any request is issued.
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindTransport covers open, network and decode failures.
	ErrorKindTransport ErrorKind = "transport"
	// ErrorKindSemantic is a well-formed response carrying success=false.
	ErrorKindSemantic ErrorKind = "semantic"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrKeyNotFound     = errors.New("key not found")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidKind     = errors.New("invalid transaction type")
)

type Error struct {
	Kind   ErrorKind
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Detail != "" {
		if msg != "" {
			msg += ": "
		}
		msg += e.Detail
	}
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	if msg == "" {
		return string(e.Kind) + " error"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(op, detail string) *Error {
	return &Error{Kind: ErrorKindValidation, Op: op, Detail: detail}
}

func NewSemanticError(op, detail string) *Error {
	if detail == "" {
		detail = "request was not successful"
	}
	return &Error{Kind: ErrorKindSemantic, Op: op, Detail: detail}
}

func NewTransportError(op string, err error) *Error {
	return &Error{Kind: ErrorKindTransport, Op: op, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain. Errors that
// never passed through this package are treated as transport failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ErrorKindTransport
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func (k ErrorKind) Label() string {
	switch k {
	case ErrorKindValidation:
		return "invalid input"
	case ErrorKindTransport:
		return "network error"
	case ErrorKindSemantic:
		return "rejected"
	default:
		return fmt.Sprintf("error (%s)", string(k))
	}
}
