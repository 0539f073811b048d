package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures so handlers can pick a status code and the admin
// UI can tell a retryable transport problem from a bad request.
type Kind int

const (
	Validation Kind = iota // blank or malformed input, block locally
	Network                // transport failure or timeout, retryable
	Service                // collaborator answered non-2xx, retryable
	NotFound               // no bundle/plan/batch for the key
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, defaulting to Service for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Service
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status the handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Network:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
