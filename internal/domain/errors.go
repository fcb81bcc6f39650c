package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal error")
)

// Error carries a kind, a caller-safe message and the underlying cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Fail(kind error, msg string) error { return &Error{Kind: kind, Msg: msg} }

func Internal(msg string, err error) error { return &Error{Kind: ErrInternal, Msg: msg, Err: err} }

func Unauthenticated(msg string) error { return Fail(ErrUnauthenticated, msg) }
func Forbidden(msg string) error       { return Fail(ErrForbidden, msg) }
func InvalidInput(msg string) error    { return Fail(ErrInvalidInput, msg) }
func NotFound(msg string) error        { return Fail(ErrNotFound, msg) }
func Conflict(msg string) error        { return Fail(ErrConflict, msg) }

// KindOf reports the error kind, treating anything unclassified as internal.
func KindOf(err error) error {
	for _, k := range []error{ErrUnauthenticated, ErrForbidden, ErrInvalidInput, ErrNotFound, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// Message returns the caller-safe message of err.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != ErrInternal && de.Msg != "" {
		return de.Msg
	}
	return KindOf(err).Error()
}
