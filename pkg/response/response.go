package response

import (
	"errors"
)

type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{code, errors.New(err)}
}

// Wrap keeps the sentinel's code and message for callers and errors.Is,
// and carries cause for logging.
func Wrap(sentinel error, cause error) error {
	var e *Error
	if !errors.As(sentinel, &e) {
		return sentinel
	}
	return &Error{Code: e.Code, Err: &causeError{msg: e.Err.Error(), cause: cause}}
}

type causeError struct {
	msg   string
	cause error
}

func (c *causeError) Error() string {
	return c.msg
}

func (c *causeError) Unwrap() error {
	return c.cause
}
