package searchq

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrConfig     ErrorKind = "config"
	ErrValidation ErrorKind = "validation"
	ErrSQL        ErrorKind = "sql"
	ErrIO         ErrorKind = "io"
)

// Error is the package error type: a kind for programmatic handling, a
// message, the offending column when there is one, and an optional cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Column  string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Column != "" {
		base = fmt.Sprintf("%s (column=%s)", base, e.Column)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func ConfigError(msg string) *Error {
	return &Error{Kind: ErrConfig, Message: msg}
}

func ConfigColumnError(column, msg string) *Error {
	return &Error{Kind: ErrConfig, Column: column, Message: msg}
}

func ValidationError(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
