// Package bberrors provides structured errors for the ambient layers around
// the search core (CLI, configuration, result store, IR export). The search
// step loop itself never returns a Go error; it returns the result enum
// described by internal/exec.
package bberrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an ambient-layer error.
type Kind string

const (
	ConfigError Kind = "ConfigError"
	StoreError  Kind = "StoreError"
	ExportError Kind = "ExportError"
	EncodeError Kind = "EncodeError"
)

// BBError is a structured error carrying a Kind and an optional location
// within the program grid that triggered it.
type BBError struct {
	Kind    Kind
	Message string
	Col     int
	Row     int
	hasLoc  bool
	cause   error
}

func (e *BBError) Error() string {
	if e.hasLoc {
		return fmt.Sprintf("%s: %s (at col=%d, row=%d)", e.Kind, e.Message, e.Col, e.Row)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *BBError) Unwrap() error { return e.cause }

// New builds a BBError with a stack-capturing cause via pkg/errors. The
// BBError itself prints only its message; the cause, reached through
// Unwrap, prints its stack trace with %+v.
func New(kind Kind, format string, args ...interface{}) *BBError {
	msg := fmt.Sprintf(format, args...)
	return &BBError{Kind: kind, Message: msg, cause: errors.New(msg)}
}

// At attaches the grid cell associated with the error.
func (e *BBError) At(col, row int) *BBError {
	e.Col, e.Row = col, row
	e.hasLoc = true
	return e
}

// Wrap annotates err with a BBError of the given kind, preserving the
// original cause's stack trace.
func Wrap(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	return &BBError{Kind: kind, Message: message, cause: errors.Wrap(err, message)}
}
