package sqlitec

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every *Error unwraps to exactly one of them, so callers can
// use errors.Is to tell failures apart.
var (
	// ErrOpen is returned when a connection cannot be opened or configured.
	ErrOpen = errors.New("failed to open database")

	// ErrPrepare is returned when SQL text cannot be compiled.
	ErrPrepare = errors.New("failed to prepare statement")

	// ErrBinding is returned when a value cannot be bound to a parameter,
	// typically because the index is out of range.
	ErrBinding = errors.New("failed to bind parameter")

	// ErrStep is returned when stepping a statement reports anything other
	// than a new row or completion.
	ErrStep = errors.New("failed to step statement")

	// ErrUnexpectedResult is returned by Execute when the statement produced
	// a row.
	ErrUnexpectedResult = errors.New("statement unexpectedly returned a row")
)

// Error is a failure reported by the SQLite engine.
type Error struct {
	// Kind is one of the Err* values of this package.
	Kind error
	// Code is the SQLite result code, extended when available.
	Code int
	// Message is the engine's description of Code, followed by the
	// connection's detailed message when it adds information.
	Message string
	// SQL is the statement text, when the failure concerns a statement.
	SQL string
	// StatementID is the id of the failing statement, zero otherwise.
	StatementID uint64
}

func (e *Error) Error() string {
	sb := strings.Builder{}
	sb.WriteString(e.Kind.Error())
	if e.StatementID != 0 {
		fmt.Fprintf(&sb, " #%d", e.StatementID)
	}
	if e.Message != "" {
		fmt.Fprintf(&sb, ": %s", e.Message)
	}
	if e.Code != 0 {
		fmt.Fprintf(&sb, " (%d)", e.Code)
	}
	if e.SQL != "" {
		fmt.Fprintf(&sb, ": %q", e.SQL)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// PrimaryCode returns the primary result code, dropping the extended bits.
//
// https://www.sqlite.org/rescode.html#primary_result_codes_versus_extended_result_codes
func (e *Error) PrimaryCode() int {
	return e.Code & 0xff
}
