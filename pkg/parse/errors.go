package parse

import (
	"fmt"

	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
)

// ErrorKind classifies parse errors.
type ErrorKind int

// Kinds of parse errors.
const (
	// An internal inconsistency, or input of a shape the parser does not
	// handle at all.
	UnknownState ErrorKind = iota
	Expected
	Unclosed
	MissingPositional
	ModuleNotFound
	ExportNotFound
	VariableNotFound
	ExtraPositional
	UnknownFlag
)

// Error is a parse error. What is the name of the thing that was expected,
// unclosed or missing, or a message for UnknownState.
type Error struct {
	Kind ErrorKind
	What string
	Span diag.Span
}

func newError(kind ErrorKind, what string, span diag.Span) *Error {
	return &Error{kind, what, span}
}

// Message returns a message describing the error, without the span.
func (e *Error) Message() string {
	switch e.Kind {
	case Expected:
		return "expected " + e.What
	case Unclosed:
		return "unclosed " + e.What
	case MissingPositional:
		return "missing " + e.What
	case ModuleNotFound:
		return "module not found"
	case ExportNotFound:
		return "export not found"
	case VariableNotFound:
		return "variable not found"
	case ExtraPositional:
		return "extra positional argument"
	case UnknownFlag:
		return "unknown flag " + e.What
	default:
		return e.What
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error: %d-%d: %s", e.Span.Start, e.Span.End, e.Message())
}

// Diag returns a diag.Error that shows the error with its source context.
func (e *Error) Diag(ws *engine.StateWorkingSet) *diag.Error {
	return &diag.Error{
		Type: "parse error", Message: e.Message(), Context: *ws.ContextOf(e.Span)}
}

// Returns err if it is not nil, and more otherwise. Errors are accumulated
// this way so that the earliest one wins.
func firstErr(err, more *Error) *Error {
	if err != nil {
		return err
	}
	return more
}

// Converts a *Error to an error, keeping nil as nil.
func asError(err *Error) error {
	if err == nil {
		return nil
	}
	return err
}
