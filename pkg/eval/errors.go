package eval

import (
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
)

// Error is an error that occurred during evaluation, with the span of the
// code that caused it.
type Error struct {
	Message string
	Span    diag.Span
	// The error returned by a command, if there is one.
	Cause error
}

func newError(msg string, span diag.Span) *Error {
	return &Error{Message: msg, Span: span}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Diag returns a diag.Error that shows the error with its source context.
func (e *Error) Diag(es *engine.EngineState) *diag.Error {
	return &diag.Error{Type: "eval error", Message: e.Message, Context: *es.ContextOf(e.Span)}
}
