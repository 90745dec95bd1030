package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"src.nush.dev/pkg/builtins"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/edit/complete"
	"src.nush.dev/pkg/engine"
	"src.nush.dev/pkg/eval"
	"src.nush.dev/pkg/eval/vals"
	"src.nush.dev/pkg/parse"
)

// Session keeps the state of a shell session: the engine state holding the
// definitions made so far, and the values of variables.
type Session struct {
	shared    *engine.Shared
	stack     *engine.Stack
	stdout    io.Writer
	completer *complete.Completer
}

// NewSession creates a Session with only the builtin commands defined. Values
// of evaluated code are written to stdout.
func NewSession(stdout io.Writer, cfg complete.Config) *Session {
	shared := engine.NewShared(builtins.NewEngineState())
	return &Session{
		shared: shared, stack: engine.NewStack(), stdout: stdout,
		completer: complete.New(shared, cfg)}
}

// Shared returns the engine state handle of the session.
func (s *Session) Shared() *engine.Shared { return s.shared }

// Eval parses code as a new file called name and evaluates it. Definitions
// and variables from the code are kept only if both parsing and evaluation
// succeed. A non-nil value of the code is written to stdout. Errors with
// source context have type *diag.Error.
func (s *Session) Eval(ctx context.Context, name, code string) error {
	stack := s.stack.Child()
	err := s.shared.Update(func(es *engine.EngineState) error {
		ws := engine.NewWorkingSet(es)
		block, err := parse.Parse(ws, name, []byte(code), false)
		if err != nil {
			return showable(err, ws.ContextOf, ws)
		}
		es.MergeDelta(ws.Render())

		ectx := eval.NewContext(ctx, es, stack)
		ectx.Stdout = s.stdout
		v, err := eval.EvalBlock(ectx, block, nil)
		if err != nil {
			return showable(err, es.ContextOf, ws)
		}
		if v != nil {
			fmt.Fprintln(s.stdout, vals.ToString(v))
		}
		s.stack.Absorb(stack)
		return nil
	})
	if err != nil {
		logger.Printf("discarding %s: %v", name, err)
	}
	return err
}

// Converts parse and evaluation errors to *diag.Error.
func showable(err error, contextOf func(diag.Span) *diag.Context, ws *engine.StateWorkingSet) error {
	var parseErr *parse.Error
	var evalErr *eval.Error
	switch {
	case errors.As(err, &parseErr):
		return parseErr.Diag(ws)
	case errors.As(err, &evalErr):
		return &diag.Error{
			Type: "eval error", Message: evalErr.Message,
			Context: *contextOf(evalErr.Span)}
	}
	return err
}

// Check parses code as a new file called name without keeping any of its
// definitions, and returns the first parse error.
func (s *Session) Check(name, code string) error {
	var err error
	s.shared.Read(func(es *engine.EngineState) {
		ws := engine.NewWorkingSet(es)
		if _, e := parse.Parse(ws, name, []byte(code), false); e != nil {
			err = showable(e, ws.ContextOf, ws)
		}
	})
	return err
}

// Incomplete reports whether code stops in the middle of a string or a
// bracketed construct, so that more lines should be read before evaluating
// it.
func (s *Session) Incomplete(code string) bool {
	incomplete := false
	s.shared.Read(func(es *engine.EngineState) {
		ws := engine.NewWorkingSet(es)
		_, err := parse.Parse(ws, "[probe]", []byte(code), false)
		var parseErr *parse.Error
		if errors.As(err, &parseErr) && parseErr.Kind == parse.Unclosed {
			incomplete = parseErr.Span.End >= ws.NextSpanStart()
		}
	})
	return incomplete
}

// Shape is a span of code with the syntax shape the parser gave it. The span
// is relative to the start of the code.
type Shape struct {
	Span  diag.Span
	Shape string
	Text  string
}

// Shapes parses code without keeping any of its definitions, and returns the
// shapes of the spans that belong to it.
func (s *Session) Shapes(code string) []Shape {
	var shapes []Shape
	s.shared.Read(func(es *engine.EngineState) {
		ws := engine.NewWorkingSet(es)
		offset := ws.NextSpanStart()
		block, _ := parse.Parse(ws, "[shapes]", []byte(code), false)
		for _, flat := range parse.FlattenBlock(ws, block) {
			if flat.Span.Start < offset {
				continue
			}
			shapes = append(shapes, Shape{
				flat.Span.Shift(-offset), flat.Shape.String(),
				string(ws.GetSpanContents(flat.Span))})
		}
	})
	return shapes
}

// Complete returns completions for code with the cursor at byte offset pos.
func (s *Session) Complete(code string, pos int) []complete.Suggestion {
	return s.completer.Complete(code, pos)
}
