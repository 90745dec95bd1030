// Package eval evaluates parsed code.
//
// The evaluator walks the AST directly. It understands literals, lists,
// tables, ranges of integers, variables, subexpressions, blocks and calls to
// declared commands. Binary operators and external commands are parsed but
// cannot be evaluated.
package eval

import (
	"context"
	"io"

	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/engine"
	"src.nush.dev/pkg/eval/vals"
)

// Calls nested deeper than this fail instead of exhausting the Go stack.
const maxCallDepth = 1000

type evaluator struct{}

var _ engine.Evaluator = evaluator{}

// NewContext returns a Context that evaluates against es, storing variables
// in stack. The output of commands is discarded until Stdout is set.
func NewContext(ctx context.Context, es *engine.EngineState, stack *engine.Stack) *engine.Context {
	return &engine.Context{
		Evaluator: evaluator{}, Ctx: ctx, Engine: es, Stack: stack, Stdout: io.Discard}
}

// EvalBlock evaluates all statements of a block and returns the value of the
// last one. Each pipeline feeds the value of an element to the next one as
// input.
func EvalBlock(ctx *engine.Context, b *ast.Block, input any) (any, error) {
	var last any
	for _, stmt := range b.Stmts {
		if err := ctx.Ctx.Err(); err != nil {
			return nil, err
		}
		p, ok := stmt.(*ast.Pipeline)
		if !ok {
			continue
		}
		v := input
		for _, e := range p.Exprs {
			var err error
			v, err = EvalExpression(ctx, e, v)
			if err != nil {
				return nil, err
			}
		}
		last = v
	}
	return last, nil
}

// EvalExpression evaluates a single expression.
func EvalExpression(ctx *engine.Context, e *ast.Expression, input any) (any, error) {
	switch expr := e.Expr.(type) {
	case *ast.Bool:
		return expr.Value, nil
	case *ast.Int:
		return expr.Value, nil
	case *ast.Float:
		return expr.Value, nil
	case *ast.String:
		return expr.Value, nil
	case *ast.Filepath:
		return expr.Value, nil
	case *ast.GlobPattern:
		return expr.Value, nil
	case *ast.Var:
		v, err := ctx.Stack.GetVar(expr.ID)
		if err != nil {
			return nil, newError(err.Error(), e.Span)
		}
		return v, nil
	case *ast.Keyword:
		return EvalExpression(ctx, expr.Expr, input)
	case *ast.List:
		values := make([]any, len(expr.Elems))
		for i, elem := range expr.Elems {
			v, err := EvalExpression(ctx, elem, nil)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return vals.MakeList(values...), nil
	case *ast.Table:
		return evalTable(ctx, expr)
	case *ast.Range:
		return evalRange(ctx, expr, e)
	case *ast.FullCellPath:
		return evalCellPath(ctx, expr, input)
	case *ast.CallExpr:
		return evalCall(ctx, expr.Call, input)
	case *ast.BlockExpr:
		return vals.Block{ID: expr.ID}, nil
	case *ast.Subexpression:
		return EvalBlock(ctx.WithStack(ctx.Stack.Child()), ctx.Engine.GetBlock(expr.ID), input)
	case *ast.SignatureExpr:
		return nil, nil
	case *ast.BinaryOp:
		return nil, newError("binary operators cannot be evaluated", e.Span)
	case *ast.ExternalCall:
		return nil, newError("external commands cannot be run", e.Span)
	case *ast.RowCondition:
		return nil, newError("row conditions cannot be evaluated", e.Span)
	case *ast.OperatorExpr:
		return nil, newError("unexpected operator", e.Span)
	default:
		return nil, newError("cannot evaluate malformed code", e.Span)
	}
}

func evalTable(ctx *engine.Context, t *ast.Table) (any, error) {
	headers := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		v, err := EvalExpression(ctx, h, nil)
		if err != nil {
			return nil, err
		}
		headers[i] = v
	}
	rows := []any{vals.MakeList(headers...)}
	for _, row := range t.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			v, err := EvalExpression(ctx, cell, nil)
			if err != nil {
				return nil, err
			}
			cells[i] = v
		}
		rows = append(rows, vals.MakeList(cells...))
	}
	return vals.MakeList(rows...), nil
}

func evalRange(ctx *engine.Context, r *ast.Range, e *ast.Expression) (any, error) {
	bound := func(b *ast.Expression, def int64) (int64, error) {
		if b == nil {
			return def, nil
		}
		v, err := EvalExpression(ctx, b, nil)
		if err != nil {
			return 0, err
		}
		i, ok := v.(int64)
		if !ok {
			return 0, newError("range bound must be int, got "+vals.Kind(v), b.Span)
		}
		return i, nil
	}
	from, err := bound(r.From, 0)
	if err != nil {
		return nil, err
	}
	if r.To == nil {
		return nil, newError("ranges without an upper bound cannot be evaluated", e.Span)
	}
	to, err := bound(r.To, 0)
	if err != nil {
		return nil, err
	}
	step := int64(1)
	if from > to {
		step = -1
	}
	if r.Next != nil {
		next, err := bound(r.Next, 0)
		if err != nil {
			return nil, err
		}
		step = next - from
		if step == 0 || (step > 0) != (from <= to) {
			return nil, newError("range step goes the wrong way", e.Span)
		}
	}
	inclusive := r.Op.Inclusion == ast.Inclusive
	l := vals.EmptyList
	for i := from; ; i += step {
		if step > 0 && (i > to || i == to && !inclusive) ||
			step < 0 && (i < to || i == to && !inclusive) {
			break
		}
		if err := ctx.Ctx.Err(); err != nil {
			return nil, err
		}
		l = l.Cons(i)
	}
	return l, nil
}

func evalCellPath(ctx *engine.Context, p *ast.FullCellPath, input any) (any, error) {
	v, err := EvalExpression(ctx, p.Head, input)
	if err != nil {
		return nil, err
	}
	for _, m := range p.Tail {
		if m.Kind != ast.IntMember {
			return nil, newError("no such field: "+string(m.Str), m.Span)
		}
		l, ok := v.(vals.List)
		if !ok {
			return nil, newError("cannot index "+vals.Kind(v), m.Span)
		}
		elem, ok := l.Index(int(m.Int))
		if !ok {
			return nil, newError("index out of range", m.Span)
		}
		v = elem
	}
	return v, nil
}

func evalCall(ctx *engine.Context, call *ast.Call, input any) (any, error) {
	d := ctx.Engine.GetDecl(call.Decl)
	v, err := d.Run(ctx, call, input)
	if err != nil {
		if _, ok := err.(*Error); ok {
			return nil, err
		}
		return nil, &Error{Message: err.Error(), Span: call.Head, Cause: err}
	}
	return v, nil
}

func (evaluator) EvalExpression(ctx *engine.Context, e *ast.Expression, input any) (any, error) {
	return EvalExpression(ctx, e, input)
}

// CallBlock binds the arguments of call to the parameters declared in sig in
// a new stack frame, and evaluates the block there.
func (evaluator) CallBlock(ctx *engine.Context, id ast.BlockID, sig *ast.Signature, call *ast.Call, input any) (any, error) {
	if ctx.Stack.Depth() >= maxCallDepth {
		return nil, newError("call depth exceeded", call.Head)
	}
	callee := ctx.Stack.Child()
	var rest []any
	for i, arg := range call.Positional {
		v, err := EvalExpression(ctx, arg, nil)
		if err != nil {
			return nil, err
		}
		if i >= sig.NumPositionals() {
			rest = append(rest, v)
			continue
		}
		if p := sig.PositionalAt(i); p.Var != ast.NoVar {
			callee.AddVar(p.Var, v)
		}
	}
	for i := len(call.Positional); i < sig.NumPositionals(); i++ {
		if p := sig.PositionalAt(i); p.Var != ast.NoVar {
			callee.AddVar(p.Var, nil)
		}
	}
	if sig.Rest != nil && sig.Rest.Var != ast.NoVar {
		callee.AddVar(sig.Rest.Var, vals.MakeList(rest...))
	}
	for _, f := range sig.Named {
		if f.Var == ast.NoVar {
			continue
		}
		name := f.Long
		if name == "" {
			name = string(f.Short)
		}
		ok := call.HasFlag(name)
		arg := call.GetNamed(name)
		switch {
		case !ok && f.Arg == nil:
			callee.AddVar(f.Var, false)
		case !ok:
			callee.AddVar(f.Var, nil)
		case arg == nil:
			callee.AddVar(f.Var, true)
		default:
			v, err := EvalExpression(ctx, arg, nil)
			if err != nil {
				return nil, err
			}
			callee.AddVar(f.Var, v)
		}
	}
	return EvalBlock(ctx.WithStack(callee), ctx.Engine.GetBlock(id), input)
}
