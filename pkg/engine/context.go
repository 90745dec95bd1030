package engine

import (
	"context"
	"io"

	"src.nush.dev/pkg/ast"
)

// Evaluator evaluates expressions and blocks. It is implemented by package
// eval and lets declarations call back into the evaluator.
type Evaluator interface {
	EvalExpression(ctx *Context, e *ast.Expression, input any) (any, error)
	CallBlock(ctx *Context, b ast.BlockID, sig *ast.Signature, call *ast.Call, input any) (any, error)
}

// Context is what a command sees when it runs.
type Context struct {
	Evaluator
	Ctx    context.Context
	Engine *EngineState
	Stack  *Stack
	Stdout io.Writer
}

// WithStack returns a copy of the Context using another Stack.
func (ctx *Context) WithStack(s *Stack) *Context {
	c := *ctx
	c.Stack = s
	return &c
}

// Eval evaluates an expression with no input.
func (ctx *Context) Eval(e *ast.Expression) (any, error) {
	return ctx.EvalExpression(ctx, e, nil)
}
