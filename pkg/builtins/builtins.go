// Package builtins contains the commands that are declared in every engine
// state.
package builtins

import (
	"errors"
	"os"

	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/engine"
	"src.nush.dev/pkg/eval/vals"
	"src.nush.dev/pkg/fsutil"
)

// A command implemented in Go.
type builtin struct {
	sig *ast.Signature
	run func(ctx *engine.Context, call *ast.Call, input any) (any, error)
}

var _ engine.Decl = (*builtin)(nil)

func (b *builtin) Name() string                 { return b.sig.Name }
func (b *builtin) Signature() *ast.Signature    { return b.sig }
func (b *builtin) Usage() string                { return b.sig.Usage }
func (b *builtin) IsPredeclared() bool          { return false }
func (b *builtin) BlockID() (ast.BlockID, bool) { return 0, false }

func (b *builtin) Run(ctx *engine.Context, call *ast.Call, input any) (any, error) {
	return b.run(ctx, call, input)
}

// The keyword commands take effect when parsed.
func nop(*engine.Context, *ast.Call, any) (any, error) { return nil, nil }

var (
	anyShape    = ast.ShapeOf(ast.ShapeAny)
	stringShape = ast.ShapeOf(ast.ShapeString)
	blockShape  = ast.ShapeOf(ast.ShapeBlock)
	assignment  = ast.KeywordShape("=", ast.ShapeOf(ast.ShapeExpression))
)

func decls() []*builtin {
	return []*builtin{
		{ast.NewSignature("def").Desc("Define a custom command.").
			AddRequired("def_name", stringShape, "definition name").
			AddRequired("params", ast.ShapeOf(ast.ShapeSignature), "parameters").
			AddRequired("block", blockShape, "body of the definition"), nop},
		{ast.NewSignature("alias").Desc("Alias a command to an expansion.").
			AddRequired("name", stringShape, "name of the alias").
			AddRequired("initial_value", assignment, "equals sign followed by the expansion"), nop},
		{ast.NewSignature("module").Desc("Define a module of custom commands.").
			AddRequired("module_name", stringShape, "module name").
			AddRequired("block", blockShape, "body of the module"), nop},
		{ast.NewSignature("use").Desc("Use definitions from a module.").
			AddRequired("pattern", ast.ShapeOf(ast.ShapeImportPattern), "import pattern"), nop},
		{ast.NewSignature("let").Desc("Create a variable and give it a value.").
			AddRequired("var_name", ast.ShapeOf(ast.ShapeVarWithOptType), "variable name").
			AddRequired("initial_value", assignment, "equals sign followed by value"), let},
		{ast.NewSignature("echo").Desc("Output the arguments.").
			SetRest("rest", anyShape, "values to output"), echo},
		{ast.NewSignature("cd").Desc("Change the working directory.").
			AddOptional("path", ast.ShapeOf(ast.ShapeFilepath), "the directory; defaults to home"), cd},
	}
}

// NewEngineState returns an EngineState in which the builtin commands are
// declared.
func NewEngineState() *engine.EngineState {
	es := engine.NewEngineState()
	ws := engine.NewWorkingSet(es)
	for _, d := range decls() {
		ws.AddDecl(d)
	}
	es.MergeDelta(ws.Render())
	return es
}

func let(ctx *engine.Context, call *ast.Call, _ any) (any, error) {
	id, ok := call.Positional[0].AsVar()
	if !ok {
		return nil, errors.New("let: expected variable")
	}
	v, err := ctx.Eval(call.Positional[1])
	if err != nil {
		return nil, err
	}
	ctx.Stack.AddVar(id, v)
	return nil, nil
}

func echo(ctx *engine.Context, call *ast.Call, _ any) (any, error) {
	values := make([]any, len(call.Positional))
	for i, arg := range call.Positional {
		v, err := ctx.Eval(arg)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	if len(values) == 1 {
		return values[0], nil
	}
	return vals.MakeList(values...), nil
}

func cd(ctx *engine.Context, call *ast.Call, _ any) (any, error) {
	var dir string
	if len(call.Positional) > 0 {
		v, err := ctx.Eval(call.Positional[0])
		if err != nil {
			return nil, err
		}
		s, err := vals.AsString(v)
		if err != nil {
			return nil, err
		}
		dir = fsutil.ExpandPath(s)
	} else {
		home, err := fsutil.GetHome("")
		if err != nil {
			return nil, err
		}
		dir = home
	}
	if dir == "" {
		return nil, errors.New("cd: cannot expand path")
	}
	return nil, os.Chdir(dir)
}
