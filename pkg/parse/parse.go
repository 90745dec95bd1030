// Package parse implements the parser.
//
// Source text goes through three stages. Lex splits it into tokens,
// LiteParse groups the tokens into commands and pipelines, and the parsing
// functions in this package turn the commands into an AST while recording
// declarations, blocks, variables, aliases and modules in a working set.
//
// Parsing is error-tolerant: every parsing function returns a best-effort
// AST together with the earliest error it encountered, so that later stages
// like completion can still work on incomplete code.
package parse

import (
	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
)

// Parse adds src as a new file named fname to the working set, and parses
// it. If scoped is true, definitions are made in a new scope that is exited
// at the end. The returned error, if not nil, has type *Error.
func Parse(ws *engine.StateWorkingSet, fname string, src []byte, scoped bool) (*ast.Block, error) {
	offset := ws.AddFile(fname, src)
	tokens, err := Lex(src, offset, nil, nil)
	lite, e := LiteParse(tokens)
	err = firstErr(err, e)
	block, e := ParseBlock(ws, lite, scoped)
	err = firstErr(err, e)
	return block, asError(err)
}

// ParseBlock parses the pipelines of a lite block. Every single-command
// pipeline is offered to ParseDefPredecl before any pipeline is parsed, so
// that commands defined in the block can be called anywhere in it.
func ParseBlock(ws *engine.StateWorkingSet, lite LiteBlock, scoped bool) (*ast.Block, *Error) {
	if scoped {
		ws.EnterScope()
		defer ws.ExitScope()
	}
	for _, pipeline := range lite.Block {
		if len(pipeline.Commands) == 1 {
			ParseDefPredecl(ws, pipeline.Commands[0].Parts)
		}
	}

	var err *Error
	block := &ast.Block{}
	for _, pipeline := range lite.Block {
		if len(pipeline.Commands) == 1 {
			stmt, e := ParseStatement(ws, pipeline.Commands[0].Parts)
			err = firstErr(err, e)
			block.Stmts = append(block.Stmts, stmt)
			continue
		}
		p := &ast.Pipeline{}
		for _, cmd := range pipeline.Commands {
			expr, e := ParseExpression(ws, cmd.Parts)
			err = firstErr(err, e)
			p.Exprs = append(p.Exprs, expr)
		}
		block.Stmts = append(block.Stmts, p)
	}
	return block, err
}

// ParseStatement parses a command that makes up a pipeline on its own. The
// keyword forms are dispatched to their own parsers.
func ParseStatement(ws *engine.StateWorkingSet, spans []diag.Span) (ast.Statement, *Error) {
	switch string(ws.GetSpanContents(spans[0])) {
	case "def":
		return ParseDef(ws, spans)
	case "let":
		return ParseLet(ws, spans)
	case "alias":
		return ParseAlias(ws, spans)
	case "module":
		return ParseModule(ws, spans)
	case "use":
		return ParseUse(ws, spans)
	}
	expr, err := ParseExpression(ws, spans)
	return ast.PipelineOf(expr), err
}

// Garbage returns an expression standing for text that could not be parsed.
func Garbage(span diag.Span) *ast.Expression {
	return &ast.Expression{Expr: &ast.Garbage{}, Span: span, Type: ast.TypeUnknown}
}

// GarbageStatement returns a statement standing for a command that could not
// be parsed.
func GarbageStatement(spans []diag.Span) ast.Statement {
	return ast.PipelineOf(Garbage(diag.SpanOf(spans)))
}
