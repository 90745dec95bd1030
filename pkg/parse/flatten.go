package parse

import (
	"fmt"

	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
)

// ShapeKind is the lexical role of a span.
type ShapeKind int

// Kinds of shapes.
const (
	ShapeGarbage ShapeKind = iota
	ShapeBool
	ShapeInt
	ShapeFloat
	ShapeRange
	ShapeInternalCall
	ShapeExternal
	ShapeExternalArg
	ShapeLiteral
	ShapeOperator
	ShapeSignature
	ShapeString
	ShapeFilepath
	ShapeGlobPattern
	ShapeVariable
	ShapeCustom
)

var shapeKindNames = [...]string{
	ShapeGarbage:      "garbage",
	ShapeBool:         "bool",
	ShapeInt:          "int",
	ShapeFloat:        "float",
	ShapeRange:        "range",
	ShapeInternalCall: "internalcall",
	ShapeExternal:     "external",
	ShapeExternalArg:  "externalarg",
	ShapeLiteral:      "literal",
	ShapeOperator:     "operator",
	ShapeSignature:    "signature",
	ShapeString:       "string",
	ShapeFilepath:     "filepath",
	ShapeGlobPattern:  "globpattern",
	ShapeVariable:     "variable",
	ShapeCustom:       "custom",
}

func (k ShapeKind) String() string { return shapeKindNames[k] }

// FlatShape is the shape of a span. Custom is the completion expression of
// a ShapeCustom.
type FlatShape struct {
	Kind   ShapeKind
	Custom string
}

func (s FlatShape) String() string {
	if s.Kind == ShapeCustom {
		return fmt.Sprintf("custom(%s)", s.Custom)
	}
	return s.Kind.String()
}

// Flat is a span tagged with its shape.
type Flat struct {
	Span  diag.Span
	Shape FlatShape
}

func flat(span diag.Span, k ShapeKind) Flat {
	return Flat{span, FlatShape{Kind: k}}
}

// FlattenBlock returns the shapes of all statements in a block, in source
// order.
func FlattenBlock(ws *engine.StateWorkingSet, b *ast.Block) []Flat {
	var out []Flat
	for _, stmt := range b.Stmts {
		out = append(out, FlattenStatement(ws, stmt)...)
	}
	return out
}

// FlattenStatement returns the shapes of a statement.
func FlattenStatement(ws *engine.StateWorkingSet, stmt ast.Statement) []Flat {
	switch stmt := stmt.(type) {
	case *ast.Pipeline:
		return FlattenPipeline(ws, stmt)
	default:
		panic(fmt.Sprintf("flatten: unhandled statement %T", stmt))
	}
}

// FlattenPipeline returns the shapes of the expressions of a pipeline.
func FlattenPipeline(ws *engine.StateWorkingSet, p *ast.Pipeline) []Flat {
	var out []Flat
	for _, expr := range p.Exprs {
		out = append(out, FlattenExpression(ws, expr)...)
	}
	return out
}

// FlattenExpression returns the shapes of an expression. Named arguments of
// calls are not included. It panics on Expr types it does not know.
func FlattenExpression(ws *engine.StateWorkingSet, e *ast.Expression) []Flat {
	if e.CustomCompletion != "" {
		return []Flat{{e.Span, FlatShape{ShapeCustom, e.CustomCompletion}}}
	}

	switch x := e.Expr.(type) {
	case *ast.Garbage:
		return []Flat{flat(e.Span, ShapeGarbage)}
	case *ast.Bool:
		return []Flat{flat(e.Span, ShapeBool)}
	case *ast.Int:
		return []Flat{flat(e.Span, ShapeInt)}
	case *ast.Float:
		return []Flat{flat(e.Span, ShapeFloat)}
	case *ast.String:
		return []Flat{flat(e.Span, ShapeString)}
	case *ast.Filepath:
		return []Flat{flat(e.Span, ShapeFilepath)}
	case *ast.GlobPattern:
		return []Flat{flat(e.Span, ShapeGlobPattern)}
	case *ast.SignatureExpr:
		return []Flat{flat(e.Span, ShapeSignature)}
	case *ast.Var:
		return []Flat{flat(e.Span, ShapeVariable)}
	case *ast.OperatorExpr:
		return []Flat{flat(e.Span, ShapeOperator)}
	case *ast.BinaryOp:
		out := FlattenExpression(ws, x.LHS)
		out = append(out, FlattenExpression(ws, x.Op)...)
		return append(out, FlattenExpression(ws, x.RHS)...)
	case *ast.Range:
		var out []Flat
		if x.From != nil {
			out = append(out, FlattenExpression(ws, x.From)...)
		}
		if x.Next != nil {
			out = append(out, flat(x.Op.NextOpSpan, ShapeOperator))
			out = append(out, FlattenExpression(ws, x.Next)...)
		}
		out = append(out, flat(x.Op.Span, ShapeOperator))
		if x.To != nil {
			out = append(out, FlattenExpression(ws, x.To)...)
		}
		return out
	case *ast.Keyword:
		out := []Flat{flat(x.Span, ShapeOperator)}
		return append(out, FlattenExpression(ws, x.Expr)...)
	case *ast.CallExpr:
		out := []Flat{flat(x.Call.Head, ShapeInternalCall)}
		for _, arg := range x.Call.Positional {
			out = append(out, FlattenExpression(ws, arg)...)
		}
		return out
	case *ast.ExternalCall:
		out := []Flat{flat(x.Name, ShapeExternal)}
		for _, arg := range x.Args {
			out = append(out, flat(arg, ShapeExternalArg))
		}
		return out
	case *ast.BlockExpr:
		return FlattenBlock(ws, ws.GetBlock(x.ID))
	case *ast.Subexpression:
		return FlattenBlock(ws, ws.GetBlock(x.ID))
	case *ast.FullCellPath:
		out := FlattenExpression(ws, x.Head)
		for _, m := range x.Tail {
			switch m.Kind {
			case ast.StringMember:
				out = append(out, flat(m.Span, ShapeString))
			case ast.IntMember:
				out = append(out, flat(m.Span, ShapeInt))
			}
		}
		return out
	case *ast.List:
		var out []Flat
		for _, elem := range x.Elems {
			out = append(out, FlattenExpression(ws, elem)...)
		}
		return out
	case *ast.Table:
		var out []Flat
		for _, h := range x.Headers {
			out = append(out, FlattenExpression(ws, h)...)
		}
		for _, row := range x.Rows {
			for _, cell := range row {
				out = append(out, FlattenExpression(ws, cell)...)
			}
		}
		return out
	case *ast.RowCondition:
		return FlattenExpression(ws, x.Expr)
	default:
		panic(fmt.Sprintf("flatten: unhandled expression %T", e.Expr))
	}
}
