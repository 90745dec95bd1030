package parse

import (
	"bytes"
	"strings"

	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
)

// ParseSignature parses a parameter list like
//
//	[x: int, y?: string, ...rest, --flag(-f): path # description]
//
// Every parameter is added as a variable in the current scope, so callers
// that parse a body after the signature should enter a scope first.
func ParseSignature(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	b := ws.GetSpanContents(span)
	var err *Error
	inner := span
	if bytes.HasPrefix(b, []byte("[")) {
		inner.Start++
	} else {
		err = newError(Expected, "[", span)
	}
	if len(b) > 1 && bytes.HasSuffix(b, []byte("]")) {
		inner.End--
	} else {
		err = firstErr(err, newError(Unclosed, "]", diag.PointSpan(span.End)))
	}
	sig, e := parseSignatureInner(ws, inner)
	return &ast.Expression{
		Expr: &ast.SignatureExpr{Sig: sig}, Span: span, Type: ast.TypeSignature}, firstErr(err, e)
}

// Which parameter a type annotation or a comment applies to.
type paramRef struct {
	kind  int
	index int
}

const (
	refNone = iota
	refRequired
	refOptional
	refRest
	refFlag
)

func parseSignatureInner(ws *engine.StateWorkingSet, span diag.Span) (*ast.Signature, *Error) {
	sig := &ast.Signature{}
	tokens, err := Lex(ws.GetSpanContents(span), span.Start, []byte{'\n', ','}, []byte{':'})

	var last paramRef
	expectingType := false
	varOf := func(ref paramRef) ast.VarID {
		switch ref.kind {
		case refRequired:
			return sig.Required[ref.index].Var
		case refOptional:
			return sig.Optional[ref.index].Var
		case refRest:
			return sig.Rest.Var
		case refFlag:
			return sig.Named[ref.index].Var
		}
		return ast.NoVar
	}
	setShape := func(ref paramRef, shape ast.SyntaxShape) {
		switch ref.kind {
		case refRequired:
			sig.Required[ref.index].Shape = shape
		case refOptional:
			sig.Optional[ref.index].Shape = shape
		case refRest:
			sig.Rest.Shape = shape
		case refFlag:
			sig.Named[ref.index].Arg = &shape
		}
		ws.SetVariableType(varOf(ref), shape.Type())
	}
	setDesc := func(ref paramRef, desc string) {
		switch ref.kind {
		case refRequired:
			sig.Required[ref.index].Desc = desc
		case refOptional:
			sig.Optional[ref.index].Desc = desc
		case refRest:
			sig.Rest.Desc = desc
		case refFlag:
			sig.Named[ref.index].Desc = desc
		}
	}
	positional := func(name []byte, tokSpan diag.Span) (ast.PositionalArg, *Error) {
		if !isVarName(name) {
			return ast.PositionalArg{Var: ast.NoVar}, newError(Expected, "parameter name", tokSpan)
		}
		id := ws.AddVariable(name, ast.TypeUnknown)
		return ast.PositionalArg{Name: string(name), Shape: ast.ShapeOf(ast.ShapeAny), Var: id}, nil
	}

	for _, tok := range tokens {
		b := ws.GetSpanContents(tok.Span)
		switch tok.Kind {
		case TokenComment:
			setDesc(last, strings.TrimSpace(string(b[1:])))
			continue
		case TokenItem:
		default:
			err = firstErr(err, newError(Expected, "parameter", tok.Span))
			continue
		}

		if expectingType {
			shape, e := ParseShapeName(ws, b, tok.Span)
			err = firstErr(err, e)
			setShape(last, shape)
			expectingType = false
			continue
		}
		if string(b) == ":" {
			if last.kind == refNone {
				err = firstErr(err, newError(Expected, "parameter", tok.Span))
			} else {
				expectingType = true
			}
			continue
		}

		switch {
		case bytes.HasPrefix(b, []byte("--")):
			long, short := b[2:], rune(0)
			if i := bytes.IndexByte(long, '('); i >= 0 {
				s := long[i+1:]
				if len(s) == 3 && s[0] == '-' && s[2] == ')' {
					short = rune(s[1])
				} else {
					err = firstErr(err, newError(Expected, "short flag", tok.Span))
				}
				long = long[:i]
			}
			if !isVarName(long) {
				err = firstErr(err, newError(Expected, "flag name", tok.Span))
				continue
			}
			id := ws.AddVariable(bytes.ReplaceAll(long, []byte("-"), []byte("_")), ast.TypeBool)
			sig.Named = append(sig.Named, ast.Flag{Long: string(long), Short: short, Var: id})
			last = paramRef{refFlag, len(sig.Named) - 1}
		case len(b) == 2 && b[0] == '-':
			id := ws.AddVariable(b[1:], ast.TypeBool)
			sig.Named = append(sig.Named, ast.Flag{Short: rune(b[1]), Var: id})
			last = paramRef{refFlag, len(sig.Named) - 1}
		case bytes.HasPrefix(b, []byte("...")):
			p, e := positional(b[3:], tok.Span)
			err = firstErr(err, e)
			sig.Rest = &p
			last = paramRef{refRest, 0}
		case bytes.HasSuffix(b, []byte("?")):
			p, e := positional(b[:len(b)-1], tok.Span)
			err = firstErr(err, e)
			sig.Optional = append(sig.Optional, p)
			last = paramRef{refOptional, len(sig.Optional) - 1}
		default:
			p, e := positional(b, tok.Span)
			err = firstErr(err, e)
			sig.Required = append(sig.Required, p)
			last = paramRef{refRequired, len(sig.Required) - 1}
		}
	}
	if expectingType {
		err = firstErr(err, newError(MissingPositional, "type", diag.PointSpan(span.End)))
	}
	return sig, err
}

var shapeNames = map[string]ast.ShapeKind{
	"any":       ast.ShapeAny,
	"block":     ast.ShapeBlock,
	"bool":      ast.ShapeBoolean,
	"cond":      ast.ShapeRowCondition,
	"expr":      ast.ShapeExpression,
	"glob":      ast.ShapeGlobPattern,
	"int":       ast.ShapeInt,
	"number":    ast.ShapeNumber,
	"operator":  ast.ShapeOperator,
	"path":      ast.ShapeFilepath,
	"range":     ast.ShapeRange,
	"signature": ast.ShapeSignature,
	"string":    ast.ShapeString,
	"table":     ast.ShapeTable,
	"variable":  ast.ShapeVariable,
}

// ParseShapeName parses the name of a parameter type. A name followed by a
// command in parentheses, like string(names), attaches a custom completion.
// Unknown names parse as any, with an error.
func ParseShapeName(ws *engine.StateWorkingSet, b []byte, span diag.Span) (ast.SyntaxShape, *Error) {
	if i := bytes.IndexByte(b, '('); i > 0 && bytes.HasSuffix(b, []byte(")")) {
		inner, err := ParseShapeName(ws, b[:i], diag.Span{Start: span.Start, End: span.Start + i})
		return ast.CustomShape(inner, string(b[i+1:len(b)-1])), err
	}
	if string(b) == "list" {
		return ast.ListShape(ast.ShapeOf(ast.ShapeAny)), nil
	}
	if k, ok := shapeNames[string(b)]; ok {
		return ast.ShapeOf(k), nil
	}
	return ast.ShapeOf(ast.ShapeAny), newError(Expected, "type", span)
}
