package parse

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
)

// Bytes that start a math expression rather than a command.
const mathStarters = "0123456789$({[\"'`-"

// ParseExpression parses the parts of a command. Parts that start with a
// number, a variable, a bracket or a quote are parsed as a math expression;
// anything else is a call.
func ParseExpression(ws *engine.StateWorkingSet, spans []diag.Span) (*ast.Expression, *Error) {
	return parseExpression(ws, spans, true)
}

func parseExpression(ws *engine.StateWorkingSet, spans []diag.Span, expandAliases bool) (*ast.Expression, *Error) {
	if len(spans) == 0 {
		return Garbage(diag.Span{}), newError(MissingPositional, "expression", diag.Span{})
	}
	b := ws.GetSpanContents(spans[0])
	if len(b) > 0 && strings.IndexByte(mathStarters, b[0]) >= 0 {
		return ParseMathExpression(ws, spans)
	}
	return ParseCall(ws, spans, expandAliases)
}

// ParseCall parses a call. If expandAliases is true and the head names an
// alias, the head is replaced by the alias's replacement before parsing,
// and the result is parsed without further alias expansion.
//
// The longest run of leading words that names a declaration is the head of
// an internal call. If no declaration matches, the call is external.
func ParseCall(ws *engine.StateWorkingSet, spans []diag.Span, expandAliases bool) (*ast.Expression, *Error) {
	if expandAliases {
		if repl, ok := ws.FindAlias(ws.GetSpanContents(spans[0])); ok {
			expanded := append(append([]diag.Span(nil), repl...), spans[1:]...)
			expr, err := parseExpression(ws, expanded, false)
			expr.Span = diag.SpanOf(spans)
			return expr, err
		}
	}

	var (
		name    []byte
		declID  ast.DeclID
		nameLen int
	)
	for i, span := range spans {
		if i > 0 {
			name = append(name, ' ')
		}
		name = append(name, ws.GetSpanContents(span)...)
		if id, ok := ws.FindDecl(name); ok {
			declID, nameLen = id, i+1
		}
	}
	if nameLen == 0 {
		return ParseExternalCall(ws, spans), nil
	}
	call, span, err := ParseInternalCall(ws, diag.SpanOf(spans[:nameLen]), spans[nameLen:], declID)
	return &ast.Expression{Expr: &ast.CallExpr{Call: call}, Span: span, Type: ast.TypeUnknown}, err
}

// ParseExternalCall parses a call to a command that is not declared.
func ParseExternalCall(ws *engine.StateWorkingSet, spans []diag.Span) *ast.Expression {
	return &ast.Expression{
		Expr: &ast.ExternalCall{Name: spans[0], Args: append([]diag.Span(nil), spans[1:]...)},
		Span: diag.SpanOf(spans), Type: ast.TypeUnknown,
	}
}

// ParseInternalCall parses the arguments of a call to a declared command
// against its signature. It returns the call and the span covering the head
// and all arguments.
func ParseInternalCall(ws *engine.StateWorkingSet, head diag.Span, spans []diag.Span, id ast.DeclID) (*ast.Call, diag.Span, *Error) {
	sig := ws.GetDecl(id).Signature()
	call := &ast.Call{Head: head, Decl: id}
	span := head
	if len(spans) > 0 {
		span.End = spans[len(spans)-1].End
	}

	var err *Error
	positional := 0
	for i := 0; i < len(spans); i++ {
		arg := spans[i]
		b := ws.GetSpanContents(arg)

		if isLongFlag(b) {
			long := string(b[2:])
			flag := sig.FindLong(long)
			if flag == nil {
				err = firstErr(err, newError(UnknownFlag, "--"+long, arg))
				continue
			}
			named := ast.NamedArg{Name: long, Span: arg}
			if flag.Arg != nil {
				if i+1 < len(spans) {
					i++
					var e *Error
					named.Value, e = ParseValue(ws, spans[i], *flag.Arg)
					err = firstErr(err, e)
				} else {
					err = firstErr(err, newError(MissingPositional,
						"value of --"+long, diag.PointSpan(arg.End)))
				}
			}
			call.Named = append(call.Named, named)
			continue
		}

		if isShortFlags(b) {
			s := string(b[1:])
			for j, r := range s {
				flag := sig.FindShort(r)
				if flag == nil {
					err = firstErr(err, newError(UnknownFlag, "-"+string(r), arg))
					continue
				}
				named := ast.NamedArg{Name: flag.Long, Span: arg}
				if named.Name == "" {
					named.Name = string(r)
				}
				if flag.Arg != nil {
					// Only the last of a run of short flags may take a value.
					if j+utf8.RuneLen(r) == len(s) && i+1 < len(spans) {
						i++
						var e *Error
						named.Value, e = ParseValue(ws, spans[i], *flag.Arg)
						err = firstErr(err, e)
					} else {
						err = firstErr(err, newError(MissingPositional,
							"value of -"+string(r), diag.PointSpan(arg.End)))
					}
				}
				call.Named = append(call.Named, named)
			}
			continue
		}

		param := sig.PositionalAt(positional)
		if param == nil {
			err = firstErr(err, newError(ExtraPositional, "", arg))
			continue
		}
		// Leave enough spans for the required parameters after this one.
		end := len(spans) - max(0, len(sig.Required)-positional-1)
		if end <= i {
			end = i + 1
		}
		expr, e := parseMultispanValue(ws, spans[:end], &i, param.Shape)
		err = firstErr(err, e)
		call.Positional = append(call.Positional, expr)
		positional++
	}

	if positional < len(sig.Required) {
		err = firstErr(err, newError(MissingPositional,
			sig.Required[positional].Name, diag.PointSpan(span.End)))
	}
	return call, span, err
}

func isLongFlag(b []byte) bool {
	return len(b) > 2 && b[0] == '-' && b[1] == '-'
}

func isShortFlags(b []byte) bool {
	return len(b) > 1 && b[0] == '-' && b[1] != '-' && !isDigit(b[1]) && b[1] != '.'
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// Parses a value that may take more than one span, starting from spans[*i].
// On return, *i is the index of the last span consumed.
func parseMultispanValue(ws *engine.StateWorkingSet, spans []diag.Span, i *int, shape ast.SyntaxShape) (*ast.Expression, *Error) {
	switch shape.Kind {
	case ast.ShapeExpression:
		expr, err := ParseExpression(ws, spans[*i:])
		*i = len(spans) - 1
		return expr, err
	case ast.ShapeMathExpression:
		expr, err := ParseMathExpression(ws, spans[*i:])
		*i = len(spans) - 1
		return expr, err
	case ast.ShapeRowCondition:
		expr, err := ParseRowCondition(ws, spans[*i:])
		*i = len(spans) - 1
		return expr, err
	case ast.ShapeVarWithOptType:
		return ParseVarWithOptType(ws, spans, i)
	case ast.ShapeKeyword:
		return parseKeywordValue(ws, spans, i, shape)
	case ast.ShapeImportPattern:
		expr, err := ParseString(ws, spans[*i])
		if _, e := ParseImportPattern(ws, spans[*i:*i+1]); e != nil {
			err = firstErr(err, e)
		}
		return expr, err
	}
	return ParseValue(ws, spans[*i], shape)
}

func parseKeywordValue(ws *engine.StateWorkingSet, spans []diag.Span, i *int, shape ast.SyntaxShape) (*ast.Expression, *Error) {
	var err *Error
	kwSpan := spans[*i]
	word := string(shape.Keyword)
	if !bytes.Equal(ws.GetSpanContents(kwSpan), shape.Keyword) {
		err = newError(Expected, word, kwSpan)
	}
	if *i+1 >= len(spans) {
		err = firstErr(err, newError(MissingPositional, "value after "+word, diag.PointSpan(kwSpan.End)))
		return &ast.Expression{
			Expr: &ast.Keyword{Word: shape.Keyword, Span: kwSpan, Expr: Garbage(diag.PointSpan(kwSpan.End))},
			Span: kwSpan, Type: ast.TypeUnknown,
		}, err
	}
	*i++
	inner, e := parseMultispanValue(ws, spans, i, *shape.Inner)
	return &ast.Expression{
		Expr: &ast.Keyword{Word: shape.Keyword, Span: kwSpan, Expr: inner},
		Span: diag.Span{Start: kwSpan.Start, End: inner.Span.End},
		Type: inner.Type,
	}, firstErr(err, e)
}

// ParseVarWithOptType parses a variable name that is being declared,
// optionally followed by a type, as in "x", "x:int" or "x: int". The type
// may be in the next span, in which case *i is advanced past it.
func ParseVarWithOptType(ws *engine.StateWorkingSet, spans []diag.Span, i *int) (*ast.Expression, *Error) {
	span := spans[*i]
	b := ws.GetSpanContents(span)
	colon := bytes.IndexByte(b, ':')
	if colon <= 0 {
		if len(b) == 0 || !isVarName(b) {
			return Garbage(span), newError(Expected, "variable name", span)
		}
		id := ws.AddVariable(b, ast.TypeUnknown)
		return &ast.Expression{Expr: &ast.Var{ID: id}, Span: span, Type: ast.TypeUnknown}, nil
	}

	name := b[:colon]
	if !isVarName(name) {
		return Garbage(span), newError(Expected, "variable name", span)
	}
	typeBytes, typeSpan := b[colon+1:], diag.Span{Start: span.Start + colon + 1, End: span.End}
	if len(typeBytes) == 0 {
		if *i+1 >= len(spans) {
			id := ws.AddVariable(name, ast.TypeUnknown)
			return &ast.Expression{Expr: &ast.Var{ID: id}, Span: span, Type: ast.TypeUnknown},
				newError(MissingPositional, "type", diag.PointSpan(span.End))
		}
		*i++
		typeSpan = spans[*i]
		typeBytes = ws.GetSpanContents(typeSpan)
	}
	shape, err := ParseShapeName(ws, typeBytes, typeSpan)
	t := shape.Type()
	id := ws.AddVariable(name, t)
	return &ast.Expression{
		Expr: &ast.Var{ID: id}, Span: diag.Span{Start: span.Start, End: typeSpan.End}, Type: t}, err
}

func isVarName(b []byte) bool {
	if len(b) > 0 && b[0] == '$' {
		b = b[1:]
	}
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if !(c == '_' || c == '-' || isDigit(c) || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c >= 0x80) {
			return false
		}
	}
	return true
}

// ParseMathExpression parses a sequence of values joined by binary
// operators, honoring operator precedence.
func ParseMathExpression(ws *engine.StateWorkingSet, spans []diag.Span) (*ast.Expression, *Error) {
	lhs, err := ParseValue(ws, spans[0], ast.ShapeOf(ast.ShapeAny))
	exprs := []*ast.Expression{lhs}
	var ops []*ast.Expression

	reduce := func() {
		n := len(exprs)
		l, r := exprs[n-2], exprs[n-1]
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		exprs = append(exprs[:n-2], &ast.Expression{
			Expr: &ast.BinaryOp{LHS: l, Op: op, RHS: r},
			Span: diag.Span{Start: l.Span.Start, End: r.Span.End},
			Type: binaryType(l.Type, op, r.Type),
		})
	}

	for i := 1; i < len(spans); i += 2 {
		op, e := parseOperator(ws, spans[i])
		err = firstErr(err, e)
		var rhs *ast.Expression
		if i+1 < len(spans) {
			rhs, e = ParseValue(ws, spans[i+1], ast.ShapeOf(ast.ShapeAny))
			err = firstErr(err, e)
		} else {
			err = firstErr(err, newError(MissingPositional, "right-hand side", diag.PointSpan(spans[i].End)))
			rhs = Garbage(diag.PointSpan(spans[i].End))
		}
		for len(ops) > 0 && precedence(ops[len(ops)-1]) >= precedence(op) {
			reduce()
		}
		ops = append(ops, op)
		exprs = append(exprs, rhs)
	}
	for len(ops) > 0 {
		reduce()
	}
	return exprs[0], err
}

func parseOperator(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	op, ok := ast.OperatorOf(string(ws.GetSpanContents(span)))
	if !ok {
		return Garbage(span), newError(Expected, "operator", span)
	}
	return &ast.Expression{Expr: &ast.OperatorExpr{Op: op}, Span: span, Type: ast.TypeUnknown}, nil
}

func precedence(e *ast.Expression) int {
	if op, ok := e.Expr.(*ast.OperatorExpr); ok {
		return op.Op.Precedence()
	}
	return 0
}

func binaryType(l ast.Type, op *ast.Expression, r ast.Type) ast.Type {
	o, ok := op.Expr.(*ast.OperatorExpr)
	if !ok {
		return ast.TypeUnknown
	}
	switch o.Op {
	case ast.OpEqual, ast.OpNotEqual, ast.OpLessThan, ast.OpGreaterThan,
		ast.OpLessThanOrEqual, ast.OpGreaterThanOrEqual, ast.OpContains,
		ast.OpNotContains, ast.OpIn, ast.OpNotIn, ast.OpAnd, ast.OpOr:
		return ast.TypeBool
	case ast.OpPlus, ast.OpMinus, ast.OpMultiply, ast.OpDivide, ast.OpModulo, ast.OpPow:
		switch {
		case l == ast.TypeInt && r == ast.TypeInt && o.Op != ast.OpDivide:
			return ast.TypeInt
		case isNumberType(l) && isNumberType(r):
			return ast.TypeNumber
		case o.Op == ast.OpPlus && l == ast.TypeString && r == ast.TypeString:
			return ast.TypeString
		}
	}
	return ast.TypeUnknown
}

func isNumberType(t ast.Type) bool {
	return t == ast.TypeInt || t == ast.TypeFloat || t == ast.TypeNumber
}

// ParseRowCondition parses a math expression in a new scope where $it is
// bound.
func ParseRowCondition(ws *engine.StateWorkingSet, spans []diag.Span) (*ast.Expression, *Error) {
	ws.EnterScope()
	defer ws.ExitScope()
	it := ws.AddVariable([]byte("$it"), ast.TypeUnknown)
	expr, err := ParseMathExpression(ws, spans)
	return &ast.Expression{
		Expr: &ast.RowCondition{Var: it, Expr: expr}, Span: diag.SpanOf(spans), Type: ast.TypeBool,
	}, err
}
