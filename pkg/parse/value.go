package parse

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
)

// ParseValue parses a single span as a value of the given shape.
//
// Variables and subexpressions are accepted regardless of the shape. A
// custom shape is parsed as its inner shape, and the completion is attached
// to the resulting expression.
func ParseValue(ws *engine.StateWorkingSet, span diag.Span, shape ast.SyntaxShape) (*ast.Expression, *Error) {
	b := ws.GetSpanContents(span)
	if len(b) == 0 {
		return Garbage(span), newError(Expected, shape.String(), span)
	}

	if shape.Kind == ast.ShapeCustom {
		expr, err := ParseValue(ws, span, *shape.Inner)
		expr.CustomCompletion = shape.Completion
		return expr, err
	}

	switch b[0] {
	case '$':
		if bytes.Contains(b, []byte("..")) && (shape.Kind == ast.ShapeAny || shape.Kind == ast.ShapeRange) {
			if expr, err := ParseRange(ws, span); err == nil {
				return expr, nil
			}
		}
		return ParseFullCellPath(ws, span)
	case '(':
		return ParseFullCellPath(ws, span)
	case '[':
		switch shape.Kind {
		case ast.ShapeAny, ast.ShapeTable:
			return ParseTableExpression(ws, span)
		case ast.ShapeList:
			return ParseListExpression(ws, span, *shape.Inner)
		case ast.ShapeSignature:
			return ParseSignature(ws, span)
		}
		return Garbage(span), newError(Expected, "non-[ value", span)
	case '{':
		switch shape.Kind {
		case ast.ShapeAny, ast.ShapeBlock:
			return ParseBlockExpression(ws, span)
		}
		return Garbage(span), newError(Expected, "non-block value", span)
	}

	switch shape.Kind {
	case ast.ShapeInt:
		return parseInt(span, b)
	case ast.ShapeNumber:
		return parseNumber(span, b)
	case ast.ShapeRange:
		return ParseRange(ws, span)
	case ast.ShapeBoolean:
		return parseBool(span, b)
	case ast.ShapeString:
		return ParseString(ws, span)
	case ast.ShapeFilepath:
		return parseFilepath(ws, span)
	case ast.ShapeGlobPattern:
		return parseGlobPattern(ws, span)
	case ast.ShapeOperator:
		return parseOperator(ws, span)
	case ast.ShapeBlock:
		return Garbage(span), newError(Expected, "block", span)
	case ast.ShapeSignature:
		return Garbage(span), newError(Expected, "signature", span)
	case ast.ShapeList:
		return Garbage(span), newError(Expected, "list", span)
	case ast.ShapeTable:
		return Garbage(span), newError(Expected, "table", span)
	case ast.ShapeAny:
		if expr, err := parseBool(span, b); err == nil {
			return expr, nil
		}
		if expr, err := parseNumber(span, b); err == nil {
			return expr, nil
		}
		if bytes.Contains(b, []byte("..")) {
			if expr, err := ParseRange(ws, span); err == nil {
				return expr, nil
			}
		}
		return ParseString(ws, span)
	}
	// Shapes that take more than one span end up here when only one span is
	// available.
	return ParseValue(ws, span, ast.ShapeOf(ast.ShapeAny))
}

func trimQuotes(b []byte) []byte {
	if len(b) >= 2 {
		switch q := b[0]; q {
		case '"', '\'', '`':
			if b[len(b)-1] == q {
				return b[1 : len(b)-1]
			}
		}
	}
	return b
}

// ParseString parses a span as a string, removing one level of quotes.
func ParseString(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	b := trimQuotes(ws.GetSpanContents(span))
	if !utf8.Valid(b) {
		return Garbage(span), newError(Expected, "string", span)
	}
	return &ast.Expression{Expr: &ast.String{Value: string(b)}, Span: span, Type: ast.TypeString}, nil
}

func parseFilepath(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	b := trimQuotes(ws.GetSpanContents(span))
	if !utf8.Valid(b) {
		return Garbage(span), newError(Expected, "path", span)
	}
	return &ast.Expression{Expr: &ast.Filepath{Value: string(b)}, Span: span, Type: ast.TypeFilepath}, nil
}

func parseGlobPattern(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	b := trimQuotes(ws.GetSpanContents(span))
	if !utf8.Valid(b) {
		return Garbage(span), newError(Expected, "glob", span)
	}
	return &ast.Expression{Expr: &ast.GlobPattern{Value: string(b)}, Span: span, Type: ast.TypeGlob}, nil
}

func parseBool(span diag.Span, b []byte) (*ast.Expression, *Error) {
	switch string(b) {
	case "true":
		return &ast.Expression{Expr: &ast.Bool{Value: true}, Span: span, Type: ast.TypeBool}, nil
	case "false":
		return &ast.Expression{Expr: &ast.Bool{Value: false}, Span: span, Type: ast.TypeBool}, nil
	}
	return Garbage(span), newError(Expected, "bool", span)
}

// Reports whether b starts like a number, so that words like "inf" and
// "nan" are not taken as numbers.
func looksNumeric(b []byte) bool {
	if len(b) > 0 && (b[0] == '-' || b[0] == '+') {
		b = b[1:]
	}
	if len(b) > 0 && b[0] == '.' {
		b = b[1:]
	}
	return len(b) > 0 && isDigit(b[0])
}

func parseInt(span diag.Span, b []byte) (*ast.Expression, *Error) {
	if looksNumeric(b) {
		if i, err := strconv.ParseInt(string(b), 0, 64); err == nil {
			return &ast.Expression{Expr: &ast.Int{Value: i}, Span: span, Type: ast.TypeInt}, nil
		}
	}
	return Garbage(span), newError(Expected, "int", span)
}

func parseNumber(span diag.Span, b []byte) (*ast.Expression, *Error) {
	if expr, err := parseInt(span, b); err == nil {
		return expr, nil
	}
	if looksNumeric(b) {
		if f, err := strconv.ParseFloat(string(b), 64); err == nil {
			return &ast.Expression{Expr: &ast.Float{Value: f}, Span: span, Type: ast.TypeFloat}, nil
		}
	}
	return Garbage(span), newError(Expected, "number", span)
}

// ParseRange parses from..to, from..<to and from,next..to. Either bound may
// be omitted, but not both.
func ParseRange(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	s := string(ws.GetSpanContents(span))
	op := ast.RangeOperator{Inclusion: ast.Inclusive}
	opPos, opLen := strings.Index(s, "..<"), 3
	if opPos >= 0 {
		op.Inclusion = ast.RightExclusive
	} else if opPos, opLen = strings.Index(s, ".."), 2; opPos < 0 {
		return Garbage(span), newError(Expected, "range", span)
	}
	op.Span = diag.Span{Start: span.Start + opPos, End: span.Start + opPos + opLen}

	var err *Error
	bound := func(start, end int) *ast.Expression {
		expr, e := ParseValue(ws, diag.Span{Start: start, End: end}, ast.ShapeOf(ast.ShapeNumber))
		err = firstErr(err, e)
		return expr
	}

	r := &ast.Range{Op: op}
	fromEnd := op.Span.Start
	if comma := strings.IndexByte(s[:opPos], ','); comma >= 0 {
		r.Op.NextOpSpan = diag.Span{Start: span.Start + comma, End: span.Start + comma + 1}
		fromEnd = r.Op.NextOpSpan.Start
		r.Next = bound(r.Op.NextOpSpan.End, op.Span.Start)
	}
	if fromEnd > span.Start {
		r.From = bound(span.Start, fromEnd)
	}
	if op.Span.End < span.End {
		r.To = bound(op.Span.End, span.End)
	}
	if r.From == nil && r.To == nil {
		err = firstErr(err, newError(Expected, "at least one range bound", span))
	}
	if err != nil {
		return Garbage(span), err
	}
	return &ast.Expression{Expr: r, Span: span, Type: ast.TypeRange}, nil
}

// ParseFullCellPath parses a variable or a subexpression, followed by any
// number of .member accesses.
func ParseFullCellPath(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	b := ws.GetSpanContents(span)
	parts := splitCellPath(b)
	headSpan := diag.Span{Start: span.Start + parts[0][0], End: span.Start + parts[0][1]}

	var head *ast.Expression
	var err *Error
	if b[0] == '(' {
		head, err = ParseSubexpression(ws, headSpan)
	} else {
		head, err = parseVariable(ws, headSpan)
	}
	if len(parts) == 1 {
		return head, err
	}

	var tail []ast.PathMember
	for _, part := range parts[1:] {
		memberSpan := diag.Span{Start: span.Start + part[0], End: span.Start + part[1]}
		member := b[part[0]:part[1]]
		if len(member) == 0 {
			err = firstErr(err, newError(Expected, "cell path member", memberSpan))
			continue
		}
		if i, e := strconv.Atoi(string(member)); e == nil && isDigit(member[0]) {
			tail = append(tail, ast.PathMember{Kind: ast.IntMember, Int: i, Span: memberSpan})
		} else {
			tail = append(tail, ast.PathMember{
				Kind: ast.StringMember, Str: string(trimQuotes(member)), Span: memberSpan})
		}
	}
	return &ast.Expression{
		Expr: &ast.FullCellPath{Head: head, Tail: tail}, Span: span, Type: ast.TypeUnknown}, err
}

// Splits b at dots that are not quoted or bracketed, and returns the
// [start, end) offsets of the parts.
func splitCellPath(b []byte) [][2]int {
	var parts [][2]int
	var quote byte
	depth, start := 0, 0
	for i, c := range b {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == '.' && depth == 0:
			parts = append(parts, [2]int{start, i})
			start = i + 1
		}
	}
	return append(parts, [2]int{start, len(b)})
}

func parseVariable(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	name := ws.GetSpanContents(span)
	id, ok := ws.FindVariable(name)
	if !ok {
		return Garbage(span), newError(VariableNotFound, string(name), span)
	}
	return &ast.Expression{Expr: &ast.Var{ID: id}, Span: span, Type: ws.GetVariable(id)}, nil
}

// Parses the inside of a span delimited by open and close as a block in a
// new scope.
func parseDelimitedBlock(ws *engine.StateWorkingSet, span diag.Span, open, close byte, what string) (*ast.Block, *Error) {
	b := ws.GetSpanContents(span)
	if len(b) == 0 || b[0] != open {
		return nil, newError(Expected, what, span)
	}
	var err *Error
	inner := diag.Span{Start: span.Start + 1, End: span.End}
	if len(b) > 1 && b[len(b)-1] == close {
		inner.End--
	} else {
		err = newError(Unclosed, string(close), diag.PointSpan(span.End))
	}
	tokens, e := Lex(ws.GetSpanContents(inner), inner.Start, nil, nil)
	err = firstErr(err, e)
	lite, e := LiteParse(tokens)
	err = firstErr(err, e)
	block, e := ParseBlock(ws, lite, true)
	return block, firstErr(err, e)
}

// ParseBlockExpression parses a { ... } block and adds it to the working
// set.
func ParseBlockExpression(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	block, err := parseDelimitedBlock(ws, span, '{', '}', "block")
	if block == nil {
		return Garbage(span), err
	}
	id := ws.AddBlock(block)
	return &ast.Expression{Expr: &ast.BlockExpr{ID: id}, Span: span, Type: ast.TypeBlock}, err
}

// ParseSubexpression parses a ( ... ) subexpression and adds its block to
// the working set.
func ParseSubexpression(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	block, err := parseDelimitedBlock(ws, span, '(', ')', "subexpression")
	if block == nil {
		return Garbage(span), err
	}
	id := ws.AddBlock(block)
	return &ast.Expression{Expr: &ast.Subexpression{ID: id}, Span: span, Type: ast.TypeUnknown}, err
}

// Lexes the inside of a [ ... ] span, treating commas and newlines as
// whitespace.
func liteParseBracketed(ws *engine.StateWorkingSet, span diag.Span, what string) (LiteBlock, *Error) {
	b := ws.GetSpanContents(span)
	if len(b) == 0 || b[0] != '[' {
		return LiteBlock{}, newError(Expected, what, span)
	}
	var err *Error
	inner := diag.Span{Start: span.Start + 1, End: span.End}
	if len(b) > 1 && b[len(b)-1] == ']' {
		inner.End--
	} else {
		err = newError(Unclosed, "]", diag.PointSpan(span.End))
	}
	tokens, e := Lex(ws.GetSpanContents(inner), inner.Start, []byte{'\n', '\r', ','}, nil)
	err = firstErr(err, e)
	lite, e := LiteParse(tokens)
	return lite, firstErr(err, e)
}

// ParseListExpression parses a [ ... ] list whose elements have the given
// shape.
func ParseListExpression(ws *engine.StateWorkingSet, span diag.Span, elem ast.SyntaxShape) (*ast.Expression, *Error) {
	lite, err := liteParseBracketed(ws, span, "list")
	var elems []*ast.Expression
	for _, pipeline := range lite.Block {
		for _, cmd := range pipeline.Commands {
			for _, part := range cmd.Parts {
				expr, e := ParseValue(ws, part, elem)
				err = firstErr(err, e)
				elems = append(elems, expr)
			}
		}
	}
	return &ast.Expression{Expr: &ast.List{Elems: elems}, Span: span, Type: ast.TypeList}, err
}

// ParseTableExpression parses [[headers...]; [row...] ...] as a table, and
// anything with no ; at the top level as a list.
func ParseTableExpression(ws *engine.StateWorkingSet, span diag.Span) (*ast.Expression, *Error) {
	lite, err := liteParseBracketed(ws, span, "table")
	if len(lite.Block) < 2 {
		expr, e := ParseListExpression(ws, span, ast.ShapeOf(ast.ShapeAny))
		return expr, firstErr(err, e)
	}
	anyList := ast.ListShape(ast.ShapeOf(ast.ShapeAny))
	table := &ast.Table{}
	headers, e := ParseValue(ws, lite.Block[0].Commands[0].Parts[0], anyList)
	err = firstErr(err, e)
	if l, ok := headers.Expr.(*ast.List); ok {
		table.Headers = l.Elems
	}
	for _, pipeline := range lite.Block[1:] {
		for _, cmd := range pipeline.Commands {
			for _, part := range cmd.Parts {
				row, e := ParseValue(ws, part, anyList)
				err = firstErr(err, e)
				if l, ok := row.Expr.(*ast.List); ok {
					table.Rows = append(table.Rows, l.Elems)
				}
			}
		}
	}
	return &ast.Expression{Expr: table, Span: span, Type: ast.TypeTable}, err
}
