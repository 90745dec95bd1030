package parse

import (
	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
)

// ParseImportPattern parses the argument of use: a module name, optionally
// followed by a member selector. The selector is either attached with a dot,
// as in m.a, m.* and m.[a b], or in the following span, as in "m [a b]".
// Only the first member is significant.
func ParseImportPattern(ws *engine.StateWorkingSet, spans []diag.Span) (ast.ImportPattern, *Error) {
	var pattern ast.ImportPattern
	if len(spans) == 0 {
		return pattern, newError(MissingPositional, "import pattern", diag.Span{})
	}
	tokens, err := Lex(ws.GetSpanContents(spans[0]), spans[0].Start, nil, []byte{'.'})
	if len(tokens) == 0 {
		return pattern, firstErr(err, newError(MissingPositional, "import pattern", spans[0]))
	}
	pattern.Head = ast.ImportName{Name: ws.GetSpanContents(tokens[0].Span), Span: tokens[0].Span}

	var memberSpan diag.Span
	switch {
	case len(tokens) > 2:
		// tokens[1] is the dot.
		memberSpan = tokens[2].Span
	case len(tokens) == 2:
		return pattern, firstErr(err, newError(Expected, "import member", diag.PointSpan(tokens[1].Span.End)))
	case len(spans) > 1:
		memberSpan = spans[1]
	default:
		return pattern, err
	}

	member, e := parseImportMember(ws, memberSpan)
	pattern.Members = []ast.ImportMember{member}
	return pattern, firstErr(err, e)
}

func parseImportMember(ws *engine.StateWorkingSet, span diag.Span) (ast.ImportMember, *Error) {
	b := ws.GetSpanContents(span)
	switch {
	case string(b) == "*":
		return ast.ImportMember{Kind: ast.GlobMember, Span: span}, nil
	case len(b) > 0 && b[0] == '[':
		list, err := ParseListExpression(ws, span, ast.ShapeOf(ast.ShapeString))
		member := ast.ImportMember{Kind: ast.ListMember, Span: span}
		for _, elem := range list.Expr.(*ast.List).Elems {
			name, ok := elem.AsString()
			if !ok {
				err = firstErr(err, newError(ExportNotFound, "", elem.Span))
				continue
			}
			member.Names = append(member.Names, ast.ImportName{Name: []byte(name), Span: elem.Span})
		}
		return member, err
	default:
		return ast.ImportMember{Kind: ast.NameMember, Span: span, Name: b}, nil
	}
}
