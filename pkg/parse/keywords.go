package parse

import (
	"bytes"

	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
)

func findBuiltin(ws *engine.StateWorkingSet, name string) ast.DeclID {
	id, ok := ws.FindDecl([]byte(name))
	if !ok {
		panic("internal error: missing " + name + " command")
	}
	return id
}

func callStatement(call *ast.Call, span diag.Span) ast.Statement {
	return ast.PipelineOf(&ast.Expression{
		Expr: &ast.CallExpr{Call: call}, Span: span, Type: ast.TypeUnknown})
}

// ParseDefPredecl declares the command defined by a def statement, using the
// signature but not the body, so that the command can be called before the
// body is parsed. Other statements are ignored, and so are defs whose name
// or signature cannot be parsed.
//
// If the innermost scope already has a predeclaration of the same name, it
// is replaced in place.
func ParseDefPredecl(ws *engine.StateWorkingSet, spans []diag.Span) {
	if string(ws.GetSpanContents(spans[0])) != "def" || len(spans) < 4 {
		return
	}
	nameExpr, _ := ParseString(ws, spans[1])
	name, ok := nameExpr.AsString()
	if !ok {
		return
	}
	// The variables for the parameters are thrown away with the scope; the
	// full parse adds them again.
	ws.EnterScope()
	sigExpr, _ := ParseSignature(ws, spans[2])
	ws.ExitScope()

	sig, _ := sigExpr.AsSignature()
	sig.Name = name
	decl := &engine.Predeclaration{Sig: sig}
	if id, ok := ws.FindPredeclaredInFrame([]byte(name)); ok {
		*ws.GetDeclMut(id) = decl
	} else {
		ws.AddDecl(decl)
	}
}

// ParseDef parses def <name> <signature> <block>. When all three parts
// parse, the predeclaration of the command is replaced by the definition,
// keeping its ID.
func ParseDef(ws *engine.StateWorkingSet, spans []diag.Span) (ast.Statement, *Error) {
	if string(ws.GetSpanContents(spans[0])) != "def" {
		return GarbageStatement(spans), newError(UnknownState,
			"expected structure: def <name> [] {}", diag.SpanOf(spans))
	}
	call := &ast.Call{Head: spans[0], Decl: findBuiltin(ws, "def")}
	stmt := callStatement(call, diag.SpanOf(spans))
	if len(spans) < 2 {
		return stmt, newError(MissingPositional, "definition name", diag.PointSpan(spans[0].End))
	}

	nameExpr, err := ParseString(ws, spans[1])
	call.Positional = append(call.Positional, nameExpr)
	if len(spans) < 3 {
		return stmt, firstErr(err, newError(MissingPositional, "parameters", diag.PointSpan(spans[1].End)))
	}

	ws.EnterScope()
	defer ws.ExitScope()
	sigExpr, e := ParseSignature(ws, spans[2])
	err = firstErr(err, e)
	call.Positional = append(call.Positional, sigExpr)
	if len(spans) < 4 {
		return stmt, firstErr(err, newError(MissingPositional, "block", diag.PointSpan(spans[2].End)))
	}

	blockExpr, e := ParseBlockExpression(ws, spans[3])
	err = firstErr(err, e)
	call.Positional = append(call.Positional, blockExpr)
	for _, extra := range spans[4:] {
		err = firstErr(err, newError(ExtraPositional, "", extra))
	}

	name, okName := nameExpr.AsString()
	sig, okSig := sigExpr.AsSignature()
	blockID, okBlock := blockExpr.AsBlock()
	if okName && okSig && okBlock {
		id, ok := ws.FindDecl([]byte(name))
		if !ok {
			panic("internal error: predeclaration failed to add definition")
		}
		sig.Name = name
		*ws.GetDeclMut(id) = &engine.BlockCommand{Sig: sig, Block: blockID}
	}
	return stmt, err
}

// CheckName checks the name and the = of alias and let statements. It
// reports a missing name when the = is in the place of the name, and a
// missing = when the third part is not =.
func CheckName(ws *engine.StateWorkingSet, spans []diag.Span) *Error {
	keyword := string(ws.GetSpanContents(spans[0]))
	switch {
	case len(spans) == 1:
		return nil
	case len(spans) < 4:
		if string(ws.GetSpanContents(spans[1])) == "=" {
			return newError(Expected, keyword+" name", spans[1])
		}
	case string(ws.GetSpanContents(spans[2])) != "=":
		return newError(Expected, "=", spans[2])
	}
	return nil
}

// ParseAlias parses alias <name> = <replacement...>. The replacement is
// recorded as the list of its spans; expansion happens when a call is
// parsed.
func ParseAlias(ws *engine.StateWorkingSet, spans []diag.Span) (ast.Statement, *Error) {
	if string(ws.GetSpanContents(spans[0])) == "alias" {
		if err := CheckName(ws, spans); err != nil {
			return ast.PipelineOf(Garbage(err.Span)), err
		}
		if id, ok := ws.FindDecl([]byte("alias")); ok {
			// Errors from the arguments are not reported; the replacement
			// is only checked when the alias is used.
			call, span, _ := ParseInternalCall(ws, spans[0], spans[1:], id)
			if len(spans) >= 4 {
				name := ws.GetSpanContents(spans[1])
				if len(name) > 1 && name[0] == '"' && name[len(name)-1] == '"' {
					name = name[1 : len(name)-1]
				}
				replacement := append([]diag.Span(nil), spans[3:]...)
				ws.AddAlias(bytes.Clone(name), replacement)
			}
			return callStatement(call, span), nil
		}
	}
	return GarbageStatement(spans), newError(UnknownState,
		"internal error: alias statement unparseable", diag.SpanOf(spans))
}

// ParseModule parses module <name> { <defs> }. Every def in the body is
// exported from the module. The body is parsed in its own scope, so the
// commands are only visible outside after use.
func ParseModule(ws *engine.StateWorkingSet, spans []diag.Span) (ast.Statement, *Error) {
	if string(ws.GetSpanContents(spans[0])) != "module" || len(spans) < 3 {
		return GarbageStatement(spans), newError(UnknownState,
			"expected structure: module <name> {}", diag.SpanOf(spans))
	}
	nameExpr, err := ParseString(ws, spans[1])
	moduleName, ok := nameExpr.AsString()
	if !ok {
		return GarbageStatement(spans), err
	}

	blockSpan := spans[2]
	b := ws.GetSpanContents(blockSpan)
	if !bytes.HasPrefix(b, []byte("{")) {
		return GarbageStatement(spans), newError(Expected, "block", blockSpan)
	}
	inner := diag.Span{Start: blockSpan.Start + 1, End: blockSpan.End}
	if len(b) > 1 && bytes.HasSuffix(b, []byte("}")) {
		inner.End--
	} else {
		err = firstErr(err, newError(Unclosed, "}", diag.PointSpan(blockSpan.End)))
	}

	tokens, e := Lex(ws.GetSpanContents(inner), inner.Start, nil, nil)
	err = firstErr(err, e)
	ws.EnterScope()
	lite, e := LiteParse(tokens)
	err = firstErr(err, e)

	for _, pipeline := range lite.Block {
		if len(pipeline.Commands) == 1 {
			ParseDefPredecl(ws, pipeline.Commands[0].Parts)
		}
	}

	block := &ast.Block{}
	for _, pipeline := range lite.Block {
		if len(pipeline.Commands) != 1 {
			err = firstErr(err, newError(Expected, "not a pipeline", inner))
			block.Stmts = append(block.Stmts, GarbageStatement(spans))
			continue
		}
		parts := pipeline.Commands[0].Parts
		if string(ws.GetSpanContents(parts[0])) != "def" {
			err = firstErr(err, newError(Expected, "def", parts[0]))
			block.Stmts = append(block.Stmts, GarbageStatement(parts))
			continue
		}
		stmt, e := ParseDef(ws, parts)
		err = firstErr(err, e)
		block.Stmts = append(block.Stmts, stmt)
		// A def with errors is still exported if it got far enough to
		// replace its predeclaration.
		if len(parts) < 2 {
			continue
		}
		nameExpr, _ := ParseString(ws, parts[1])
		if name, ok := nameExpr.AsString(); ok {
			if id, ok := ws.FindDecl([]byte(name)); ok && !ws.GetDecl(id).IsPredeclared() {
				block.Exports = append(block.Exports, ast.Export{Name: []byte(name), Decl: id})
			}
		}
	}
	ws.ExitScope()

	blockID := ws.AddModule([]byte(moduleName), block)
	call := &ast.Call{
		Head: spans[0],
		Decl: findBuiltin(ws, "module"),
		Positional: []*ast.Expression{
			nameExpr,
			{Expr: &ast.BlockExpr{ID: blockID}, Span: blockSpan, Type: ast.TypeBlock},
		},
	}
	return callStatement(call, diag.SpanOf(spans)), err
}

// ParseUse parses use <import pattern> and brings the selected exports of
// the module into the current scope. Without a selector, every export is
// brought in under the name <module>.<export>.
func ParseUse(ws *engine.StateWorkingSet, spans []diag.Span) (ast.Statement, *Error) {
	if string(ws.GetSpanContents(spans[0])) != "use" || len(spans) < 2 {
		return GarbageStatement(spans), newError(UnknownState,
			"expected structure: use <name>", diag.SpanOf(spans))
	}
	nameExpr, err := ParseString(ws, spans[1])
	pattern, e := ParseImportPattern(ws, spans[1:])
	err = firstErr(err, e)

	moduleID, ok := ws.FindModule(pattern.Head.Name)
	if !ok {
		return GarbageStatement(spans), newError(ModuleNotFound, "", spans[1])
	}
	exports := append([]ast.Export(nil), ws.GetBlock(moduleID).Exports...)

	var selected []ast.Export
	if len(pattern.Members) == 0 {
		for _, export := range exports {
			name := append(append(bytes.Clone(pattern.Head.Name), '.'), export.Name...)
			selected = append(selected, ast.Export{Name: name, Decl: export.Decl})
		}
	} else {
		pick := func(name []byte, span diag.Span) {
			found := false
			for _, export := range exports {
				if bytes.Equal(export.Name, name) {
					selected = append(selected, export)
					found = true
				}
			}
			if !found {
				err = firstErr(err, newError(ExportNotFound, string(name), span))
			}
		}
		switch member := pattern.Members[0]; member.Kind {
		case ast.GlobMember:
			selected = exports
		case ast.NameMember:
			pick(member.Name, member.Span)
		case ast.ListMember:
			for _, name := range member.Names {
				pick(name.Name, name.Span)
			}
		}
	}
	ws.ActivateOverlay(selected)

	call := &ast.Call{
		Head:       spans[0],
		Decl:       findBuiltin(ws, "use"),
		Positional: []*ast.Expression{nameExpr},
	}
	return callStatement(call, diag.SpanOf(spans)), err
}

// ParseLet parses let <name> = <expression>. The variable gets the type of
// the expression.
func ParseLet(ws *engine.StateWorkingSet, spans []diag.Span) (ast.Statement, *Error) {
	if string(ws.GetSpanContents(spans[0])) == "let" {
		if err := CheckName(ws, spans); err != nil {
			return ast.PipelineOf(Garbage(err.Span)), err
		}
		if id, ok := ws.FindDecl([]byte("let")); ok {
			call, span, err := ParseInternalCall(ws, spans[0], spans[1:], id)
			if err == nil {
				varID, ok := call.Positional[0].AsVar()
				if !ok {
					panic("internal error: expected variable")
				}
				ws.SetVariableType(varID, call.Positional[1].Type)
			}
			return callStatement(call, span), err
		}
	}
	return GarbageStatement(spans), newError(UnknownState,
		"internal error: let statement unparseable", diag.SpanOf(spans))
}
