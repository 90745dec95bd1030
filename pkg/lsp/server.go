package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.nush.dev/pkg/builtins"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/edit/complete"
	"src.nush.dev/pkg/engine"
	"src.nush.dev/pkg/logutil"
	"src.nush.dev/pkg/parse"
)

var logger = logutil.GetLogger("[lsp] ")

// Time limit of custom completions.
const completionBudget = 500 * time.Millisecond

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// Documents are analyzed against an engine state with only the builtin
// commands; nothing is evaluated except custom completions.
type server struct {
	shared    *engine.Shared
	completer *complete.Completer
	content   map[lsp.DocumentURI]string
}

func newServer() *server {
	shared := engine.NewShared(builtins.NewEngineState())
	return &server{
		shared,
		complete.New(shared, complete.Config{CustomBudget: completionBudget}),
		make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		"textDocument/didClose": s.didClose,
		"initialized":           noop,
		// Sent by some clients even when the server doesn't advertise support.
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Println("unsupported method:", req.Method)
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			CompletionProvider: &lsp.CompletionOptions{},
			HoverProvider:      true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go s.publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.content[uri] = content
	go s.publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	pos := lspPositionToIdx(content, params.Position)
	var result lsp.Hover
	s.shared.Read(func(es *engine.EngineState) {
		ws := engine.NewWorkingSet(es)
		offset := ws.NextSpanStart()
		block, _ := parse.Parse(ws, string(params.TextDocument.URI), []byte(content), false)
		for _, flat := range parse.FlattenBlock(ws, block) {
			if flat.Shape.Kind != parse.ShapeInternalCall || flat.Span.Start < offset ||
				!flat.Span.Contains(offset+pos) {
				continue
			}
			id, ok := ws.FindDecl(ws.GetSpanContents(flat.Span))
			if !ok {
				continue
			}
			decl := ws.GetDecl(id)
			text := decl.Signature().String()
			if usage := decl.Usage(); usage != "" {
				text += "\n\n" + usage
			}
			rg := lspRangeFromSpan(content, flat.Span.Shift(-offset))
			result = lsp.Hover{Contents: []lsp.MarkedString{lsp.RawMarkedString(text)}, Range: &rg}
			return
		}
	})
	return result, nil
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	items := s.completer.Complete(content, lspPositionToIdx(content, params.Position))

	lspItems := make([]lsp.CompletionItem, len(items))
	for i, item := range items {
		lspItems[i] = lsp.CompletionItem{
			Label: item.Text,
			TextEdit: &lsp.TextEdit{
				Range:   lspRangeFromSpan(content, item.Span),
				NewText: item.Text,
			},
		}
	}
	return lspItems, nil
}

func (s *server) publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	err := conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: s.diagnostics(uri, content)})
	if err != nil {
		logger.Println("failed to publish diagnostics:", err)
	}
}

// Parse errors of a document. The parser stops at the earliest error, so
// there is at most one.
func (s *server) diagnostics(uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	diags := []lsp.Diagnostic{}
	s.shared.Read(func(es *engine.EngineState) {
		ws := engine.NewWorkingSet(es)
		offset := ws.NextSpanStart()
		_, err := parse.Parse(ws, string(uri), []byte(content), false)
		var parseErr *parse.Error
		if !errors.As(err, &parseErr) {
			return
		}
		diags = append(diags, lsp.Diagnostic{
			Range:    lspRangeFromSpan(content, parseErr.Span.Shift(-offset)),
			Severity: lsp.Error,
			Source:   "parse",
			Message:  parseErr.Message(),
		})
	})
	return diags
}

func lspRangeFromSpan(s string, span diag.Span) lsp.Range {
	return lsp.Range{
		Start: lspPositionFromIdx(s, span.Start),
		End:   lspPositionFromIdx(s, span.End),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if !lastCR {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// One UTF-16 code unit.
			p.Character++
		default:
			// A surrogate pair.
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
