package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.nush.dev/pkg/testutil"
	"src.nush.dev/pkg/tt"
)

func TestPositionFromIdx(t *testing.T) {
	tt.Test(t, tt.Fn("lspPositionFromIdx", lspPositionFromIdx), tt.Table{
		tt.Args("foo", 0).Rets(lsp.Position{Line: 0, Character: 0}),
		tt.Args("foo", 2).Rets(lsp.Position{Line: 0, Character: 2}),
		tt.Args("foo\nbar", 5).Rets(lsp.Position{Line: 1, Character: 1}),
		tt.Args("foo\r\nbar", 6).Rets(lsp.Position{Line: 1, Character: 1}),
		tt.Args("foo\rbar", 5).Rets(lsp.Position{Line: 1, Character: 1}),
		// 2 bytes, 1 UTF-16 code unit
		tt.Args("ü x", 3).Rets(lsp.Position{Line: 0, Character: 2}),
		// 4 bytes, 2 UTF-16 code units
		tt.Args("😀x", 4).Rets(lsp.Position{Line: 0, Character: 2}),
		tt.Args("foo", 10).Rets(lsp.Position{Line: 0, Character: 3}),
	})
}

func TestPositionToIdx(t *testing.T) {
	tt.Test(t, tt.Fn("lspPositionToIdx", lspPositionToIdx), tt.Table{
		tt.Args("foo\nbar", lsp.Position{Line: 1, Character: 1}).Rets(5),
		tt.Args("ü x", lsp.Position{Line: 0, Character: 2}).Rets(3),
		tt.Args("😀x", lsp.Position{Line: 0, Character: 2}).Rets(4),
		tt.Args("foo", lsp.Position{Line: 3, Character: 0}).Rets(3),
	})
}

func TestDiagnostics(t *testing.T) {
	s := newServer()
	got := s.diagnostics("file:///a.nu", "echo 1\ndef f [x] {}; f")
	want := []lsp.Diagnostic{{
		Range: lsp.Range{
			Start: lsp.Position{Line: 1, Character: 15},
			End:   lsp.Position{Line: 1, Character: 15}},
		Severity: lsp.Error,
		Source:   "parse",
		Message:  "missing x",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}

	if got := s.diagnostics("file:///b.nu", "echo 1"); len(got) != 0 {
		t.Errorf("got diagnostics %v for valid code", got)
	}
}

func TestDiagnostics_DocumentsAreIndependent(t *testing.T) {
	s := newServer()
	s.diagnostics("file:///a.nu", "def f [x] {}")
	// f is not declared in b.nu, so this is an external call.
	if got := s.diagnostics("file:///b.nu", "f"); len(got) != 0 {
		t.Errorf("got diagnostics %v, want none", got)
	}
}

func TestHover(t *testing.T) {
	s := newServer()
	s.content["file:///a.nu"] = "def greet [name] { echo $name }\ngreet x"

	hover := func(line, char int) lsp.Hover {
		t.Helper()
		params, _ := json.Marshal(lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: "file:///a.nu"},
			Position:     lsp.Position{Line: line, Character: char}})
		result, err := s.hover(context.Background(), nil, params)
		if err != nil {
			t.Fatal(err)
		}
		return result.(lsp.Hover)
	}

	h := hover(1, 2)
	if len(h.Contents) != 1 || !strings.HasPrefix(h.Contents[0].Value, "greet [name") {
		t.Errorf("got hover %v, want signature of greet", h.Contents)
	}
	wantRange := &lsp.Range{
		Start: lsp.Position{Line: 1, Character: 0},
		End:   lsp.Position{Line: 1, Character: 5}}
	if diff := cmp.Diff(wantRange, h.Range); diff != "" {
		t.Errorf("hover range (-want +got):\n%s", diff)
	}

	h = hover(0, 21)
	if len(h.Contents) != 1 || !strings.Contains(h.Contents[0].Value, "Output the arguments.") {
		t.Errorf("got hover %v, want usage of echo", h.Contents)
	}

	if h := hover(1, 7); len(h.Contents) != 0 {
		t.Errorf("got hover %v on an argument, want none", h.Contents)
	}
}

func TestServer(t *testing.T) {
	client, diags := setupServer(t)
	ctx := context.Background()

	var init lsp.InitializeResult
	if err := client.Call(ctx, "initialize", lsp.InitializeParams{}, &init); err != nil {
		t.Fatal(err)
	}
	if init.Capabilities.CompletionProvider == nil || !init.Capabilities.HoverProvider {
		t.Errorf("got capabilities %+v", init.Capabilities)
	}

	err := client.Notify(ctx, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: "file:///a.nu", Text: "ec"}})
	if err != nil {
		t.Fatal(err)
	}
	if d := receive(t, diags); d.URI != "file:///a.nu" || len(d.Diagnostics) != 0 {
		t.Errorf("got diagnostics %+v, want none", d)
	}

	var items []lsp.CompletionItem
	err = client.Call(ctx, "textDocument/completion", lsp.CompletionParams{
		TextDocumentPositionParams: lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: "file:///a.nu"},
			Position:     lsp.Position{Line: 0, Character: 2}}}, &items)
	if err != nil {
		t.Fatal(err)
	}
	wantItems := []lsp.CompletionItem{{
		Label: "echo",
		TextEdit: &lsp.TextEdit{
			Range: lsp.Range{
				Start: lsp.Position{Line: 0, Character: 0},
				End:   lsp.Position{Line: 0, Character: 2}},
			NewText: "echo"},
	}}
	if diff := cmp.Diff(wantItems, items); diff != "" {
		t.Errorf("completion (-want +got):\n%s", diff)
	}

	err = client.Notify(ctx, "textDocument/didChange", lsp.DidChangeTextDocumentParams{
		TextDocument: lsp.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: "file:///a.nu"}},
		ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: "echo (1"}}})
	if err != nil {
		t.Fatal(err)
	}
	d := receive(t, diags)
	if len(d.Diagnostics) != 1 || d.Diagnostics[0].Message != "unclosed )" {
		t.Errorf("got diagnostics %+v, want one for unclosed )", d)
	}

	var rpcErr *jsonrpc2.Error
	err = client.Call(ctx, "textDocument/definition", nil, nil)
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("got error %v, want method not found", err)
	}
	err = client.Call(ctx, "textDocument/didChange", []int{1}, nil)
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeInvalidParams {
		t.Errorf("got error %v, want invalid params", err)
	}
}

// Connects a client to a new server over an in-memory pipe. Diagnostics
// published by the server are sent on the returned channel.
func setupServer(t *testing.T) (*jsonrpc2.Conn, <-chan lsp.PublishDiagnosticsParams) {
	ctx, cancel := context.WithCancel(context.Background())
	serverSide, clientSide := net.Pipe()
	serverConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(serverSide, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer()))

	diags := make(chan lsp.PublishDiagnosticsParams, 10)
	clientConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
			if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
				var params lsp.PublishDiagnosticsParams
				if json.Unmarshal(*req.Params, &params) == nil {
					diags <- params
				}
			}
			return nil, nil
		}))

	t.Cleanup(func() {
		clientConn.Close()
		serverConn.Close()
		cancel()
	})
	return clientConn, diags
}

func receive(t *testing.T, diags <-chan lsp.PublishDiagnosticsParams) lsp.PublishDiagnosticsParams {
	t.Helper()
	select {
	case d := <-diags:
		return d
	case <-time.After(testutil.Scaled(2 * time.Second)):
		t.Fatal("timed out waiting for diagnostics")
		return lsp.PublishDiagnosticsParams{}
	}
}
