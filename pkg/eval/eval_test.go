package eval

import (
	"context"
	"errors"
	"testing"

	"src.nush.dev/pkg/builtins"
	"src.nush.dev/pkg/engine"
	"src.nush.dev/pkg/eval/vals"
	"src.nush.dev/pkg/parse"
	. "src.nush.dev/pkg/tt"
)

func evalIn(ctx context.Context, src string) (any, *engine.EngineState, error) {
	es := builtins.NewEngineState()
	ws := engine.NewWorkingSet(es)
	block, err := parse.Parse(ws, "[test]", []byte(src), false)
	if err != nil {
		return nil, es, err
	}
	es.MergeDelta(ws.Render())
	v, err := EvalBlock(NewContext(ctx, es, engine.NewStack()), block, nil)
	return v, es, err
}

// Evaluates src and returns the result as a string and the error message.
func evalString(src string) (string, string) {
	v, _, err := evalIn(context.Background(), src)
	if err != nil {
		return "", err.Error()
	}
	return vals.ToString(v), ""
}

func TestEvalBlock(t *testing.T) {
	Test(t, Fn("eval", evalString), Table{
		Args("1").Rets("1", ""),
		Args("1.5").Rets("1.5", ""),
		Args("true").Rets("true", ""),
		Args("'a b'").Rets("a b", ""),
		Args("[1 a]").Rets(`[1 "a"]`, ""),
		Args("[[a b]; [1 2]]").Rets(`[["a" "b"] [1 2]]`, ""),
		Args("(echo 1)").Rets("1", ""),
		Args("echo 1 2").Rets("[1 2]", ""),
		Args("echo 1; echo 2").Rets("2", ""),
		Args("echo 1 | echo 2").Rets("2", ""),
		Args("").Rets("", ""),

		// Ranges.
		Args("1..3").Rets("[1 2 3]", ""),
		Args("1..<3").Rets("[1 2]", ""),
		Args("3..1").Rets("[3 2 1]", ""),
		Args("1,3..7").Rets("[1 3 5 7]", ""),
		Args("1,0..3").Rets("", "range step goes the wrong way"),
		Args("1..").Rets("", "ranges without an upper bound cannot be evaluated"),

		// Variables and cell paths.
		Args("let x = 5; $x").Rets("5", ""),
		Args("let l = [a b]; $l.1").Rets("b", ""),
		Args("let l = [a b]; $l.5").Rets("", "index out of range"),
		Args("let l = [a b]; $l.x").Rets("", "no such field: x"),
		Args("let n = 1; $n.0").Rets("", "cannot index int"),

		// Custom commands.
		Args("def f [x] { $x }; f 3").Rets("3", ""),
		Args("def f [x y?] { $y }; f 1").Rets("", ""),
		Args("def f [...r] { $r }; f 1 2").Rets("[1 2]", ""),
		Args("def f [--v] { $v }; f --v").Rets("true", ""),
		Args("def f [--v] { $v }; f").Rets("false", ""),
		Args("def f [--o: int] { $o }; f --o 3").Rets("3", ""),
		Args("def f [--o: int] { $o }; f").Rets("", ""),
		Args("def f [] { g }; def g [] { 2 }; f").Rets("2", ""),
		Args("def f [] { f }; f").Rets("", "call depth exceeded"),

		// Unsupported constructs.
		Args("1 + 2").Rets("", "binary operators cannot be evaluated"),
		Args("nope").Rets("", "external commands cannot be run"),
	})
}

func TestEvalBlock_BlockValue(t *testing.T) {
	v, es, err := evalIn(context.Background(), "{ 1 }")
	if err != nil {
		t.Fatal(err)
	}
	b, ok := v.(vals.Block)
	if !ok {
		t.Fatalf("got %s, want block", vals.Kind(v))
	}
	if n := len(es.GetBlock(b.ID).Stmts); n != 1 {
		t.Errorf("block has %d statements", n)
	}
}

func TestEvalBlock_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := evalIn(ctx, "echo 1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestError_Diag(t *testing.T) {
	_, es, err := evalIn(context.Background(), "echo 1; nope")
	var evalErr *Error
	if !errors.As(err, &evalErr) {
		t.Fatalf("got %T, want *Error", err)
	}
	d := evalErr.Diag(es)
	if d.Context.Name != "[test]" || d.Span().Start != 8 || d.Span().End != 12 {
		t.Errorf("Diag -> %+v", d)
	}
}

func TestEvalCall_WrapsCommandErrors(t *testing.T) {
	_, _, err := evalIn(context.Background(), "cd /nonexistent/dir")
	var evalErr *Error
	if !errors.As(err, &evalErr) || evalErr.Cause == nil {
		t.Fatalf("got %#v, want *Error with a cause", err)
	}
	if evalErr.Span.Start != 0 || evalErr.Span.End != 2 {
		t.Errorf("span %v, want the head of the call", evalErr.Span)
	}
}
