package parse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
)

// Renders flattened shapes as "shape:text".
func render(ws *engine.StateWorkingSet, flats []Flat) []string {
	out := make([]string, len(flats))
	for i, f := range flats {
		out[i] = f.Shape.String() + ":" + string(ws.GetSpanContents(f.Span))
	}
	return out
}

func TestFlattenBlock(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"echo 1 true 'a' 2.5",
			[]string{"internalcall:echo", "int:1", "bool:true", "string:'a'", "float:2.5"}},
		{"let x = 5",
			[]string{"internalcall:let", "variable:x", "operator:=", "int:5"}},
		{"ls -l", []string{"external:ls", "externalarg:-l"}},
		{"def f [x: int] { $x }",
			[]string{"internalcall:def", "string:f", "signature:[x: int]", "variable:$x"}},
		{"1..5", []string{"int:1", "operator:..", "int:5"}},
		{"1,3..<7", []string{"int:1", "operator:,", "int:3", "operator:..<", "int:7"}},
		{"1 + 2 * 3", []string{"int:1", "operator:+", "int:2", "operator:*", "int:3"}},
		{"[1 a]", []string{"int:1", "string:a"}},
		{"[[a b]; [1 2]]", []string{"string:a", "string:b", "int:1", "int:2"}},
		{"cd ~/x", []string{"internalcall:cd", "filepath:~/x"}},
		{"echo (echo 1)", []string{"internalcall:echo", "internalcall:echo", "int:1"}},
		{"let l = [1]; $l.0", []string{
			"internalcall:let", "variable:l", "operator:=", "int:1", "variable:$l", "int:0"}},
		{"$nope", []string{"garbage:$nope"}},
		{"echo a | ls", []string{"internalcall:echo", "string:a", "external:ls"}},
		{"use m", []string{"garbage:use m"}},
	}
	for _, test := range tests {
		ws := newWorkingSet()
		block, _ := parseSrc(ws, test.src)
		got := render(ws, FlattenBlock(ws, block))
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%q (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestFlattenBlock_NamedArgumentsAreSkipped(t *testing.T) {
	ws := newWorkingSet()
	block := mustParse(t, ws, "def f [--out: path] {}; f --out x")
	got := render(ws, FlattenStatement(ws, block.Stmts[1]))
	if diff := cmp.Diff([]string{"internalcall:f"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFlattenBlock_Custom(t *testing.T) {
	ws := newWorkingSet()
	block := mustParse(t, ws, "def f [x: string(names)] {}; f al")
	got := render(ws, FlattenStatement(ws, block.Stmts[1]))
	if diff := cmp.Diff([]string{"internalcall:f", "custom(names):al"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFlattenBlock_SpansAreOrderedAndInSource(t *testing.T) {
	sources := []string{
		"module m { def a [] { b }; def b [] { 1 } }",
		"let x = 5; echo $x | echo (echo [1 2 3])",
		"def f [x: int --v] { let y = $x; [[a]; [$y]] }; f 1 --v",
		"1,2..10 | echo { ls -l; 1 + 2 < 4 }",
		"module m { def a [] { 1 }",
		"echo [1 2",
		"def f [x: nope",
		"alias ll = ls -l",
		"",
	}
	for _, src := range sources {
		ws := newWorkingSet()
		block, _ := parseSrc(ws, src)
		flats := FlattenBlock(ws, block)
		last := 0
		for _, f := range flats {
			if f.Span.Start < 0 || f.Span.End > len(src) || f.Span.Start > f.Span.End {
				t.Errorf("%q: span %v out of source", src, f.Span)
			}
			if f.Span.Start < last {
				t.Errorf("%q: span %v starts before %d", src, f.Span, last)
			}
			last = f.Span.Start
		}
	}
}

// An Expr type the flattener does not know.
type unknownExpr struct{ ast.Garbage }

func TestFlattenExpression_AllVariants(t *testing.T) {
	ws := newWorkingSet()
	ws.AddFile("[test]", []byte("0123456789"))
	s := func(start int) diag.Span { return diag.Span{Start: start, End: start + 1} }
	leaf := func(start int) *ast.Expression {
		return &ast.Expression{Expr: &ast.Int{Value: 1}, Span: s(start)}
	}
	block := ws.AddBlock(&ast.Block{Stmts: []ast.Statement{ast.PipelineOf(leaf(0))}})
	exprs := []ast.Expr{
		&ast.Garbage{}, &ast.Bool{}, &ast.Int{}, &ast.Float{}, &ast.String{},
		&ast.Filepath{}, &ast.GlobPattern{}, &ast.Var{}, &ast.OperatorExpr{},
		&ast.Keyword{Span: s(0), Expr: leaf(1)},
		&ast.BinaryOp{LHS: leaf(0), Op: leaf(1), RHS: leaf(2)},
		&ast.Range{From: leaf(0), Op: ast.RangeOperator{Span: s(1)}},
		&ast.List{Elems: []*ast.Expression{leaf(0)}},
		&ast.Table{Headers: []*ast.Expression{leaf(0)}, Rows: [][]*ast.Expression{{leaf(1)}}},
		&ast.FullCellPath{Head: leaf(0), Tail: []ast.PathMember{{Kind: ast.StringMember, Span: s(1)}}},
		&ast.CallExpr{Call: &ast.Call{Head: s(0), Positional: []*ast.Expression{leaf(1)}}},
		&ast.ExternalCall{Name: s(0), Args: []diag.Span{s(1)}},
		&ast.BlockExpr{ID: block},
		&ast.Subexpression{ID: block},
		&ast.RowCondition{Expr: leaf(0)},
		&ast.SignatureExpr{Sig: ast.NewSignature("")},
	}
	for _, e := range exprs {
		flats := FlattenExpression(ws, &ast.Expression{Expr: e, Span: s(0)})
		if len(flats) == 0 {
			t.Errorf("%T flattens to nothing", e)
		}
	}

	defer func() {
		r := recover()
		if msg, _ := r.(string); !strings.Contains(msg, "unknownExpr") {
			t.Errorf("unknown expression panics with %v", r)
		}
	}()
	FlattenExpression(ws, &ast.Expression{Expr: &unknownExpr{}})
}
