package diag

import (
	"testing"

	"src.nush.dev/pkg/tt"
)

func TestSpanOf(t *testing.T) {
	tt.Test(t, tt.Fn("SpanOf", SpanOf), tt.Table{
		tt.Args([]Span(nil)).Rets(Span{}),
		tt.Args([]Span{{1, 3}}).Rets(Span{1, 3}),
		tt.Args([]Span{{1, 3}, {4, 9}, {10, 12}}).Rets(Span{1, 12}),
	})
}

func TestSpan_Contains(t *testing.T) {
	s := Span{2, 5}
	tt.Test(t, tt.Fn("Span{2, 5}.Contains", s.Contains), tt.Table{
		tt.Args(1).Rets(false),
		tt.Args(2).Rets(true),
		tt.Args(4).Rets(true),
		// The end is inclusive for the purpose of cursor lookup.
		tt.Args(5).Rets(true),
		tt.Args(6).Rets(false),
	})
}

func TestSpan_Shift(t *testing.T) {
	if got := (Span{3, 7}).Shift(-3); got != (Span{0, 4}) {
		t.Errorf("Shift(-3) = %v, want {0 4}", got)
	}
	if got := PointSpan(4).Len(); got != 0 {
		t.Errorf("PointSpan(4).Len() = %d, want 0", got)
	}
}
