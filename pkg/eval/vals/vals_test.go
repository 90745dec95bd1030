package vals

import (
	"math"
	"testing"

	. "src.nush.dev/pkg/tt"
)

func TestKind(t *testing.T) {
	Test(t, Fn("Kind", Kind), Table{
		Args(nil).Rets("nothing"),
		Args(true).Rets("bool"),
		Args(int64(1)).Rets("int"),
		Args(1.5).Rets("float"),
		Args("x").Rets("string"),
		Args(MakeList()).Rets("list"),
		Args(Block{ID: 1}).Rets("block"),
		Args(struct{}{}).Rets("!!struct {}"),
	})
}

func TestToString(t *testing.T) {
	Test(t, Fn("ToString", ToString), Table{
		Args(nil).Rets(""),
		Args(int64(42)).Rets("42"),
		Args(2.0).Rets("2.0"),
		Args(1e20).Rets("1e+20"),
		Args(0.00001).Rets("1e-05"),
		Args(math.Inf(1)).Rets("+Inf"),
		Args("foo").Rets("foo"),
		Args(MakeList("a", int64(1), MakeList())).Rets(`["a" 1 []]`),
		Args(Block{ID: 3}).Rets("<block 3>"),
	})
}

func TestAsString(t *testing.T) {
	Test(t, Fn("AsString", AsString), Table{
		Args("foo").Rets("foo", nil),
		Args(int64(1)).Rets("", WrongType{"string", "int"}),
	})
}
