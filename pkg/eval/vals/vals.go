// Package vals contains the runtime value model.
//
// Values are native Go values most of the time: nil is the nothing value,
// and bool, int64, float64 and string are used directly. Lists are
// persistent vectors, and blocks are represented by Block.
package vals

import (
	"fmt"

	"github.com/xiaq/persistent/vector"
	"src.nush.dev/pkg/ast"
)

// List is an alias for the underlying type used for lists.
type List = vector.Vector

// EmptyList is an empty list.
var EmptyList = vector.Empty

// MakeList creates a new List from values.
func MakeList(vs ...any) List {
	vec := vector.Empty
	for _, v := range vs {
		vec = vec.Cons(v)
	}
	return vec
}

// Block is a block value, produced by evaluating a { ... } literal.
type Block struct {
	ID ast.BlockID
}

// Kinder wraps the Kind method.
type Kinder interface {
	Kind() string
}

// Kind returns the kind of a value. For types it does not know about, it
// returns the Go type name preceded by "!!".
func Kind(v any) string {
	switch v := v.(type) {
	case nil:
		return "nothing"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case List:
		return "list"
	case Block:
		return "block"
	case Kinder:
		return v.Kind()
	default:
		return fmt.Sprintf("!!%T", v)
	}
}

// Iterate iterates over the elements of a list, stopping when f returns
// false.
func Iterate(l List, f func(any) bool) {
	for it := l.Iterator(); it.HasElem(); it.Next() {
		if !f(it.Elem()) {
			break
		}
	}
}
