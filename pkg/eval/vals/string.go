package vals

import (
	"math"
	"strconv"
	"strings"
)

// Stringer wraps the String method.
type Stringer interface {
	String() string
}

// ToString converts a value to a string for display.
func ToString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat64(v)
	case string:
		return v
	case List:
		var sb strings.Builder
		sb.WriteString("[")
		i := 0
		Iterate(v, func(e any) bool {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(Repr(e))
			i++
			return true
		})
		sb.WriteString("]")
		return sb.String()
	case Block:
		return "<block " + strconv.Itoa(int(v.ID)) + ">"
	case Stringer:
		return v.String()
	default:
		return Repr(v)
	}
}

// Repr returns a representation of a value that can be read back for the
// scalar types.
func Repr(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case nil:
		return "$nothing"
	case bool, int64, float64, List, Block, Stringer:
		return ToString(v)
	default:
		return "<unknown " + Kind(v) + ">"
	}
}

func formatFloat64(f float64) string {
	// The 'g' format switches to scientific notation too eagerly; use
	// positional notation unless the number is very large or very small.
	s := strconv.FormatFloat(f, 'f', -1, 64)
	noPoint := !strings.ContainsRune(s, '.')
	if (noPoint && len(s) > 14 && s[len(s)-1] == '0') ||
		strings.HasPrefix(s, "0.0000") {
		return strconv.FormatFloat(f, 'e', -1, 64)
	} else if noPoint && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return s + ".0"
	}
	return s
}
