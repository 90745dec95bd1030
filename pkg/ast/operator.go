package ast

import "src.nush.dev/pkg/diag"

// Operator is a binary operator of math expressions.
type Operator int

// Operators.
const (
	OpEqual Operator = iota
	OpNotEqual
	OpLessThan
	OpGreaterThan
	OpLessThanOrEqual
	OpGreaterThanOrEqual
	OpContains
	OpNotContains
	OpPlus
	OpMinus
	OpMultiply
	OpDivide
	OpModulo
	OpPow
	OpIn
	OpNotIn
	OpAnd
	OpOr
)

var operatorNames = [...]string{
	OpEqual:              "==",
	OpNotEqual:           "!=",
	OpLessThan:           "<",
	OpGreaterThan:        ">",
	OpLessThanOrEqual:    "<=",
	OpGreaterThanOrEqual: ">=",
	OpContains:           "=~",
	OpNotContains:        "!~",
	OpPlus:               "+",
	OpMinus:              "-",
	OpMultiply:           "*",
	OpDivide:             "/",
	OpModulo:             "mod",
	OpPow:                "**",
	OpIn:                 "in",
	OpNotIn:              "not-in",
	OpAnd:                "&&",
	OpOr:                 "||",
}

func (op Operator) String() string { return operatorNames[op] }

// OperatorOf looks up an operator by its source text.
func OperatorOf(s string) (Operator, bool) {
	for i, name := range operatorNames {
		if name == s {
			return Operator(i), true
		}
	}
	return 0, false
}

// Precedence returns the binding strength of the operator; higher binds
// tighter.
func (op Operator) Precedence() int {
	switch op {
	case OpPow:
		return 100
	case OpMultiply, OpDivide, OpModulo:
		return 95
	case OpPlus, OpMinus:
		return 90
	case OpNotContains, OpContains, OpLessThan, OpLessThanOrEqual,
		OpNotEqual, OpIn, OpNotIn, OpGreaterThan, OpGreaterThanOrEqual, OpEqual:
		return 80
	case OpAnd:
		return 50
	case OpOr:
		return 40
	}
	return 0
}

// RangeInclusion says whether the upper bound of a range is included.
type RangeInclusion int

// Range inclusions.
const (
	Inclusive      RangeInclusion = iota // ..
	RightExclusive                       // ..<
)

// RangeOperator records the operator tokens of a range expression.
type RangeOperator struct {
	Inclusion RangeInclusion
	// Span of the .. or ..< operator.
	Span diag.Span
	// Span of the "," separating from and next; zero when there is no next.
	NextOpSpan diag.Span
}
