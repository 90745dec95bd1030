// Package ast defines the abstract syntax tree produced by the parser.
//
// Expressions carry a span into the engine state's file table, a declared
// type and an optional custom completion. Declarations, blocks and variables
// are referred to by dense integer IDs that stay valid for the life of an
// engine state; see package engine.
package ast

import "src.nush.dev/pkg/diag"

// DeclID identifies a declaration.
type DeclID int

// BlockID identifies a block.
type BlockID int

// VarID identifies a variable.
type VarID int

// NoVar is the VarID of parameters that are not bound to a variable, such as
// the parameters of built-in commands.
const NoVar VarID = -1

// Expression is a node of the AST.
type Expression struct {
	Expr Expr
	Span diag.Span
	Type Type
	// The body of a user-supplied completion expression, or "" if the
	// expression has no custom completion.
	CustomCompletion string
}

// Expr is the variant part of an Expression. It is implemented by the pointer
// types in this file.
type Expr interface{ isExpr() }

type (
	// Garbage is an expression that failed to parse.
	Garbage struct{}
	Bool    struct{ Value bool }
	Int     struct{ Value int64 }
	Float   struct{ Value float64 }
	String  struct{ Value string }
	// Filepath is a string argument in a position that expects a path.
	Filepath struct{ Value string }
	// GlobPattern is a string argument in a position that expects a glob.
	GlobPattern struct{ Value string }
	Var         struct{ ID VarID }
	// OperatorExpr is an operator inside a math expression.
	OperatorExpr struct{ Op Operator }
	// Keyword is a keyword followed by an expression, like "= value" in
	// let and alias.
	Keyword struct {
		Word []byte
		Span diag.Span
		Expr *Expression
	}
	BinaryOp struct{ LHS, Op, RHS *Expression }
	// Range is from..to or from,next..to; each of the operands may be nil.
	Range struct {
		From, Next, To *Expression
		Op             RangeOperator
	}
	List  struct{ Elems []*Expression }
	Table struct {
		Headers []*Expression
		Rows    [][]*Expression
	}
	// FullCellPath is a head expression followed by .member accesses.
	FullCellPath struct {
		Head *Expression
		Tail []PathMember
	}
	CallExpr     struct{ Call *Call }
	ExternalCall struct {
		Name diag.Span
		Args []diag.Span
	}
	// BlockExpr is a { ... } block.
	BlockExpr struct{ ID BlockID }
	// Subexpression is a ( ... ) block.
	Subexpression struct{ ID BlockID }
	RowCondition  struct {
		Var  VarID
		Expr *Expression
	}
	SignatureExpr struct{ Sig *Signature }
)

func (*Garbage) isExpr() {}
func (*Bool) isExpr() {}
func (*Int) isExpr() {}
func (*Float) isExpr() {}
func (*String) isExpr() {}
func (*Filepath) isExpr() {}
func (*GlobPattern) isExpr() {}
func (*Var) isExpr() {}
func (*OperatorExpr) isExpr() {}
func (*Keyword) isExpr() {}
func (*BinaryOp) isExpr() {}
func (*Range) isExpr() {}
func (*List) isExpr() {}
func (*Table) isExpr() {}
func (*FullCellPath) isExpr() {}
func (*CallExpr) isExpr() {}
func (*ExternalCall) isExpr() {}
func (*BlockExpr) isExpr() {}
func (*Subexpression) isExpr() {}
func (*RowCondition) isExpr() {}
func (*SignatureExpr) isExpr() {}

// AsString returns the value of a string expression.
func (e *Expression) AsString() (string, bool) {
	if s, ok := e.Expr.(*String); ok {
		return s.Value, true
	}
	return "", false
}

// AsVar returns the variable of a variable expression.
func (e *Expression) AsVar() (VarID, bool) {
	if v, ok := e.Expr.(*Var); ok {
		return v.ID, true
	}
	return NoVar, false
}

// AsBlock returns the block ID of a block expression.
func (e *Expression) AsBlock() (BlockID, bool) {
	if b, ok := e.Expr.(*BlockExpr); ok {
		return b.ID, true
	}
	return 0, false
}

// AsSignature returns the signature of a signature expression.
func (e *Expression) AsSignature() (*Signature, bool) {
	if s, ok := e.Expr.(*SignatureExpr); ok {
		return s.Sig, true
	}
	return nil, false
}

// AsKeyword returns the expression after the keyword of a keyword expression.
func (e *Expression) AsKeyword() (*Expression, bool) {
	if k, ok := e.Expr.(*Keyword); ok {
		return k.Expr, true
	}
	return nil, false
}

// PathMemberKind is the kind of a PathMember.
type PathMemberKind int

// Kinds of path members.
const (
	StringMember PathMemberKind = iota
	IntMember
)

// PathMember is one member of a cell path, like "name" or "0" in $x.name.0.
type PathMember struct {
	Kind PathMemberKind
	Str  string
	Int  int
	Span diag.Span
}
