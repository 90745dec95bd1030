package ast

import "src.nush.dev/pkg/diag"

// Call is a call to a declared command.
type Call struct {
	Head       diag.Span
	Decl       DeclID
	Positional []*Expression
	Named      []NamedArg
}

// NamedArg is a flag passed to a call. Value is nil for switches.
type NamedArg struct {
	Name  string
	Span  diag.Span
	Value *Expression
}

// HasFlag reports whether the call has a named argument with the given long
// name.
func (c *Call) HasFlag(name string) bool {
	for _, arg := range c.Named {
		if arg.Name == name {
			return true
		}
	}
	return false
}

// GetNamed returns the value of a named argument, or nil.
func (c *Call) GetNamed(name string) *Expression {
	for _, arg := range c.Named {
		if arg.Name == name {
			return arg.Value
		}
	}
	return nil
}
