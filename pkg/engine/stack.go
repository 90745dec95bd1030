package engine

import (
	"fmt"

	"src.nush.dev/pkg/ast"
)

// Stack holds the values of variables during evaluation.
type Stack struct {
	vars   map[ast.VarID]any
	parent *Stack
	depth  int
}

// NewStack returns an empty Stack.
func NewStack() *Stack {
	return &Stack{vars: map[ast.VarID]any{}}
}

// Child returns a Stack whose lookups fall back to s.
func (s *Stack) Child() *Stack {
	return &Stack{vars: map[ast.VarID]any{}, parent: s, depth: s.depth + 1}
}

// Depth returns the number of ancestors of the Stack.
func (s *Stack) Depth() int { return s.depth }

// AddVar sets the value of a variable in this stack frame.
func (s *Stack) AddVar(id ast.VarID, v any) {
	s.vars[id] = v
}

// GetVar finds the value of a variable.
func (s *Stack) GetVar(id ast.VarID) (any, error) {
	for s := s; s != nil; s = s.parent {
		if v, ok := s.vars[id]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("variable %d not found", id)
}

// Absorb copies the variables set directly in child into s.
func (s *Stack) Absorb(child *Stack) {
	for id, v := range child.vars {
		s.vars[id] = v
	}
}
