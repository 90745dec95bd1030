// Package engine contains the state shared between parsing and evaluation.
//
// An EngineState is the permanent registry of source files, declarations,
// blocks and variables. It is built on persistent data structures, so copying
// it is cheap. Parsing never mutates an EngineState directly; it records its
// effects in a StateWorkingSet, whose delta is merged with MergeDelta once
// the parse has succeeded.
package engine

import (
	"fmt"

	"src.nush.dev/pkg/ast"
)

// Decl is the declaration of a command.
type Decl interface {
	Name() string
	Signature() *ast.Signature
	Usage() string
	// IsPredeclared reports whether the declaration is a placeholder created
	// before the body of a def has been parsed.
	IsPredeclared() bool
	// BlockID returns the block implementing a custom command.
	BlockID() (ast.BlockID, bool)
	Run(ctx *Context, call *ast.Call, input any) (any, error)
}

// Predeclaration stands in for a def whose body has not been parsed yet.
type Predeclaration struct {
	Sig *ast.Signature
}

var _ Decl = (*Predeclaration)(nil)

func (d *Predeclaration) Name() string              { return d.Sig.Name }
func (d *Predeclaration) Signature() *ast.Signature { return d.Sig }
func (d *Predeclaration) Usage() string             { return d.Sig.Usage }
func (d *Predeclaration) IsPredeclared() bool       { return true }

func (d *Predeclaration) BlockID() (ast.BlockID, bool) { return 0, false }

func (d *Predeclaration) Run(*Context, *ast.Call, any) (any, error) {
	return nil, fmt.Errorf("command %s is declared but not defined", d.Sig.Name)
}

// BlockCommand is a custom command defined with def.
type BlockCommand struct {
	Sig   *ast.Signature
	Block ast.BlockID
}

var _ Decl = (*BlockCommand)(nil)

func (d *BlockCommand) Name() string              { return d.Sig.Name }
func (d *BlockCommand) Signature() *ast.Signature { return d.Sig }
func (d *BlockCommand) Usage() string             { return d.Sig.Usage }
func (d *BlockCommand) IsPredeclared() bool       { return false }

func (d *BlockCommand) BlockID() (ast.BlockID, bool) { return d.Block, true }

func (d *BlockCommand) Run(ctx *Context, call *ast.Call, input any) (any, error) {
	return ctx.CallBlock(ctx, d.Block, d.Sig, call, input)
}
