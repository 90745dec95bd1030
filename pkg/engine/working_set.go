package engine

import (
	"bytes"
	"sort"

	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
)

// StateDelta holds the effects of parsing that have not been merged into an
// EngineState.
type StateDelta struct {
	files  []*File
	decls  []Decl
	blocks []*ast.Block
	vars   []ast.Type
	scope  []*ScopeFrame
}

func newStateDelta() *StateDelta {
	return &StateDelta{scope: []*ScopeFrame{NewScopeFrame()}}
}

// NumFiles returns the number of files added by the delta.
func (d *StateDelta) NumFiles() int { return len(d.files) }

// NumDecls returns the number of declarations added by the delta.
func (d *StateDelta) NumDecls() int { return len(d.decls) }

// NumBlocks returns the number of blocks added by the delta.
func (d *StateDelta) NumBlocks() int { return len(d.blocks) }

// NumVars returns the number of variables added by the delta.
func (d *StateDelta) NumVars() int { return len(d.vars) }

func (d *StateDelta) lastFrame() *ScopeFrame {
	return d.scope[len(d.scope)-1]
}

// StateWorkingSet is an overlay over an EngineState that collects the
// effects of a parse. The EngineState is only read.
//
// IDs are dense across the two layers: an ID below the size of the
// corresponding permanent table refers to the EngineState, and any other ID
// refers to the delta.
type StateWorkingSet struct {
	Delta     *StateDelta
	permanent *EngineState
}

// NewWorkingSet returns a working set over es with an empty delta.
func NewWorkingSet(es *EngineState) *StateWorkingSet {
	return &StateWorkingSet{newStateDelta(), es}
}

// Permanent returns the EngineState under the working set.
func (ws *StateWorkingSet) Permanent() *EngineState { return ws.permanent }

// Render returns the delta, to be passed to EngineState.MergeDelta.
func (ws *StateWorkingSet) Render() *StateDelta { return ws.Delta }

// AddFile adds a source file, and returns the span where it starts.
func (ws *StateWorkingSet) AddFile(name string, contents []byte) int {
	start := ws.NextSpanStart()
	ws.Delta.files = append(ws.Delta.files, &File{name, start, contents})
	return start
}

// NextSpanStart returns where the next file added will start in the span
// space.
func (ws *StateWorkingSet) NextSpanStart() int {
	if n := len(ws.Delta.files); n > 0 {
		return ws.Delta.files[n-1].End()
	}
	return ws.permanent.NextSpanStart()
}

// GetSpanContents returns the bytes of a span, or nil if the span is not
// inside any file.
func (ws *StateWorkingSet) GetSpanContents(s diag.Span) []byte {
	if f := ws.fileOf(s); f != nil {
		return f.slice(s)
	}
	return nil
}

// ContextOf returns a source context for showing a span.
func (ws *StateWorkingSet) ContextOf(s diag.Span) *diag.Context {
	if f := ws.fileOf(s); f != nil {
		return f.context(s)
	}
	return diag.NewContext("[unknown]", "", diag.Span{})
}

func (ws *StateWorkingSet) fileOf(s diag.Span) *File {
	for i := len(ws.Delta.files) - 1; i >= 0; i-- {
		if f := ws.Delta.files[i]; f.covers(s) {
			return f
		}
	}
	return ws.permanent.fileOf(s)
}

// EnterScope pushes a new scope frame.
func (ws *StateWorkingSet) EnterScope() {
	ws.Delta.scope = append(ws.Delta.scope, NewScopeFrame())
}

// ExitScope pops the innermost scope frame.
func (ws *StateWorkingSet) ExitScope() {
	ws.Delta.scope = ws.Delta.scope[:len(ws.Delta.scope)-1]
}

// ScopeDepth returns the number of scope frames in the delta.
func (ws *StateWorkingSet) ScopeDepth() int { return len(ws.Delta.scope) }

// AddDecl adds a declaration and binds its name in the innermost scope.
func (ws *StateWorkingSet) AddDecl(d Decl) ast.DeclID {
	id := ast.DeclID(ws.NumDecls())
	ws.Delta.decls = append(ws.Delta.decls, d)
	ws.Delta.lastFrame().Decls[d.Name()] = id
	return id
}

// FindPredeclaredInFrame finds a predeclaration bound to name in the
// innermost scope.
func (ws *StateWorkingSet) FindPredeclaredInFrame(name []byte) (ast.DeclID, bool) {
	id, ok := ws.Delta.lastFrame().Decls[string(name)]
	if !ok || int(id) < ws.permanent.NumDecls() {
		return 0, false
	}
	return id, ws.GetDecl(id).IsPredeclared()
}

// NumDecls returns the total number of declarations.
func (ws *StateWorkingSet) NumDecls() int {
	return ws.permanent.NumDecls() + len(ws.Delta.decls)
}

// GetDecl returns a declaration. It panics if the ID is not valid.
func (ws *StateWorkingSet) GetDecl(id ast.DeclID) Decl {
	if n := ws.permanent.NumDecls(); int(id) >= n {
		return ws.Delta.decls[int(id)-n]
	}
	return ws.permanent.GetDecl(id)
}

// GetDeclMut returns a pointer to the slot of a declaration added by the
// working set, so that it can be replaced while keeping its ID. It panics
// if the declaration is permanent.
func (ws *StateWorkingSet) GetDeclMut(id ast.DeclID) *Decl {
	n := ws.permanent.NumDecls()
	if int(id) < n {
		panic("internal error: mutating a permanent declaration")
	}
	return &ws.Delta.decls[int(id)-n]
}

// FindDecl finds the declaration visible under a name.
func (ws *StateWorkingSet) FindDecl(name []byte) (ast.DeclID, bool) {
	for i := len(ws.Delta.scope) - 1; i >= 0; i-- {
		if id, ok := ws.Delta.scope[i].Decls[string(name)]; ok {
			return id, true
		}
	}
	return ws.permanent.root.findDecl(string(name))
}

// FindCommandsByPrefix returns the names of all visible declarations that
// start with prefix, sorted.
func (ws *StateWorkingSet) FindCommandsByPrefix(prefix []byte) [][]byte {
	seen := map[string]bool{}
	var names [][]byte
	add := func(name string) {
		if !seen[name] && bytes.HasPrefix([]byte(name), prefix) {
			seen[name] = true
			names = append(names, []byte(name))
		}
	}
	for i := len(ws.Delta.scope) - 1; i >= 0; i-- {
		for name := range ws.Delta.scope[i].Decls {
			add(name)
		}
	}
	ws.permanent.root.declNames(add)
	sort.Slice(names, func(i, j int) bool { return bytes.Compare(names[i], names[j]) < 0 })
	return names
}

// ActivateOverlay binds the given declarations in the innermost scope,
// shadowing earlier bindings of the same names.
func (ws *StateWorkingSet) ActivateOverlay(overlay []ast.Export) {
	frame := ws.Delta.lastFrame()
	for _, e := range overlay {
		frame.Decls[string(e.Name)] = e.Decl
	}
}

// AddAlias binds an alias in the innermost scope.
func (ws *StateWorkingSet) AddAlias(name []byte, replacement []diag.Span) {
	ws.Delta.lastFrame().Aliases[string(name)] = replacement
}

// FindAlias finds the replacement of an alias.
func (ws *StateWorkingSet) FindAlias(name []byte) ([]diag.Span, bool) {
	for i := len(ws.Delta.scope) - 1; i >= 0; i-- {
		if spans, ok := ws.Delta.scope[i].Aliases[string(name)]; ok {
			return spans, true
		}
	}
	return ws.permanent.root.findAlias(string(name))
}

// AddBlock adds a block.
func (ws *StateWorkingSet) AddBlock(b *ast.Block) ast.BlockID {
	ws.Delta.blocks = append(ws.Delta.blocks, b)
	return ast.BlockID(ws.permanent.NumBlocks() + len(ws.Delta.blocks) - 1)
}

// GetBlock returns a block. It panics if the ID is not valid.
func (ws *StateWorkingSet) GetBlock(id ast.BlockID) *ast.Block {
	if n := ws.permanent.NumBlocks(); int(id) >= n {
		return ws.Delta.blocks[int(id)-n]
	}
	return ws.permanent.GetBlock(id)
}

// AddModule adds the block of a module and binds it under name in the
// innermost scope.
func (ws *StateWorkingSet) AddModule(name []byte, b *ast.Block) ast.BlockID {
	id := ws.AddBlock(b)
	ws.Delta.lastFrame().Modules[string(name)] = id
	return id
}

// FindModule finds the block of a module.
func (ws *StateWorkingSet) FindModule(name []byte) (ast.BlockID, bool) {
	for i := len(ws.Delta.scope) - 1; i >= 0; i-- {
		if id, ok := ws.Delta.scope[i].Modules[string(name)]; ok {
			return id, true
		}
	}
	return ws.permanent.root.findModule(string(name))
}

// AddVariable adds a variable and binds it in the innermost scope. A $ is
// prepended to the name if it does not have one.
func (ws *StateWorkingSet) AddVariable(name []byte, t ast.Type) ast.VarID {
	id := ast.VarID(ws.permanent.NumVars() + len(ws.Delta.vars))
	ws.Delta.vars = append(ws.Delta.vars, t)
	ws.Delta.lastFrame().Vars[varName(name)] = id
	return id
}

// FindVariable finds a variable by name, with or without the leading $.
func (ws *StateWorkingSet) FindVariable(name []byte) (ast.VarID, bool) {
	key := varName(name)
	for i := len(ws.Delta.scope) - 1; i >= 0; i-- {
		if id, ok := ws.Delta.scope[i].Vars[key]; ok {
			return id, true
		}
	}
	return ws.permanent.root.findVar(key)
}

// SetVariableType changes the type of a variable added by the working set.
// Types of permanent variables are left alone.
func (ws *StateWorkingSet) SetVariableType(id ast.VarID, t ast.Type) {
	if n := ws.permanent.NumVars(); int(id) >= n {
		ws.Delta.vars[int(id)-n] = t
	}
}

// GetVariable returns the type of a variable. It panics if the ID is not
// valid.
func (ws *StateWorkingSet) GetVariable(id ast.VarID) ast.Type {
	if n := ws.permanent.NumVars(); int(id) >= n {
		return ws.Delta.vars[int(id)-n]
	}
	return ws.permanent.GetVarType(id)
}

func varName(name []byte) string {
	if bytes.HasPrefix(name, []byte("$")) {
		return string(name)
	}
	return "$" + string(name)
}
