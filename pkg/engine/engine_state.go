package engine

import (
	"sort"

	"github.com/xiaq/persistent/vector"
	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
)

// EngineState is the permanent state of a session. The zero value is not
// usable; use NewEngineState.
//
// All tables are persistent, so Clone is O(1) and a clone can be changed
// with MergeDelta without affecting the original.
type EngineState struct {
	files  vector.Vector // *File
	decls  vector.Vector // Decl
	blocks vector.Vector // *ast.Block
	vars   vector.Vector // ast.Type
	root   rootFrame
}

// NewEngineState returns an empty EngineState.
func NewEngineState() *EngineState {
	return &EngineState{
		vector.Empty, vector.Empty, vector.Empty, vector.Empty, newRootFrame()}
}

// Clone returns a copy of the EngineState.
func (es *EngineState) Clone() *EngineState {
	clone := *es
	return &clone
}

// NumFiles returns the number of files.
func (es *EngineState) NumFiles() int { return es.files.Len() }

// NumDecls returns the number of declarations.
func (es *EngineState) NumDecls() int { return es.decls.Len() }

// NumBlocks returns the number of blocks.
func (es *EngineState) NumBlocks() int { return es.blocks.Len() }

// NumVars returns the number of variables.
func (es *EngineState) NumVars() int { return es.vars.Len() }

// GetFile returns a file by its index.
func (es *EngineState) GetFile(i int) *File {
	return mustIndex(es.files.Index(i)).(*File)
}

// GetDecl returns a declaration. It panics if the ID is not valid.
func (es *EngineState) GetDecl(id ast.DeclID) Decl {
	return mustIndex(es.decls.Index(int(id))).(Decl)
}

// GetBlock returns a block. It panics if the ID is not valid.
func (es *EngineState) GetBlock(id ast.BlockID) *ast.Block {
	return mustIndex(es.blocks.Index(int(id))).(*ast.Block)
}

// GetVarType returns the type of a variable. It panics if the ID is not
// valid.
func (es *EngineState) GetVarType(id ast.VarID) ast.Type {
	return mustIndex(es.vars.Index(int(id))).(ast.Type)
}

// FindDecl finds a declaration in the root scope.
func (es *EngineState) FindDecl(name string) (ast.DeclID, bool) {
	return es.root.findDecl(name)
}

// FindModule finds a module in the root scope.
func (es *EngineState) FindModule(name string) (ast.BlockID, bool) {
	return es.root.findModule(name)
}

// FindVariable finds a variable in the root scope. The name includes the
// leading $.
func (es *EngineState) FindVariable(name string) (ast.VarID, bool) {
	return es.root.findVar(name)
}

// DeclNames returns the names of all declarations in the root scope, sorted.
func (es *EngineState) DeclNames() []string {
	var names []string
	es.root.declNames(func(name string) { names = append(names, name) })
	sort.Strings(names)
	return names
}

// NextSpanStart returns where the next file added will start in the span
// space.
func (es *EngineState) NextSpanStart() int {
	if n := es.files.Len(); n > 0 {
		return es.GetFile(n - 1).End()
	}
	return 0
}

// GetSpanContents returns the bytes of a span. It returns nil if no file
// covers the span.
func (es *EngineState) GetSpanContents(s diag.Span) []byte {
	if f := es.fileOf(s); f != nil {
		return f.slice(s)
	}
	return nil
}

// ContextOf returns a source context for showing a span.
func (es *EngineState) ContextOf(s diag.Span) *diag.Context {
	if f := es.fileOf(s); f != nil {
		return f.context(s)
	}
	return diag.NewContext("[unknown]", "", diag.Span{})
}

func (es *EngineState) fileOf(s diag.Span) *File {
	n := es.files.Len()
	// Find the last file starting at or before s.Start.
	i := sort.Search(n, func(i int) bool { return es.GetFile(i).Start > s.Start }) - 1
	for ; i >= 0; i-- {
		f := es.GetFile(i)
		if f.covers(s) {
			return f
		}
		if f.End() < s.Start {
			break
		}
	}
	return nil
}

// MergeDelta applies the effects of a working set. Files, declarations,
// blocks and variables are appended, which keeps the IDs handed out by the
// working set valid; names bound in the outermost scope frame of the delta
// are bound in the root scope.
func (es *EngineState) MergeDelta(d *StateDelta) {
	for _, f := range d.files {
		es.files = es.files.Cons(f)
	}
	for _, decl := range d.decls {
		es.decls = es.decls.Cons(decl)
	}
	for _, b := range d.blocks {
		es.blocks = es.blocks.Cons(b)
	}
	for _, t := range d.vars {
		es.vars = es.vars.Cons(t)
	}
	if len(d.scope) > 0 {
		es.root = es.root.merge(d.scope[0])
	}
}

func mustIndex(v any, ok bool) any {
	if !ok {
		panic("internal error: index out of range")
	}
	return v
}
