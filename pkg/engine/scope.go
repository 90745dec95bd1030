package engine

import (
	"github.com/xiaq/persistent/hash"
	"github.com/xiaq/persistent/hashmap"
	"src.nush.dev/pkg/ast"
	"src.nush.dev/pkg/diag"
)

// ScopeFrame holds the names bound in one lexical scope of a working set.
type ScopeFrame struct {
	Vars    map[string]ast.VarID
	Decls   map[string]ast.DeclID
	Aliases map[string][]diag.Span
	Modules map[string]ast.BlockID
}

// NewScopeFrame returns an empty ScopeFrame.
func NewScopeFrame() *ScopeFrame {
	return &ScopeFrame{
		Vars:    map[string]ast.VarID{},
		Decls:   map[string]ast.DeclID{},
		Aliases: map[string][]diag.Span{},
		Modules: map[string]ast.BlockID{},
	}
}

// The root scope of an EngineState. Its tables are persistent maps from
// string names.
type rootFrame struct {
	vars    hashmap.Map
	decls   hashmap.Map
	aliases hashmap.Map
	modules hashmap.Map
}

var emptyNameMap = hashmap.New(
	func(a, b any) bool { return a.(string) == b.(string) },
	func(a any) uint32 { return hash.String(a.(string)) })

func newRootFrame() rootFrame {
	return rootFrame{emptyNameMap, emptyNameMap, emptyNameMap, emptyNameMap}
}

func (r rootFrame) merge(f *ScopeFrame) rootFrame {
	for name, id := range f.Vars {
		r.vars = r.vars.Assoc(name, id)
	}
	for name, id := range f.Decls {
		r.decls = r.decls.Assoc(name, id)
	}
	for name, spans := range f.Aliases {
		r.aliases = r.aliases.Assoc(name, spans)
	}
	for name, id := range f.Modules {
		r.modules = r.modules.Assoc(name, id)
	}
	return r
}

func (r rootFrame) findVar(name string) (ast.VarID, bool) {
	if v, ok := r.vars.Index(name); ok {
		return v.(ast.VarID), true
	}
	return 0, false
}

func (r rootFrame) findDecl(name string) (ast.DeclID, bool) {
	if v, ok := r.decls.Index(name); ok {
		return v.(ast.DeclID), true
	}
	return 0, false
}

func (r rootFrame) findAlias(name string) ([]diag.Span, bool) {
	if v, ok := r.aliases.Index(name); ok {
		return v.([]diag.Span), true
	}
	return nil, false
}

func (r rootFrame) findModule(name string) (ast.BlockID, bool) {
	if v, ok := r.modules.Index(name); ok {
		return v.(ast.BlockID), true
	}
	return 0, false
}

func (r rootFrame) declNames(f func(name string)) {
	for it := r.decls.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		f(k.(string))
	}
}
