package ast

// Block is a sequence of statements. Exports is only populated for the blocks
// of modules.
type Block struct {
	Stmts   []Statement
	Exports []Export
}

// Export is a declaration exported from a module under a name.
type Export struct {
	Name []byte
	Decl DeclID
}

// Statement is a statement in a block. The only form is *Pipeline; keyword
// forms like def are lowered to a pipeline containing a single call.
type Statement interface{ isStatement() }

// Pipeline is a sequence of expressions joined by |.
type Pipeline struct {
	Exprs []*Expression
}

func (*Pipeline) isStatement() {}

// PipelineOf returns a Pipeline made of the given expressions.
func PipelineOf(exprs ...*Expression) *Pipeline {
	return &Pipeline{Exprs: exprs}
}
