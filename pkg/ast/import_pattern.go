package ast

import "src.nush.dev/pkg/diag"

// ImportPattern is the argument of use, like m, m.*, m.a or m.[a b].
type ImportPattern struct {
	Head    ImportName
	Members []ImportMember
}

// ImportName is a name in an import pattern.
type ImportName struct {
	Name []byte
	Span diag.Span
}

// ImportMemberKind is the kind of an ImportMember.
type ImportMemberKind int

// Kinds of import members.
const (
	GlobMember ImportMemberKind = iota
	NameMember
	ListMember
)

// ImportMember is a selector after the head of an import pattern.
type ImportMember struct {
	Kind ImportMemberKind
	Span diag.Span
	// Set for NameMember.
	Name []byte
	// Set for ListMember.
	Names []ImportName
}
