package ast

// Type is the declared type of an expression or a variable.
type Type int

// Types.
const (
	TypeUnknown Type = iota
	TypeAny
	TypeInt
	TypeFloat
	TypeNumber
	TypeBool
	TypeString
	TypeFilepath
	TypeGlob
	TypeBlock
	TypeList
	TypeTable
	TypeRange
	TypeNothing
	TypeSignature
)

var typeNames = [...]string{
	TypeUnknown:   "unknown",
	TypeAny:       "any",
	TypeInt:       "int",
	TypeFloat:     "float",
	TypeNumber:    "number",
	TypeBool:      "bool",
	TypeString:    "string",
	TypeFilepath:  "path",
	TypeGlob:      "glob",
	TypeBlock:     "block",
	TypeList:      "list",
	TypeTable:     "table",
	TypeRange:     "range",
	TypeNothing:   "nothing",
	TypeSignature: "signature",
}

func (t Type) String() string {
	if 0 <= t && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "?"
}
