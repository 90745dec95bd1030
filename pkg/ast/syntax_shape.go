package ast

// ShapeKind is the kind of a SyntaxShape.
type ShapeKind int

// Kinds of syntax shapes.
const (
	ShapeAny ShapeKind = iota
	ShapeString
	ShapeInt
	ShapeNumber
	ShapeBoolean
	ShapeFilepath
	ShapeGlobPattern
	ShapeBlock
	ShapeSignature
	ShapeRange
	ShapeList
	ShapeTable
	ShapeVariable
	// A variable name with an optional ": type" annotation, as in let.
	ShapeVarWithOptType
	ShapeOperator
	ShapeRowCondition
	ShapeMathExpression
	// Everything up to the end of the call, parsed as one expression.
	ShapeExpression
	// A fixed keyword followed by an inner shape.
	ShapeKeyword
	ShapeImportPattern
	// An inner shape with a completion expression attached.
	ShapeCustom
)

// SyntaxShape describes what the parser should expect at an argument
// position.
type SyntaxShape struct {
	Kind ShapeKind
	// Set for ShapeKeyword.
	Keyword []byte
	// Set for ShapeKeyword, ShapeList and ShapeCustom.
	Inner *SyntaxShape
	// Set for ShapeCustom.
	Completion string
}

// ShapeOf returns a SyntaxShape of a kind that has no parameters.
func ShapeOf(k ShapeKind) SyntaxShape {
	return SyntaxShape{Kind: k}
}

// KeywordShape returns the shape of a keyword followed by inner.
func KeywordShape(keyword string, inner SyntaxShape) SyntaxShape {
	return SyntaxShape{Kind: ShapeKeyword, Keyword: []byte(keyword), Inner: &inner}
}

// ListShape returns the shape of a list whose elements have the inner shape.
func ListShape(inner SyntaxShape) SyntaxShape {
	return SyntaxShape{Kind: ShapeList, Inner: &inner}
}

// CustomShape returns inner with a custom completion attached.
func CustomShape(inner SyntaxShape, completion string) SyntaxShape {
	return SyntaxShape{Kind: ShapeCustom, Inner: &inner, Completion: completion}
}

// Type returns the type of values that this shape parses to.
func (s SyntaxShape) Type() Type {
	switch s.Kind {
	case ShapeAny, ShapeExpression, ShapeMathExpression, ShapeVariable, ShapeVarWithOptType:
		return TypeUnknown
	case ShapeString, ShapeImportPattern:
		return TypeString
	case ShapeInt:
		return TypeInt
	case ShapeNumber:
		return TypeNumber
	case ShapeBoolean, ShapeRowCondition:
		return TypeBool
	case ShapeFilepath:
		return TypeFilepath
	case ShapeGlobPattern:
		return TypeGlob
	case ShapeBlock:
		return TypeBlock
	case ShapeSignature:
		return TypeSignature
	case ShapeRange:
		return TypeRange
	case ShapeList:
		return TypeList
	case ShapeTable:
		return TypeTable
	case ShapeKeyword, ShapeCustom:
		return s.Inner.Type()
	}
	return TypeUnknown
}

func (s SyntaxShape) String() string {
	switch s.Kind {
	case ShapeKeyword:
		return string(s.Keyword) + " " + s.Inner.String()
	case ShapeList:
		return "list<" + s.Inner.String() + ">"
	case ShapeCustom:
		return s.Inner.String() + "(" + s.Completion + ")"
	}
	return shapeNames[s.Kind]
}

var shapeNames = [...]string{
	ShapeAny:            "any",
	ShapeString:         "string",
	ShapeInt:            "int",
	ShapeNumber:         "number",
	ShapeBoolean:        "bool",
	ShapeFilepath:       "path",
	ShapeGlobPattern:    "glob",
	ShapeBlock:          "block",
	ShapeSignature:      "signature",
	ShapeRange:          "range",
	ShapeList:           "list",
	ShapeTable:          "table",
	ShapeVariable:       "variable",
	ShapeVarWithOptType: "variable",
	ShapeOperator:       "operator",
	ShapeRowCondition:   "condition",
	ShapeMathExpression: "math",
	ShapeExpression:     "expression",
	ShapeKeyword:        "keyword",
	ShapeImportPattern:  "import pattern",
	ShapeCustom:         "custom",
}
