package ast

import "strings"

// Signature describes the parameters of a command.
type Signature struct {
	Name     string
	Usage    string
	Required []PositionalArg
	Optional []PositionalArg
	Rest     *PositionalArg
	Named    []Flag
}

// PositionalArg is a positional parameter.
type PositionalArg struct {
	Name  string
	Desc  string
	Shape SyntaxShape
	// The variable that holds the argument inside the body of a custom
	// command, or NoVar.
	Var VarID
}

// Flag is a named parameter. Arg is nil for switches.
type Flag struct {
	Long     string
	Short    rune
	Arg      *SyntaxShape
	Required bool
	Desc     string
	Var      VarID
}

// NewSignature returns an empty signature with the given name.
func NewSignature(name string) *Signature {
	return &Signature{Name: name}
}

// Desc sets the usage of the signature.
func (s *Signature) Desc(usage string) *Signature {
	s.Usage = usage
	return s
}

// AddRequired adds a required positional parameter.
func (s *Signature) AddRequired(name string, shape SyntaxShape, desc string) *Signature {
	s.Required = append(s.Required, PositionalArg{name, desc, shape, NoVar})
	return s
}

// AddOptional adds an optional positional parameter.
func (s *Signature) AddOptional(name string, shape SyntaxShape, desc string) *Signature {
	s.Optional = append(s.Optional, PositionalArg{name, desc, shape, NoVar})
	return s
}

// SetRest sets the rest parameter.
func (s *Signature) SetRest(name string, shape SyntaxShape, desc string) *Signature {
	s.Rest = &PositionalArg{name, desc, shape, NoVar}
	return s
}

// AddNamed adds a flag that takes an argument of the given shape.
func (s *Signature) AddNamed(long string, shape SyntaxShape, short rune, desc string) *Signature {
	s.Named = append(s.Named, Flag{Long: long, Short: short, Arg: &shape, Desc: desc, Var: NoVar})
	return s
}

// AddSwitch adds a flag that takes no argument.
func (s *Signature) AddSwitch(long string, short rune, desc string) *Signature {
	s.Named = append(s.Named, Flag{Long: long, Short: short, Desc: desc, Var: NoVar})
	return s
}

// NumPositionals returns the number of required and optional positional
// parameters, not counting the rest parameter.
func (s *Signature) NumPositionals() int {
	return len(s.Required) + len(s.Optional)
}

// PositionalAt returns the parameter that the i-th positional argument binds
// to, or nil if there is none.
func (s *Signature) PositionalAt(i int) *PositionalArg {
	switch {
	case i < len(s.Required):
		return &s.Required[i]
	case i < s.NumPositionals():
		return &s.Optional[i-len(s.Required)]
	default:
		return s.Rest
	}
}

// FindLong finds a flag by its long name.
func (s *Signature) FindLong(long string) *Flag {
	if long == "" {
		return nil
	}
	for i := range s.Named {
		if s.Named[i].Long == long {
			return &s.Named[i]
		}
	}
	return nil
}

// FindShort finds a flag by its short name.
func (s *Signature) FindShort(short rune) *Flag {
	if short == 0 {
		return nil
	}
	for i := range s.Named {
		if s.Named[i].Short == short {
			return &s.Named[i]
		}
	}
	return nil
}

// String renders the signature roughly the way it is written in source.
func (s *Signature) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteString(" [")
	sep := ""
	write := func(parts ...string) {
		sb.WriteString(sep)
		for _, p := range parts {
			sb.WriteString(p)
		}
		sep = " "
	}
	for _, p := range s.Required {
		write(p.Name, ": ", p.Shape.String())
	}
	for _, p := range s.Optional {
		write(p.Name, "?: ", p.Shape.String())
	}
	if s.Rest != nil {
		write("...", s.Rest.Name, ": ", s.Rest.Shape.String())
	}
	for _, f := range s.Named {
		flag := "--" + f.Long
		if f.Short != 0 {
			flag += "(-" + string(f.Short) + ")"
		}
		if f.Arg != nil {
			write(flag, ": ", f.Arg.String())
		} else {
			write(flag)
		}
	}
	sb.WriteString("]")
	return sb.String()
}
