package diag

import (
	"fmt"
	"strings"
)

// Error represents an error with context that can be showed.
type Error struct {
	Type    string
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d-%d in %s: %s",
		e.Type, e.Context.Start, e.Context.End, e.Context.Name, e.Message)
}

// Span returns the span of the error.
func (e *Error) Span() Span {
	return e.Context.Span
}

// Show shows the error.
func (e *Error) Show(indent string) string {
	header := fmt.Sprintf("%s: \033[31;1m%s\033[m\n", title(e.Type), e.Message)
	return header + e.Context.ShowCompact(indent+"  ")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
