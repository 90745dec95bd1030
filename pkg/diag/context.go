package diag

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Context is a span of text in a named source. It is used to show parse
// errors and evaluation errors together with the offending part of the code.
type Context struct {
	Name   string
	Source string
	Span

	savedShowInfo *spanShowInfo
}

// NewContext creates a new Context. The span is relative to the start of
// source.
func NewContext(name, source string, s Span) *Context {
	return &Context{Name: name, Source: source, Span: s}
}

// Information about the source span that is needed for showing.
type spanShowInfo struct {
	// Head is the piece of text immediately before Culprit, extending to, but
	// not including the closest line boundary.
	Head string
	// Culprit is Source[Start:End], with any trailing newline stripped.
	Culprit string
	// Tail is the piece of text immediately after Culprit, extending to, but
	// not including the closest line boundary.
	Tail string
	// BeginLine and EndLine are 1-based line numbers of the first and the
	// last character of Culprit.
	BeginLine int
	EndLine   int
}

// Variables controlling the style of the culprit.
var (
	culpritStart       = "\033[1;4m"
	culpritEnd         = "\033[m"
	culpritPlaceHolder = "^"
)

func (c *Context) showInfo() *spanShowInfo {
	if c.savedShowInfo != nil {
		return c.savedShowInfo
	}

	before := c.Source[:c.Start]
	culprit := c.Source[c.Start:c.End]
	after := c.Source[c.End:]

	head := lastLine(before)
	beginLine := strings.Count(before, "\n") + 1

	var tail string
	if strings.HasSuffix(culprit, "\n") {
		culprit = culprit[:len(culprit)-1]
	} else {
		tail = firstLine(after)
	}

	endLine := beginLine + strings.Count(culprit, "\n")

	c.savedShowInfo = &spanShowInfo{head, culprit, tail, beginLine, endLine}
	return c.savedShowInfo
}

// Show shows the Context, with the position description and the source
// excerpt on separate lines.
func (c *Context) Show(sourceIndent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	return c.Name + ", " + c.lineRange() + "\n" +
		sourceIndent + c.relevantSource(sourceIndent)
}

// ShowCompact shows the Context with no line break between the position
// description and the source excerpt.
func (c *Context) ShowCompact(sourceIndent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	desc := c.Name + ", " + c.lineRange() + " "
	descIndent := strings.Repeat(" ", utf8.RuneCountInString(desc))
	return desc + c.relevantSource(sourceIndent+descIndent)
}

func (c *Context) checkPosition() error {
	if c.Start == -1 {
		return fmt.Errorf("%s, unknown position", c.Name)
	} else if c.Start < 0 || c.End > len(c.Source) || c.Start > c.End {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.Start, c.End)
	}
	return nil
}

func (c *Context) lineRange() string {
	info := c.showInfo()
	if info.BeginLine == info.EndLine {
		return fmt.Sprintf("line %d:", info.BeginLine)
	}
	return fmt.Sprintf("line %d-%d:", info.BeginLine, info.EndLine)
}

func (c *Context) relevantSource(sourceIndent string) string {
	info := c.showInfo()

	var buf bytes.Buffer
	buf.WriteString(info.Head)

	culprit := info.Culprit
	if culprit == "" {
		culprit = culpritPlaceHolder
	}

	for i, line := range strings.Split(culprit, "\n") {
		if i > 0 {
			buf.WriteByte('\n')
			buf.WriteString(sourceIndent)
		}
		buf.WriteString(culpritStart)
		buf.WriteString(line)
		buf.WriteString(culpritEnd)
	}

	buf.WriteString(info.Tail)
	return buf.String()
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i == -1 {
		return s
	}
	return s[:i]
}

func lastLine(s string) string {
	// When s does not contain '\n', LastIndexByte returns -1, which happens to
	// be what we want.
	return s[strings.LastIndexByte(s, '\n')+1:]
}
