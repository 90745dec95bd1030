// Package diag contains building blocks for formatting source diagnostics:
// spans, source contexts and errors that can show them.
package diag

// Span is a half-open byte interval [Start, End) into a source buffer. Which
// buffer is implied by the context the span is used in; for the parser, spans
// index into the file table of the engine state.
type Span struct {
	Start int
	End   int
}

// PointSpan returns a zero-width Span at the given point.
func PointSpan(p int) Span {
	return Span{p, p}
}

// SpanOf returns a Span from the start of the first span to the end of the
// last span. It returns a zero Span if spans is empty.
func SpanOf(spans []Span) Span {
	if len(spans) == 0 {
		return Span{}
	}
	return Span{spans[0].Start, spans[len(spans)-1].End}
}

// Contains reports whether pos lies within the span. Both ends are inclusive,
// so that a cursor placed right after the last byte of a word still belongs to
// the word.
func (s Span) Contains(pos int) bool {
	return s.Start <= pos && pos <= s.End
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Shift returns the span moved by delta bytes.
func (s Span) Shift(delta int) Span {
	return Span{s.Start + delta, s.End + delta}
}
