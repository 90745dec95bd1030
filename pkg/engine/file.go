package engine

import "src.nush.dev/pkg/diag"

// File is a source buffer. All files share one span space: a file occupies
// the spans from Start to Start+len(Contents).
type File struct {
	Name     string
	Start    int
	Contents []byte
}

// End returns the end of the file in the span space.
func (f *File) End() int { return f.Start + len(f.Contents) }

func (f *File) covers(s diag.Span) bool {
	return f.Start <= s.Start && s.End <= f.End()
}

func (f *File) slice(s diag.Span) []byte {
	return f.Contents[s.Start-f.Start : s.End-f.Start]
}

func (f *File) context(s diag.Span) *diag.Context {
	return diag.NewContext(f.Name, string(f.Contents), s.Shift(-f.Start))
}
