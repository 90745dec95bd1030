package diag

import (
	"strings"
	"testing"

	"src.nush.dev/pkg/testutil"
)

var contextTests = []struct {
	name    string
	context *Context
	indent  string

	wantShow        string
	wantShowCompact string
}{
	{
		name:    "single-line culprit",
		context: contextInParen("[test]", "echo (bad)"),
		indent:  "_",

		wantShow:        "[test], line 1:\n_echo <(bad)>",
		wantShowCompact: "[test], line 1: echo <(bad)>",
	},
	{
		name:    "multi-line culprit",
		context: contextInParen("[test]", "echo (bad\nbad)\nmore"),
		indent:  "_",

		wantShow:        "[test], line 1-2:\n_echo <(bad>\n_<bad)>",
		wantShowCompact: "[test], line 1-2: echo <(bad>\n_                  <bad)>",
	},
	{
		name:    "trailing newline in culprit is removed",
		context: NewContext("[test]", "echo bad\n", Span{5, 9}),
		indent:  "_",

		wantShow:        "[test], line 1:\n_echo <bad>",
		wantShowCompact: "[test], line 1: echo <bad>",
	},
	{
		name:    "empty culprit",
		context: NewContext("[test]", "echo x", Span{5, 5}),

		wantShow:        "[test], line 1:\necho <^>x",
		wantShowCompact: "[test], line 1: echo <^>x",
	},
	{
		name:            "unknown culprit span",
		context:         NewContext("[test]", "echo", Span{-1, -1}),
		wantShow:        "[test], unknown position",
		wantShowCompact: "[test], unknown position",
	},
	{
		name:            "invalid culprit span",
		context:         NewContext("[test]", "echo", Span{2, 1}),
		wantShow:        "[test], invalid position 2-1",
		wantShowCompact: "[test], invalid position 2-1",
	},
}

func TestContext(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	for _, test := range contextTests {
		t.Run(test.name, func(t *testing.T) {
			gotShow := test.context.Show(test.indent)
			if gotShow != test.wantShow {
				t.Errorf("Show() -> %q, want %q", gotShow, test.wantShow)
			}
			gotShowCompact := test.context.ShowCompact(test.indent)
			if gotShowCompact != test.wantShowCompact {
				t.Errorf("ShowCompact() -> %q, want %q",
					gotShowCompact, test.wantShowCompact)
			}
		})
	}
}

// Returns a Context with the given name and source, and a span for the part
// between ( and ).
func contextInParen(name, src string) *Context {
	return NewContext(name, src,
		Span{strings.Index(src, "("), strings.Index(src, ")") + 1})
}

func setCulpritMarkers(t *testing.T, start, end string) {
	testutil.Set(t, &culpritStart, start)
	testutil.Set(t, &culpritEnd, end)
}
