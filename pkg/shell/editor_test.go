package shell

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/edit/complete"
	"src.nush.dev/pkg/tt"
)

func TestBasicEditor(t *testing.T) {
	s, _ := newTestSession()
	var prompts strings.Builder
	ed := newBasicEditor(
		strings.NewReader("echo 1\r\necho (\n2)\n\nexit\necho 3\n"),
		&prompts, func() string { return "> " }, s.Incomplete)

	var codes []string
	ed.Loop(func(code string) bool {
		codes = append(codes, code)
		return code != "exit"
	})

	want := []string{"echo 1", "echo (\n2)", "", "exit"}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("codes (-want +got):\n%s", diff)
	}
	if got, want := prompts.String(), "> > ... > > "; got != want {
		t.Errorf("got prompts %q, want %q", got, want)
	}
}

func TestBasicEditor_IncompleteAtEOF(t *testing.T) {
	s, _ := newTestSession()
	ed := newBasicEditor(strings.NewReader("echo (\n"), io.Discard,
		func() string { return "" }, s.Incomplete)

	var codes []string
	ed.Loop(func(code string) bool {
		codes = append(codes, code)
		return true
	})
	if diff := cmp.Diff([]string{"echo ("}, codes); diff != "" {
		t.Errorf("codes (-want +got):\n%s", diff)
	}
}

func fakeCompleter(code string, pos int) []complete.Suggestion {
	if strings.HasPrefix(code[:pos], "echo fo") {
		return []complete.Suggestion{
			{Span: diag.Span{Start: 5, End: 8}, Text: "foo"},
			{Span: diag.Span{Start: 5, End: 8}, Text: "fox"},
		}
	}
	return nil
}

func TestLinerCompletions(t *testing.T) {
	f := func(line string, pos int) (string, []string, string) {
		return linerCompletions(fakeCompleter, line, pos)
	}
	tt.Test(t, tt.Fn("linerCompletions", f), tt.Table{
		tt.Args("echo fo", 7).Rets("echo ", []string{"foo", "fox"}, ""),
		// The rest of the word after the cursor is replaced.
		tt.Args("echo fox | x", 7).Rets("echo ", []string{"foo", "fox"}, " | x"),
		tt.Args("ls", 2).Rets("ls", []string(nil), ""),
		// Positions are in runes.
		tt.Args("é x", 2).Rets("é ", []string(nil), "x"),
	})
}

func TestColumns(t *testing.T) {
	tt.Test(t, tt.Fn("columns", columns), tt.Table{
		tt.Args([]string{"a", "bb", "ccc"}, 80).Rets("a    bb   ccc\n"),
		tt.Args([]string{"a", "bb", "ccc"}, 10).Rets("a    bb\nccc\n"),
		tt.Args([]string{"a", "bb"}, 3).Rets("a\nbb\n"),
		tt.Args([]string{}, 80).Rets(""),
	})
}
