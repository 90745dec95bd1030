package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/peterh/liner"
	"src.nush.dev/pkg/edit/complete"
)

// This type is the interface that line editors have to satisfy.
type editor interface {
	// Loop reads code until the input ends or handle returns false, calling
	// handle with each piece of code.
	Loop(handle func(code string) bool)
	Close() error
}

const continuationPrompt = "... "

// An editor that reads one line at a time, and keeps reading while the code
// is incomplete.
type lineEditor struct {
	readLine   func(prompt string) (string, error)
	addHistory func(code string)
	close      func() error
	prompt     func() string
	incomplete func(code string) bool
	stderr     io.Writer
}

func (ed *lineEditor) Close() error { return ed.close() }

func (ed *lineEditor) Loop(handle func(code string) bool) {
	for {
		code, err := ed.readCode()
		if err == io.EOF {
			return
		} else if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C discards the code being typed.
			continue
		} else if err != nil {
			fmt.Fprintln(ed.stderr, "Editor error:", err)
			return
		}
		if strings.TrimSpace(code) != "" {
			ed.addHistory(code)
		}
		if !handle(code) {
			return
		}
	}
}

func (ed *lineEditor) readCode() (string, error) {
	var sb strings.Builder
	for {
		p := continuationPrompt
		if sb.Len() == 0 {
			p = ed.prompt()
		}
		line, err := ed.readLine(p)
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
		if !ed.incomplete(sb.String()) {
			return sb.String(), nil
		}
	}
}

// Returns an editor that reads lines from in and writes the prompt to out.
func newBasicEditor(in io.Reader, out io.Writer, prompt func() string, incomplete func(string) bool) *lineEditor {
	r := bufio.NewReader(in)
	return &lineEditor{
		readLine: func(p string) (string, error) {
			fmt.Fprint(out, p)
			line, err := r.ReadString('\n')
			if err == io.EOF && line != "" {
				err = nil
			}
			return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), err
		},
		addHistory: func(string) {},
		close:      func() error { return nil },
		prompt:     prompt, incomplete: incomplete, stderr: out,
	}
}

// Returns an editor using liner. It works on the process's own terminal.
func newLinerEditor(stderr io.Writer, history []string, prompt func() string, incomplete func(string) bool, c completeFunc) *lineEditor {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	st.SetTabCompletionStyle(liner.TabPrints)
	st.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		return linerCompletions(c, line, pos)
	})
	for _, code := range history {
		st.AppendHistory(code)
	}
	return &lineEditor{
		readLine:   st.Prompt,
		addHistory: st.AppendHistory,
		close:      st.Close,
		prompt:     prompt, incomplete: incomplete, stderr: stderr,
	}
}

type completeFunc func(code string, pos int) []complete.Suggestion

// Adapts completions to liner's word completer. The cursor position is in
// runes.
func linerCompletions(c completeFunc, line string, pos int) (head string, items []string, tail string) {
	bytePos := len(string([]rune(line)[:pos]))
	suggestions := c(line, bytePos)
	if len(suggestions) == 0 {
		return line[:bytePos], nil, line[bytePos:]
	}
	span := suggestions[0].Span
	for _, s := range suggestions {
		items = append(items, s.Text)
	}
	return line[:span.Start], items, line[max(span.End, bytePos):]
}

// An editor using go-prompt. Ctrl-D on an empty line ends the input.
type promptEditor struct {
	history  []string
	prompt   func() string
	complete completeFunc
}

func (ed *promptEditor) Close() error { return nil }

func (ed *promptEditor) Loop(handle func(code string) bool) {
	done := false
	p := prompt.New(
		func(code string) {
			if !done {
				done = !handle(code)
			}
		},
		ed.suggest,
		prompt.OptionTitle("nush"),
		prompt.OptionLivePrefix(func() (string, bool) { return ed.prompt(), true }),
		prompt.OptionHistory(ed.history),
		prompt.OptionSetExitCheckerOnInput(func(string, bool) bool { return done }),
	)
	p.Run()
}

func (ed *promptEditor) suggest(d prompt.Document) []prompt.Suggest {
	var suggests []prompt.Suggest
	for _, s := range ed.complete(d.Text, len(d.TextBeforeCursor())) {
		suggests = append(suggests, prompt.Suggest{Text: s.Text})
	}
	return suggests
}
