// Package progtest contains utilities for testing [prog.Program]
// implementations.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"src.nush.dev/pkg/must"
	"src.nush.dev/pkg/prog"
)

// Case is a test case for Test, built with ThatNush and chained setters.
type Case struct {
	args  []string
	stdin string

	exit      int
	wantOut   *outputMatcher
	wantErr   *outputMatcher
	wantNoOut bool
}

type outputMatcher struct {
	text     string
	contains bool
}

// ThatNush returns a Case that runs the program with the given arguments. By
// default it expects exit status 0 and does not check output.
func ThatNush(args ...string) *Case {
	return &Case{args: append([]string{"nush"}, args...)}
}

// WithStdin sets the content of stdin.
func (c *Case) WithStdin(s string) *Case {
	c.stdin = s
	return c
}

// ExitsWith requires the program to exit with the given status.
func (c *Case) ExitsWith(code int) *Case {
	c.exit = code
	return c
}

// DoesNothing requires the program to exit with 0 and write nothing.
func (c *Case) DoesNothing() *Case {
	c.wantNoOut = true
	return c
}

// WritesStdout requires stdout to be exactly s.
func (c *Case) WritesStdout(s string) *Case {
	c.wantOut = &outputMatcher{s, false}
	return c
}

// WritesStdoutContaining requires stdout to contain s.
func (c *Case) WritesStdoutContaining(s string) *Case {
	c.wantOut = &outputMatcher{s, true}
	return c
}

// WritesStderr requires stderr to be exactly s.
func (c *Case) WritesStderr(s string) *Case {
	c.wantErr = &outputMatcher{s, false}
	return c
}

// WritesStderrContaining requires stderr to contain s.
func (c *Case) WritesStderrContaining(s string) *Case {
	c.wantErr = &outputMatcher{s, true}
	return c
}

func (m *outputMatcher) match(s string) bool {
	if m.contains {
		return strings.Contains(s, m.text)
	}
	return s == m.text
}

// Test runs each case against p.
func Test(t *testing.T, p prog.Program, cases ...*Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			exit, stdout, stderr := Run(p, c.stdin, c.args...)
			if exit != c.exit {
				t.Errorf("got exit %v, want %v\nstderr: %s", exit, c.exit, stderr)
			}
			if c.wantNoOut && (stdout != "" || stderr != "") {
				t.Errorf("got stdout %q, stderr %q, want nothing", stdout, stderr)
			}
			if c.wantOut != nil && !c.wantOut.match(stdout) {
				t.Errorf("got stdout %q, want %s %q", stdout, verb(c.wantOut), c.wantOut.text)
			}
			if c.wantErr != nil && !c.wantErr.match(stderr) {
				t.Errorf("got stderr %q, want %s %q", stderr, verb(c.wantErr), c.wantErr.text)
			}
		})
	}
}

func verb(m *outputMatcher) string {
	if m.contains {
		return "containing"
	}
	return "exactly"
}

// Run runs p with the given stdin content and arguments, including the
// program name, and returns the exit status and the output.
func Run(p prog.Program, stdin string, args ...string) (exit int, stdout, stderr string) {
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())

	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	outCh := readAllAsync(r1)
	errCh := readAllAsync(r2)

	exit = prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()
	return exit, <-outCh, <-errCh
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}
