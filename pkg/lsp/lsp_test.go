package lsp

import (
	"fmt"
	"os"
	"testing"

	"src.nush.dev/pkg/prog"
	"src.nush.dev/pkg/prog/progtest"
)

func TestProgram(t *testing.T) {
	initialize := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`
	progtest.Test(t, prog.Composite(Program{}, noLSP{}),
		progtest.ThatNush("-lsp").
			WithStdin(fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(initialize), initialize)).
			WritesStdoutContaining(`"hoverProvider":true`),
		progtest.ThatNush().WritesStdout("not lsp\n"),
	)
}

type noLSP struct{}

func (noLSP) Run(fds [3]*os.File, _ *prog.Flags, _ []string) error {
	fmt.Fprintln(fds[1], "not lsp")
	return nil
}
