// Nush is a shell with a structured-data language. This binary runs it as an
// interactive shell, a script runner, or a language server.
package main

import (
	"os"

	"src.nush.dev/pkg/lsp"
	"src.nush.dev/pkg/prog"
	"src.nush.dev/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(lsp.Program{}, shell.Program{})))
}
