package shell

import (
	"fmt"
	"os"
	"path/filepath"

	"src.nush.dev/pkg/diag"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd         bool
	CompileOnly bool
}

// Executes a script, or code from the argument if cfg.Cmd is true.
func script(s *Session, fds [3]*os.File, arg0 string, cfg *scriptCfg) int {
	name, code, err := readScript(arg0, cfg.Cmd)
	if err != nil {
		fmt.Fprintln(fds[2], err)
		return 2
	}

	if cfg.CompileOnly {
		err = s.Check(name, code)
	} else {
		err = evalInterruptible(s, name, code)
	}
	if err != nil {
		diag.ShowError(fds[2], err)
		return 2
	}
	return 0
}

func readScript(arg0 string, cmd bool) (name, code string, err error) {
	if cmd {
		return "code from -c", arg0, nil
	}
	name, err = filepath.Abs(arg0)
	if err != nil {
		return "", "", fmt.Errorf("cannot get full path of script %q: %v", arg0, err)
	}
	code, err = readFileUTF8(name)
	if err != nil {
		return "", "", fmt.Errorf("cannot read script %q: %v", name, err)
	}
	return name, code, nil
}
