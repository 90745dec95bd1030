// Package shell is the entry point for the terminal interface of nush.
package shell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"src.nush.dev/pkg/edit/complete"
	"src.nush.dev/pkg/logutil"
	"src.nush.dev/pkg/prog"
	"src.nush.dev/pkg/store"
	"src.nush.dev/pkg/store/storedefs"
	"src.nush.dev/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram.
type Program struct{}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	restoreSHLVL := incSHLVL()
	defer restoreSHLVL()

	s := NewSession(fds[1], complete.Config{CustomBudget: cfg.CompletionBudget})

	switch {
	case f.Shapes:
		code, err := onlyArg(args, "-shapes")
		if err != nil {
			return err
		}
		for _, shape := range s.Shapes(code) {
			fmt.Fprintf(fds[1], "%d-%d %s %s\n",
				shape.Span.Start, shape.Span.End, shape.Shape, shape.Text)
		}
		return nil
	case f.Complete:
		code, err := onlyArg(args, "-complete")
		if err != nil {
			return err
		}
		pos := f.Pos
		if pos < 0 || pos > len(code) {
			pos = len(code)
		}
		printSuggestions(fds[1], s.Complete(code, pos))
		return nil
	case len(args) > 0:
		if len(args) > 1 {
			return prog.BadUsage("script arguments are not supported")
		}
		exit := script(s, fds, args[0], &scriptCfg{Cmd: f.CodeInArg, CompileOnly: f.CompileOnly})
		return prog.Exit(exit)
	case f.CodeInArg:
		return prog.BadUsage("-c requires an argument")
	}

	st, closeStore := openStore(fds[2], f, cfg)
	defer closeStore()
	rc := ""
	if !f.NoRc {
		rc = f.RC
		if rc == "" {
			rc = cfg.RC
		}
		if rc == "" {
			if rc, err = RCPath(); err != nil {
				fmt.Fprintln(fds[2], "Warning:", err)
			}
		}
	}
	Interact(fds, s, &InteractConfig{Config: cfg, RC: rc, Store: st})
	return nil
}

func loadConfig(f *prog.Flags) (*Config, error) {
	if f.Config != "" {
		return LoadConfig(f.Config, true)
	}
	path, err := ConfigPath()
	if err != nil {
		logger.Println("cannot find config file:", err)
		return DefaultConfig(), nil
	}
	return LoadConfig(path, false)
}

func onlyArg(args []string, flag string) (string, error) {
	if len(args) != 1 {
		return "", prog.BadUsage(flag + " requires exactly one argument")
	}
	return args[0], nil
}

// Opens the history store. Failures are reported as warnings; the shell works
// without history.
func openStore(stderr io.Writer, f *prog.Flags, cfg *Config) (storedefs.Store, func()) {
	path := f.DB
	if path == "" {
		path = cfg.HistoryDB
	}
	if path == "" {
		var err error
		if path, err = DBPath(); err != nil {
			fmt.Fprintln(stderr, "Warning: cannot find history database:", err)
			return nil, func() {}
		}
	}
	st, err := store.NewStore(path)
	if err != nil {
		fmt.Fprintln(stderr, "Warning: cannot open history database:", err)
		return nil, func() {}
	}
	return st, func() {
		if err := st.Close(); err != nil {
			logger.Println("failed to close history database:", err)
		}
	}
}

// Writes one suggestion per line, or in columns when out is a terminal.
func printSuggestions(out *os.File, items []complete.Suggestion) {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	if !sys.IsATTY(out.Fd()) {
		for _, text := range texts {
			fmt.Fprintln(out, text)
		}
		return
	}
	_, width := sys.WinSize(out)
	io.WriteString(out, columns(texts, width))
}

// Lays out texts in columns that fit in the given width, filling each row
// from left to right.
func columns(texts []string, width int) string {
	colWidth := 0
	for _, text := range texts {
		colWidth = max(colWidth, len(text)+2)
	}
	perRow := 1
	if colWidth > 0 && width > colWidth {
		perRow = width / colWidth
	}
	var sb strings.Builder
	for i, text := range texts {
		last := i%perRow == perRow-1 || i == len(texts)-1
		if last {
			sb.WriteString(text + "\n")
		} else {
			sb.WriteString(text + strings.Repeat(" ", colWidth-len(text)))
		}
	}
	return sb.String()
}
