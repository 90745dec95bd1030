package shell

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/store/storedefs"
	"src.nush.dev/pkg/sys"
)

// Number of history entries loaded into the line editor.
const historySize = 1000

// InteractConfig keeps configuration for the interactive mode.
type InteractConfig struct {
	Config *Config
	// Path of the rc file. Empty means not sourcing any rc file.
	RC string
	// Where to record the command history. May be nil.
	Store storedefs.Store
}

// Interact runs an interactive shell session.
func Interact(fds [3]*os.File, s *Session, cfg *InteractConfig) {
	if cfg.RC != "" {
		if err := sourceRC(s, cfg.RC); err != nil {
			diag.ShowError(fds[2], err)
		}
		if cfg.Config.WatchRC {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				if err := watchRC(ctx, s, cfg.RC, fds[2]); err != nil {
					logger.Println("rc watcher stopped:", err)
				}
			}()
		}
	}

	ed := newEditor(fds, s, cfg)
	defer ed.Close()

	cmdNum := 0
	ed.Loop(func(code string) bool {
		trimmed := strings.TrimSpace(code)
		if trimmed == "exit" {
			return false
		} else if trimmed == "" {
			return true
		}
		cmdNum++
		if cfg.Store != nil {
			if _, err := cfg.Store.AddCmd(code); err != nil {
				logger.Println("failed to add command to history:", err)
			}
		}
		err := evalInterruptible(s, fmt.Sprintf("[tty %v]", cmdNum), code)
		if err != nil {
			diag.ShowError(fds[2], err)
		}
		return true
	})
}

func newEditor(fds [3]*os.File, s *Session, cfg *InteractConfig) editor {
	prompt := cfg.Config.prompt
	if !sys.IsATTY(fds[0].Fd()) || cfg.Config.Editor == EditorBasic {
		return newBasicEditor(fds[0], fds[2], prompt, s.Incomplete)
	}
	history := loadHistory(cfg.Store)
	if cfg.Config.Editor == EditorLiner {
		return newLinerEditor(fds[2], history, prompt, s.Incomplete, s.Complete)
	}
	return &promptEditor{history, prompt, s.Complete}
}

func loadHistory(st storedefs.Store) []string {
	if st == nil {
		return nil
	}
	cmds, err := st.LastCmds(historySize)
	if err != nil {
		logger.Println("failed to load history:", err)
	}
	history := make([]string, len(cmds))
	for i, cmd := range cmds {
		history[i] = cmd.Text
	}
	return history
}

// Evaluates code, canceling the evaluation when an interrupt arrives.
func evalInterruptible(s *Session, name, code string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return s.Eval(ctx, name, code)
}
