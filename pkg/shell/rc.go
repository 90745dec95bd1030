package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"src.nush.dev/pkg/diag"
)

// Sources the rc file. A missing rc file is not an error.
func sourceRC(s *Session, rcPath string) error {
	absPath, err := filepath.Abs(rcPath)
	if err != nil {
		return fmt.Errorf("cannot get full path of rc file: %v", err)
	}
	code, err := readFileUTF8(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return evalInterruptible(s, absPath, code)
}

// Sources the rc file again whenever it is written or replaced, until ctx is
// done. The directory is watched rather than the file, since editors often
// save by replacing the file.
func watchRC(ctx context.Context, s *Session, rcPath string, stderr io.Writer) error {
	absPath, err := filepath.Abs(rcPath)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != absPath || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			logger.Println("rc file changed:", event)
			if err := sourceRC(s, absPath); err != nil {
				diag.ShowError(stderr, err)
			} else {
				fmt.Fprintln(stderr, "rc file reloaded")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Println("watcher error:", err)
		}
	}
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}
