//go:build unix

package sys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creack/pty"
	"src.nush.dev/pkg/must"
	"src.nush.dev/pkg/testutil"
)

func TestIsATTY(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if !IsATTY(tty.Fd()) {
		t.Errorf("IsATTY(tty) -> false, want true")
	}

	f := must.OK1(os.Create(filepath.Join(testutil.TempDir(t), "file")))
	defer f.Close()
	if IsATTY(f.Fd()) {
		t.Errorf("IsATTY(regular file) -> true, want false")
	}
}

func TestWinSize(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	must.OK(pty.Setsize(ptmx, &pty.Winsize{Rows: 30, Cols: 100}))
	if row, col := WinSize(tty); row != 30 || col != 100 {
		t.Errorf("WinSize(tty) -> (%v, %v), want (30, 100)", row, col)
	}
	must.OK(pty.Setsize(ptmx, &pty.Winsize{}))
	if row, col := WinSize(tty); row != 24 || col != 80 {
		t.Errorf("WinSize(tty with zero size) -> (%v, %v), want (24, 80)", row, col)
	}

	f := must.OK1(os.Create(filepath.Join(testutil.TempDir(t), "file")))
	defer f.Close()
	if row, col := WinSize(f); row != -1 || col != -1 {
		t.Errorf("WinSize(regular file) -> (%v, %v), want (-1, -1)", row, col)
	}
}
