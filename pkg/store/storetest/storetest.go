// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.nush.dev/pkg/store/storedefs"
)

var (
	cmds     = []string{"echo foo", "let bar = 1", "let lorem = 2", "echo bar"}
	searches = []struct {
		next      bool
		seq       int
		prefix    string
		wantedSeq int
		wantedCmd string
		wantedErr error
	}{
		{false, 5, "echo", 4, "echo bar", nil},
		{false, 5, "let", 3, "let lorem = 2", nil},
		{false, 4, "echo", 1, "echo foo", nil},
		{false, 3, "f", 0, "", storedefs.ErrNoMatchingCmd},

		{true, 1, "echo", 1, "echo foo", nil},
		{true, 1, "let", 2, "let bar = 1", nil},
		{true, 2, "echo", 4, "echo bar", nil},
		{true, 4, "let", 0, "", storedefs.ErrNoMatchingCmd},
	}
)

// TestCmd tests the command history functionality of a Store. The Store must
// be empty.
func TestCmd(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextCmdSeq() -> (%v, %v), want (1, nil)", startSeq, err)
	}

	for i, cmd := range cmds {
		wantSeq := startSeq + i
		seq, err := store.AddCmd(cmd)
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddCmd(%q) -> (%v, %v), want (%v, nil)", cmd, seq, err, wantSeq)
		}
	}

	endSeq, err := store.NextCmdSeq()
	wantedEndSeq := startSeq + len(cmds)
	if endSeq != wantedEndSeq || err != nil {
		t.Errorf("store.NextCmdSeq() -> (%v, %v), want (%v, nil)", endSeq, err, wantedEndSeq)
	}

	// Repeating the newest entry and adding blank lines leave the history
	// unchanged.
	if seq, err := store.AddCmd("echo bar"); seq != 4 || err != nil {
		t.Errorf("store.AddCmd(repeated) -> (%v, %v), want (4, nil)", seq, err)
	}
	if seq, err := store.AddCmd("  "); seq != 0 || err != nil {
		t.Errorf("store.AddCmd(blank) -> (%v, %v), want (0, nil)", seq, err)
	}
	if seq, _ := store.NextCmdSeq(); seq != wantedEndSeq {
		t.Errorf("store.NextCmdSeq() -> %v after no-op adds, want %v", seq, wantedEndSeq)
	}

	for i, wantedCmd := range cmds {
		seq := i + startSeq
		cmd, err := store.Cmd(seq)
		if cmd != wantedCmd || err != nil {
			t.Errorf("store.Cmd(%v) -> (%v, %v), want (%v, nil)", seq, cmd, err, wantedCmd)
		}
	}

	wantCmdsWithSeq := []storedefs.Cmd{{Text: "echo foo", Seq: 1}, {Text: "let bar = 1", Seq: 2}}
	if got, err := store.CmdsWithSeq(1, 3); !cmp.Equal(got, wantCmdsWithSeq) || err != nil {
		t.Errorf("store.CmdsWithSeq(1, 3) -> (%v, %v), want (%v, nil)", got, err, wantCmdsWithSeq)
	}

	wantLast := []storedefs.Cmd{{Text: "let lorem = 2", Seq: 3}, {Text: "echo bar", Seq: 4}}
	if got, err := store.LastCmds(2); !cmp.Equal(got, wantLast) || err != nil {
		t.Errorf("store.LastCmds(2) -> (%v, %v), want (%v, nil)", got, err, wantLast)
	}
	if got, _ := store.LastCmds(10); len(got) != len(cmds) {
		t.Errorf("store.LastCmds(10) returned %d entries, want %d", len(got), len(cmds))
	}

	for _, tt := range searches {
		f, fname := store.PrevCmd, "store.PrevCmd"
		if tt.next {
			f, fname = store.NextCmd, "store.NextCmd"
		}
		cmd, err := f(tt.seq, tt.prefix)
		wantedCmd := storedefs.Cmd{Text: tt.wantedCmd, Seq: tt.wantedSeq}
		if cmd != wantedCmd || !matchErr(err, tt.wantedErr) {
			t.Errorf("%s(%v, %q) -> (%v, %v), want (%v, %v)",
				fname, tt.seq, tt.prefix, cmd, err, wantedCmd, tt.wantedErr)
		}
	}

	if err := store.DelCmd(3); err != nil {
		t.Errorf("store.DelCmd(3) -> %v, want nil", err)
	}
	if _, err := store.Cmd(3); !matchErr(err, storedefs.ErrNoMatchingCmd) {
		t.Errorf("store.Cmd(3) after deletion -> error %v, want %v", err, storedefs.ErrNoMatchingCmd)
	}
	if cmd, _ := store.PrevCmd(4, "let"); cmd.Seq != 2 {
		t.Errorf("store.PrevCmd(4, \"let\") after deletion -> %v, want seq 2", cmd)
	}
}

func matchErr(e1, e2 error) bool {
	return (e1 == nil && e2 == nil) || (e1 != nil && e2 != nil && e1.Error() == e2.Error())
}
