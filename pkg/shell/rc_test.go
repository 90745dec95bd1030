package shell

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"src.nush.dev/pkg/must"
	"src.nush.dev/pkg/testutil"
)

func TestSourceRC(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("rc.nu", "def fromrc [] { 1 }")
	must.WriteFile("invalid.nu", "\xff")

	s, _ := newTestSession()
	if err := sourceRC(s, "rc.nu"); err != nil {
		t.Errorf("sourceRC -> %v", err)
	}
	if got := s.Complete("fromr", 5); len(got) != 1 {
		t.Errorf("definition from rc file not visible: %v", got)
	}
	if err := sourceRC(s, "missing.nu"); err != nil {
		t.Errorf("sourceRC(missing) -> %v, want nil", err)
	}
	if err := sourceRC(s, "invalid.nu"); err != errSourceNotUTF8 {
		t.Errorf("sourceRC(invalid) -> %v, want %v", err, errSourceNotUTF8)
	}
}

// A writer that is safe to use from the watcher goroutine.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

func TestWatchRC(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("rc.nu", "")

	s, _ := newTestSession()
	var stderr syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchRC(ctx, s, "rc.nu", &stderr) }()

	// The watcher may not have started; keep writing until it reloads.
	reloaded := false
	for i := 0; i < 50 && !reloaded; i++ {
		must.OK(os.WriteFile("rc.nu", []byte("def watched [] { 1 }"), 0600))
		time.Sleep(testutil.Scaled(20 * time.Millisecond))
		reloaded = len(s.Complete("watche", 6)) == 1
	}
	if !reloaded {
		t.Errorf("rc file not reloaded after change")
	}
	if !strings.Contains(stderr.String(), "rc file reloaded") {
		t.Errorf("got stderr %q, want reload notice", stderr.String())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchRC -> %v", err)
		}
	case <-time.After(testutil.Scaled(time.Second)):
		t.Errorf("watchRC did not return after cancellation")
	}
}
