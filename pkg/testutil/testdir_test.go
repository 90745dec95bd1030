package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

type cleanuper struct{ fns []func() }

func (c *cleanuper) Cleanup(fn func()) { c.fns = append(c.fns, fn) }

func (c *cleanuper) runCleanups() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
}

func TestTempDir_CleanupRemovesDirRecursively(t *testing.T) {
	c := &cleanuper{}
	dir := TempDir(c)

	if err := os.WriteFile(filepath.Join(dir, "a"), []byte("test"), 0600); err != nil {
		panic(err)
	}

	c.runCleanups()
	if _, err := os.Stat(dir); err == nil {
		t.Errorf("Dir %q still exists after cleanup", dir)
	}
}

func TestChdir(t *testing.T) {
	dir := TempDir(t)
	original, _ := os.Getwd()

	c := &cleanuper{}
	Chdir(c, dir)

	if after, _ := os.Getwd(); after != dir {
		t.Errorf("pwd is now %q, want %q", after, dir)
	}

	c.runCleanups()
	if restored, _ := os.Getwd(); restored != original {
		t.Errorf("pwd restored to %q, want %q", restored, original)
	}
}

func TestApplyDir_CreatesFilesAndDirectories(t *testing.T) {
	InTempDir(t)

	ApplyDir(Dir{
		"a": "a content",
		"x": File{Perm: 0755, Content: "x content"},
		"d": Dir{
			"d1": "d1 content",
			"dd": Dir{"dd1": "dd1 content"},
		},
	})

	testFileContent(t, "a", "a content")
	testFileContent(t, "x", "x content")
	testFileContent(t, "d/d1", "d1 content")
	testFileContent(t, "d/dd/dd1", "dd1 content")
}

func TestSet(t *testing.T) {
	v := 1
	c := &cleanuper{}
	Set(c, &v, 2)
	if v != 2 {
		t.Errorf("v = %d after Set, want 2", v)
	}
	c.runCleanups()
	if v != 1 {
		t.Errorf("v = %d after cleanup, want 1", v)
	}
}

func testFileContent(t *testing.T, filename string, wantContent string) {
	t.Helper()
	content, err := os.ReadFile(filename)
	if err != nil {
		t.Errorf("Could not read %v: %v", filename, err)
		return
	}
	if string(content) != wantContent {
		t.Errorf("File %v is %q, want %q", filename, content, wantContent)
	}
}
