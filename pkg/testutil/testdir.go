package testutil

import (
	"os"
	"path/filepath"

	"src.nush.dev/pkg/must"
)

// TempDir creates a temporary directory that is removed when the test
// finishes. The returned path has symlinks resolved.
func TempDir(c Cleanuper) string {
	dir := must.OK1(os.MkdirTemp("", "nushtest."))
	dir = must.OK1(filepath.EvalSymlinks(dir))
	c.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// InTempDir is like TempDir, but also changes into the directory. The working
// directory is restored when the test finishes.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	Chdir(c, dir)
	return dir
}

// Chdir changes into a directory, and restores the original working directory
// when the test finishes.
func Chdir(c Cleanuper, dir string) {
	oldWd := must.OK1(os.Getwd())
	must.Chdir(dir)
	c.Cleanup(func() { must.Chdir(oldWd) })
}

// Dir describes the layout of a directory. The keys are file names and the
// values are either a string (content of a regular file), a File, or a
// nested Dir.
type Dir map[string]any

// File describes a regular file with a permission.
type File struct {
	Perm    os.FileMode
	Content string
}

// ApplyDir creates the given filesystem layout in the current directory.
func ApplyDir(dir Dir) {
	applyDir(dir, "")
}

func applyDir(dir Dir, prefix string) {
	for name, file := range dir {
		path := filepath.Join(prefix, name)
		switch file := file.(type) {
		case string:
			must.OK(os.WriteFile(path, []byte(file), 0644))
		case File:
			must.OK(os.WriteFile(path, []byte(file.Content), file.Perm))
		case Dir:
			must.OK(os.MkdirAll(path, 0755))
			applyDir(file, path)
		default:
			panic(file)
		}
	}
}
