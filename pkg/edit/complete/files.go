package complete

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/fsutil"
)

var pathSeparator = string(filepath.Separator)

// Completes a partial path. Candidates keep the directory part of the
// partial path as typed, and directories get a trailing separator.
func completeFiles(span diag.Span, partial string) []Suggestion {
	base, rest := ".", partial
	if i := strings.LastIndexAny(partial, `/\`); i >= 0 {
		base, rest = partial[:i], partial[i+1:]
	}
	base = strings.NewReplacer("/", pathSeparator, `\`, pathSeparator).Replace(base) + pathSeparator

	dir := fsutil.ExpandPath(base)
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Printf("list directory %s: %v", dir, err)
		return nil
	}

	var items []Suggestion
	for _, entry := range entries {
		name := toValidUTF8([]byte(entry.Name()))
		if !hasPrefixFold(name, rest) {
			continue
		}
		full := base + name
		if isDir(dir, entry) {
			full += pathSeparator
		}
		items = append(items, Suggestion{span, full})
	}
	return items
}

func isDir(dir string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink != 0 {
		// Symlink to a directory.
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		return err == nil && info.IsDir()
	}
	return false
}

// Reports whether s starts with prefix, ignoring the case of ASCII letters.
func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if lower(s[i]) != lower(prefix[i]) {
			return false
		}
	}
	return true
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

func toValidUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}
