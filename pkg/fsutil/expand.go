package fsutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ or ~user and references to environment
// variables in a path. It returns "" if the path is empty or the home
// directory cannot be found.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~") {
		i := strings.IndexAny(path, `/\`)
		if i == -1 {
			i = len(path)
		}
		home, err := GetHome(path[1:i])
		if err != nil {
			return ""
		}
		path = home + path[i:]
	}
	return os.ExpandEnv(path)
}

// IsPathLike reports whether a command name should be taken as a path rather
// than looked up: it contains a path separator, or is . or ..
func IsPathLike(name string) bool {
	return name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) ||
		strings.ContainsRune(name, '/')
}
