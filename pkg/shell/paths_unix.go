//go:build unix

package shell

import (
	"path/filepath"

	"src.nush.dev/pkg/fsutil"
)

func defaultConfigHome() (string, error) { return homePath(".config") }

func defaultStateHome() (string, error) { return homePath(".local/state") }

func homePath(p string) (string, error) {
	home, err := fsutil.GetHome("")
	if err != nil {
		return "", err
	}
	return filepath.Join(home, p), nil
}
