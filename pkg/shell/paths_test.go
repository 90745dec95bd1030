//go:build unix

package shell

import (
	"os"
	"path/filepath"
	"testing"

	"src.nush.dev/pkg/env"
	"src.nush.dev/pkg/testutil"
)

func TestPaths_XDG(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.Unsetenv(t, env.NUSH_CONFIG)
	testutil.Setenv(t, env.XDG_CONFIG_HOME, filepath.Join(dir, "config"))
	testutil.Setenv(t, env.XDG_STATE_HOME, filepath.Join(dir, "state"))

	testPath(t, ConfigPath, filepath.Join(dir, "config", "nush", "config.yaml"))
	testPath(t, RCPath, filepath.Join(dir, "config", "nush", "rc.nu"))
	testPath(t, DBPath, filepath.Join(dir, "state", "nush", "history.db"))

	if stat, err := os.Stat(filepath.Join(dir, "state", "nush")); err != nil || !stat.IsDir() {
		t.Errorf("DBPath did not create the state directory")
	}
}

func TestPaths_Home(t *testing.T) {
	home := testutil.TempDir(t)
	testutil.Setenv(t, env.HOME, home)
	testutil.Unsetenv(t, env.NUSH_CONFIG)
	testutil.Unsetenv(t, env.XDG_CONFIG_HOME)
	testutil.Unsetenv(t, env.XDG_STATE_HOME)

	testPath(t, ConfigPath, filepath.Join(home, ".config", "nush", "config.yaml"))
	testPath(t, DBPath, filepath.Join(home, ".local", "state", "nush", "history.db"))
}

func TestConfigPath_Override(t *testing.T) {
	testutil.Setenv(t, env.NUSH_CONFIG, "/etc/nush.yaml")
	testPath(t, ConfigPath, "/etc/nush.yaml")
}

func testPath(t *testing.T, f func() (string, error), want string) {
	t.Helper()
	if got, err := f(); got != want || err != nil {
		t.Errorf("got (%q, %v), want (%q, nil)", got, err, want)
	}
}
