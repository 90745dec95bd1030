package shell

import (
	"os"
	"path/filepath"

	"src.nush.dev/pkg/env"
)

// ConfigPath returns the path of the config file. $NUSH_CONFIG takes
// precedence over the default location in the config home.
func ConfigPath() (string, error) {
	if p := os.Getenv(env.NUSH_CONFIG); p != "" {
		return p, nil
	}
	return inConfigHome("config.yaml")
}

// RCPath returns the path of the rc file, sourced in interactive mode.
func RCPath() (string, error) {
	return inConfigHome("rc.nu")
}

// DBPath returns the path of the history database, creating its directory if
// needed.
func DBPath() (string, error) {
	home, err := stateHome()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, "nush")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

func inConfigHome(name string) (string, error) {
	home, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "nush", name), nil
}

func configHome() (string, error) {
	if home := os.Getenv(env.XDG_CONFIG_HOME); home != "" {
		return home, nil
	}
	return defaultConfigHome()
}

func stateHome() (string, error) {
	if home := os.Getenv(env.XDG_STATE_HOME); home != "" {
		return home, nil
	}
	return defaultStateHome()
}
