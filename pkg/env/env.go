// Package env keeps names of environment variables with special significance
// to nush.
package env

// Environment variables with special significance to nush.
const (
	HOME            = "HOME"
	PATH            = "PATH"
	PWD             = "PWD"
	SHLVL           = "SHLVL"
	XDG_CONFIG_HOME = "XDG_CONFIG_HOME"
	XDG_STATE_HOME  = "XDG_STATE_HOME"
	// Overrides the location of the config file.
	NUSH_CONFIG = "NUSH_CONFIG"
	// Scales timeouts in tests.
	NUSH_TEST_TIME_SCALE = "NUSH_TEST_TIME_SCALE"
)
