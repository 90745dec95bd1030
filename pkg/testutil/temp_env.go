package testutil

import "os"

// Setenv sets an environment variable for the duration of a test, and returns
// the value.
func Setenv(c Cleanuper, name, value string) string {
	saveEnv(c, name)
	os.Setenv(name, value)
	return value
}

// Unsetenv unsets an environment variable for the duration of a test.
func Unsetenv(c Cleanuper, name string) {
	saveEnv(c, name)
	os.Unsetenv(name)
}

func saveEnv(c Cleanuper, name string) {
	if old, ok := os.LookupEnv(name); ok {
		c.Cleanup(func() { os.Setenv(name, old) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
}
