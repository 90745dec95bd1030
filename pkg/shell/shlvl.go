package shell

import (
	"os"
	"strconv"

	"src.nush.dev/pkg/env"
)

func incSHLVL() func() {
	oldValue, hadValue := os.LookupEnv(env.SHLVL)
	i, err := strconv.Atoi(oldValue)
	if err != nil {
		i = 0
	}
	os.Setenv(env.SHLVL, strconv.Itoa(i+1))

	if hadValue {
		return func() { os.Setenv(env.SHLVL, oldValue) }
	}
	return func() { os.Unsetenv(env.SHLVL) }
}
