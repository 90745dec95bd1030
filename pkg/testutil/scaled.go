package testutil

import (
	"os"
	"strconv"
	"time"

	"src.nush.dev/pkg/env"
)

// Scaled returns d scaled by $NUSH_TEST_TIME_SCALE. An unset or invalid scale
// is taken as 1.
func Scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * timeScale())
}

func timeScale() float64 {
	s, err := strconv.ParseFloat(os.Getenv(env.NUSH_TEST_TIME_SCALE), 64)
	if err != nil || s <= 0 {
		return 1
	}
	return s
}
