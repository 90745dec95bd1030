package store_test

import (
	"testing"

	"src.nush.dev/pkg/store"
	"src.nush.dev/pkg/store/storetest"
)

func TestCmd(t *testing.T) {
	storetest.TestCmd(t, store.MustGetTempStore(t))
}
