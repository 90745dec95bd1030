package store

import (
	"path/filepath"

	"src.nush.dev/pkg/must"
	"src.nush.dev/pkg/testutil"
)

// MustGetTempStore returns a Store backed by a database in a temporary
// directory. The Store is closed and the directory removed when the test
// finishes.
func MustGetTempStore(c testutil.Cleanuper) DBStore {
	st := must.OK1(NewStore(filepath.Join(testutil.TempDir(c), "history.db")))
	// Registered after TempDir's cleanup, so runs before it.
	c.Cleanup(func() { st.Close() })
	return st
}
