package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"src.nush.dev/pkg/env"
	"src.nush.dev/pkg/testutil"
	. "src.nush.dev/pkg/tt"
)

func TestGetHome_UsesHOME(t *testing.T) {
	testutil.Setenv(t, env.HOME, "/home/nush/")
	if home, err := GetHome(""); home != "/home/nush" || err != nil {
		t.Errorf("GetHome(\"\") -> %q, %v", home, err)
	}
}

func TestGetHome_UnknownUser(t *testing.T) {
	if _, err := GetHome("no-such-user-for-nush-test"); err == nil {
		t.Errorf("GetHome of unknown user returned no error")
	}
}

func TestTildeAbbr(t *testing.T) {
	testutil.Setenv(t, env.HOME, "/home/nush")
	Test(t, Fn("TildeAbbr", TildeAbbr), Table{
		Args("/home/nush").Rets("~"),
		Args("/home/nush/src").Rets("~/src"),
		Args("/home/nushell").Rets("/home/nushell"),
		Args("/tmp").Rets("/tmp"),
	})
}

func TestExpandPath(t *testing.T) {
	testutil.Setenv(t, env.HOME, "/home/nush")
	testutil.Setenv(t, "NUSH_TEST_DIR", "dir")
	Test(t, Fn("ExpandPath", ExpandPath), Table{
		Args("").Rets(""),
		Args("~").Rets("/home/nush"),
		Args("~/a").Rets("/home/nush/a"),
		Args("./$NUSH_TEST_DIR/").Rets("./dir/"),
		Args("${NUSH_TEST_DIR}x").Rets("dirx"),
		Args("~no-such-user-for-nush-test/").Rets(""),
	})
}

func TestIsPathLike(t *testing.T) {
	Test(t, Fn("IsPathLike", IsPathLike), Table{
		Args(".").Rets(true),
		Args("..").Rets(true),
		Args("./Re").Rets(true),
		Args("a/b").Rets(true),
		Args("ls").Rets(false),
		Args("...").Rets(false),
	})
}

func TestGetwd(t *testing.T) {
	dir := testutil.InTempDir(t)
	testutil.Setenv(t, env.HOME, filepath.Dir(dir))
	want := "~" + string(os.PathSeparator) + filepath.Base(dir)
	if got := Getwd(); got != want {
		t.Errorf("Getwd -> %q, want %q", got, want)
	}
}
