package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.nush.dev/pkg/env"
	"src.nush.dev/pkg/must"
	. "src.nush.dev/pkg/prog/progtest"
	"src.nush.dev/pkg/store"
	"src.nush.dev/pkg/store/storedefs"
	"src.nush.dev/pkg/testutil"
)

func setupCleanHome(t *testing.T) string {
	dir := testutil.InTempDir(t)
	testutil.Setenv(t, env.HOME, dir)
	testutil.Unsetenv(t, env.NUSH_CONFIG)
	testutil.Setenv(t, env.XDG_CONFIG_HOME, filepath.Join(dir, "config"))
	testutil.Setenv(t, env.XDG_STATE_HOME, filepath.Join(dir, "state"))
	return dir
}

func TestScript(t *testing.T) {
	setupCleanHome(t)
	must.WriteFile("hello.nu", "echo hello")
	must.WriteFile("invalid-utf8.nu", "\xff")

	Test(t, Program{},
		ThatNush("hello.nu").WritesStdout("hello\n"),
		ThatNush("-c", "echo hello").WritesStdout("hello\n"),
		ThatNush("-c", "def f [x] { $x }; f 2").WritesStdout("2\n"),

		ThatNush("invalid-utf8.nu").
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),
		ThatNush("non-existent.nu").
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),
		ThatNush("hello.nu", "arg").
			ExitsWith(2).
			WritesStderrContaining("script arguments are not supported"),
		ThatNush("-c").
			ExitsWith(2).
			WritesStderrContaining("-c requires an argument"),

		// parse error
		ThatNush("-c", "echo [").
			ExitsWith(2).
			WritesStderrContaining("Parse error"),
		ThatNush("-compileonly", "-c", "echo [").
			ExitsWith(2).
			WritesStderrContaining("Parse error"),

		// eval error
		ThatNush("-c", "nope").
			ExitsWith(2).
			WritesStdout("").
			WritesStderrContaining("external commands cannot be run"),
		ThatNush("-compileonly", "-c", "nope").DoesNothing(),
	)
}

func TestShapesAndComplete(t *testing.T) {
	setupCleanHome(t)

	Test(t, Program{},
		ThatNush("-shapes", "let x = 5").
			WritesStdout("0-3 internalcall let\n4-5 variable x\n6-7 operator =\n8-9 int 5\n"),
		ThatNush("-shapes").
			ExitsWith(2).
			WritesStderrContaining("-shapes requires exactly one argument"),

		ThatNush("-complete", "ec").WritesStdout("echo\n"),
		ThatNush("-complete", "-pos", "1", "ec x").WritesStdout("echo\n"),
		ThatNush("-complete", "def cargo [] {}; ca").WritesStdout("cargo\n"),
		ThatNush("-complete", "zzz").DoesNothing(),
	)
}

func TestInteract(t *testing.T) {
	setupCleanHome(t)

	Test(t, Program{},
		ThatNush("-norc").
			WithStdin("def f [] { 42 }\nf\n").
			WritesStdout("42\n"),
		// Definitions from failed lines are discarded.
		ThatNush("-norc").
			WithStdin("def g [] { 1 }; nope\ng\n").
			WritesStdout("").
			WritesStderrContaining("external commands cannot be run"),
		// Incomplete code is continued on the next line.
		ThatNush("-norc").
			WithStdin("echo (\n  1)\n").
			WritesStdout("1\n"),
		// The last line does not need a newline.
		ThatNush("-norc").WithStdin("echo 1").WritesStdout("1\n"),
		ThatNush("-norc").WithStdin("exit\necho 1\n").WritesStdout(""),
	)
}

func TestInteract_History(t *testing.T) {
	setupCleanHome(t)

	Test(t, Program{},
		ThatNush("-norc", "-db", "h.db").WithStdin("echo 1\n\necho 2\n"),
	)

	st := must.OK1(store.NewStore("h.db"))
	defer st.Close()
	cmds := must.OK1(st.CmdsWithSeq(0, 100))
	want := []storedefs.Cmd{{Text: "echo 1", Seq: 1}, {Text: "echo 2", Seq: 2}}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestInteract_DefaultHistoryPath(t *testing.T) {
	home := setupCleanHome(t)

	Test(t, Program{},
		ThatNush("-norc").WithStdin("echo 1\n"),
	)
	if _, err := os.Stat(filepath.Join(home, "state", "nush", "history.db")); err != nil {
		t.Errorf("history database not created: %v", err)
	}
}

func TestInteract_BadHistoryDB(t *testing.T) {
	setupCleanHome(t)
	must.OK(os.Mkdir("dir", 0700))

	Test(t, Program{},
		ThatNush("-norc", "-db", "dir").
			WithStdin("echo 1\n").
			WritesStdout("1\n").
			WritesStderrContaining("Warning: cannot open history database"),
	)
}

func TestInteract_RcFile(t *testing.T) {
	home := setupCleanHome(t)
	must.WriteFile("rc.nu", "def greet [] { 'hi' }")
	must.WriteFile("bad-rc.nu", "nope")
	must.OK(os.MkdirAll(filepath.Join(home, "config", "nush"), 0700))
	must.WriteFile(filepath.Join(home, "config", "nush", "rc.nu"), "def dflt [] { 7 }")

	Test(t, Program{},
		ThatNush("-rc", "rc.nu").WithStdin("greet\n").WritesStdout("hi\n"),
		ThatNush().WithStdin("dflt\n").WritesStdout("7\n"),
		ThatNush("-norc").WithStdin("dflt\n").
			WritesStderrContaining("external commands cannot be run"),
		ThatNush("-rc", "bad-rc.nu").
			WritesStdout("").
			WritesStderrContaining("external commands cannot be run"),
		ThatNush("-rc", "missing.nu").WithStdin("echo 1\n").WritesStdout("1\n"),
	)
}

func TestConfigFlag(t *testing.T) {
	setupCleanHome(t)
	must.WriteFile("bad.yaml", "editor: vi\n")
	must.WriteFile("rc.yaml", "rc: rc.nu\n")
	must.WriteFile("rc.nu", "def fromrc [] { 1 }")

	Test(t, Program{},
		ThatNush("-config", "bad.yaml").
			ExitsWith(2).
			WritesStderrContaining(`unknown editor "vi"`),
		ThatNush("-config", "missing.yaml").
			ExitsWith(2).
			WritesStderrContaining("missing.yaml"),
		ThatNush("-config", "rc.yaml").WithStdin("fromrc\n").WritesStdout("1\n"),
	)
}

func TestIncSHLVL(t *testing.T) {
	for _, c := range []struct {
		old  *string
		want string
	}{
		{ptr("10"), "11"},
		{nil, "1"},
		{ptr("invalid"), "1"},
		{ptr("-100"), "-99"},
	} {
		if c.old == nil {
			testutil.Unsetenv(t, env.SHLVL)
		} else {
			testutil.Setenv(t, env.SHLVL, *c.old)
		}
		restore := incSHLVL()
		if got := os.Getenv(env.SHLVL); got != c.want {
			t.Errorf("SHLVL %v -> %q, want %q", c.old, got, c.want)
		}
		restore()
		got, ok := os.LookupEnv(env.SHLVL)
		if (c.old == nil) == ok || (ok && got != *c.old) {
			t.Errorf("SHLVL not restored, got %q", got)
		}
	}
}

func ptr(s string) *string { return &s }
