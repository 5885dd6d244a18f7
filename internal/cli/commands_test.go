package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jafar/internal/bind"
	"github.com/roach88/jafar/internal/expect"
	"github.com/roach88/jafar/internal/store"
	"github.com/roach88/jafar/internal/testutil"
	"github.com/roach88/jafar/internal/tree"
)

// testApp declares suites in specs/math_spec.go and specs/broken_spec.go on
// an in-memory filesystem that also holds a non-spec file.
func testApp(t *testing.T, includeBroken bool) *App {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range []string{"specs/math_spec.go", "specs/broken_spec.go", "lib/calc.go"} {
		require.NoError(t, afero.WriteFile(fs, f, []byte("package specs\n"), 0o644))
	}

	reg := tree.NewRegistry()
	b := tree.NewBuilder(reg)
	fn := func(f any, names ...string) *bind.Callable { return bind.MustNew(f, names...) }

	b.DescribeAt("math", "specs/math_spec.go", 3, func() {
		require.NoError(t, b.Before(fn(func() bind.Context { return bind.Context{"two": 2} })))
		require.NoError(t, b.It("adds", fn(func(two int) { expect.That(1 + 1).ToBe(two) }, "two")))
		require.NoError(t, b.It("multiplies", fn(func(two int) { expect.That(two * two).ToEqual("4") }, "two")))
	})
	if includeBroken {
		b.DescribeAt("broken", "specs/broken_spec.go", 7, func() {
			require.NoError(t, b.It("fails", fn(func() { expect.Check(false, "nope") })))
			require.NoError(t, b.It("errors", fn(func() error { return errors.New("boom") })))
		})
	}

	return &App{
		Registry:   reg,
		Fs:         fs,
		IsTerminal: func(io.Writer) bool { return false },
	}
}

func execute(app *App, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = Execute(app, args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_AllPassing(t *testing.T) {
	code, stdout, stderr := execute(testApp(t, false), "run", "specs")

	assert.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "math\n  adds ✔\n  multiplies ✔\n")
	assert.Contains(t, stdout, "PASS")
	assert.Empty(t, stderr)
}

func TestRun_FailuresExitOne(t *testing.T) {
	code, stdout, stderr := execute(testApp(t, true), "run", "specs", "--charset", "ascii")

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "broken\n  fails: fail\n    nope\n  errors: ERROR\n    [*errors.errorString]: boom\n")
	assert.Contains(t, stdout, "FAIL")
	assert.Empty(t, stderr, "failures are reported by the terminal, not as a command error")
}

func TestRun_FilesRunInDiscoveryOrder(t *testing.T) {
	_, stdout, _ := execute(testApp(t, true), "run", "specs")

	broken, math := bytes.Index([]byte(stdout), []byte("broken\n")), bytes.Index([]byte(stdout), []byte("math\n"))
	require.NotEqual(t, -1, broken)
	require.NotEqual(t, -1, math)
	assert.Less(t, broken, math, "broken_spec.go sorts before math_spec.go")
}

func TestRun_ColorAlways(t *testing.T) {
	code, stdout, _ := execute(testApp(t, false), "run", "specs", "--color", "always")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "\033[32m ✔\033[0m")
	assert.Contains(t, stripansi.Strip(stdout), "  adds ✔\n")
}

func TestRun_ColorAutoFollowsTerminal(t *testing.T) {
	app := testApp(t, false)
	app.IsTerminal = func(io.Writer) bool { return true }

	_, stdout, _ := execute(app, "run", "specs")
	assert.Contains(t, stdout, "\033[32m")
}

func TestRun_JSON(t *testing.T) {
	code, stdout, _ := execute(testApp(t, true), "run", "specs", "--format", "json")
	assert.Equal(t, ExitFailure, code)

	var resp struct {
		Status string    `json:"status"`
		Data   RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"specs/broken_spec.go", "specs/math_spec.go"}, resp.Data.Files)
	assert.Equal(t, 2, resp.Data.Counts.Passed)
	assert.Equal(t, 1, resp.Data.Counts.Failed)
	assert.Equal(t, 1, resp.Data.Counts.Errored)
	assert.Len(t, resp.Data.Results, 6)
	assert.NotContains(t, stdout, "✔", "no terminal output in json mode")
}

func TestRun_MissingPath(t *testing.T) {
	code, _, stderr := execute(testApp(t, false), "run", "nope")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "Error [discovery]")
	assert.Contains(t, stderr, "nope does not exist.")
}

func TestRun_NoSuites(t *testing.T) {
	code, stdout, _ := execute(testApp(t, false), "run", "lib/calc.go")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "No suites found.\n", stdout)
}

func TestRun_InvalidCharset(t *testing.T) {
	code, _, stderr := execute(testApp(t, false), "run", "specs", "--charset", "latin1")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "Error [config]")
}

func TestRun_ConfigFileSuppliesDefaults(t *testing.T) {
	app := testApp(t, false)
	require.NoError(t, afero.WriteFile(app.Fs, ".jafar.yaml", []byte("paths: [specs]\ncharset: ascii\n"), 0o644))

	code, stdout, _ := execute(app, "run")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "  adds: ok\n")
}

func TestRun_FlagsOverrideConfigFile(t *testing.T) {
	app := testApp(t, false)
	require.NoError(t, afero.WriteFile(app.Fs, "ci.yaml", []byte("charset: ascii\n"), 0o644))

	_, stdout, _ := execute(app, "run", "specs", "--config", "ci.yaml", "--charset", "utf-8")
	assert.Contains(t, stdout, "  adds ✔\n")
}

func TestRun_VerboseLogsToStderr(t *testing.T) {
	_, _, stderr := execute(testApp(t, false), "run", "specs", "-v")

	assert.Contains(t, stderr, "discovered spec files")
	assert.Contains(t, stderr, "no suites declared")
	assert.Contains(t, stderr, "test finished")
}

func TestRunThenHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	code, stdout, _ := execute(testApp(t, true), "run", "specs", "--db", db, "--format", "json")
	require.Equal(t, ExitFailure, code)

	var runResp struct {
		Data RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &runResp))
	require.NotEmpty(t, runResp.Data.RunID)

	code, stdout, stderr := execute(&App{}, "history", "--db", db, "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)

	var listResp struct {
		Data []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &listResp))
	require.Len(t, listResp.Data, 1)
	assert.Equal(t, runResp.Data.RunID, listResp.Data[0].ID)
	assert.Equal(t, 2, listResp.Data[0].Passed)

	code, stdout, _ = execute(&App{}, "history", "--db", db, "--run", runResp.Data.RunID)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "failed   test   broken > fails")
	assert.Contains(t, stdout, "      nope\n")

	code, stdout, _ = execute(&App{}, "history", "--db", db)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, runResp.Data.RunID)
}

func TestHistory_NewestFirstWithStableIDs(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := testutil.NewStepClock(start, 1500*time.Millisecond)
	ids := testutil.NewSequenceIDs("hist")

	for _, broken := range []bool{false, true} {
		app := testApp(t, broken)
		app.Now = clock.Now
		app.NewRunID = ids.Next
		execute(app, "run", "specs", "--db", db, "--format", "json")
	}

	code, stdout, stderr := execute(&App{}, "history", "--db", db, "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)

	var resp struct {
		Data []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 2)

	assert.Equal(t, "hist-0002", resp.Data[0].ID)
	assert.Equal(t, 1, resp.Data[0].Failed)
	assert.True(t, resp.Data[0].StartedAt.Equal(start.Add(3*time.Second)))
	assert.Equal(t, 1500*time.Millisecond, resp.Data[0].FinishedAt.Sub(resp.Data[0].StartedAt))

	assert.Equal(t, "hist-0001", resp.Data[1].ID)
	assert.Equal(t, 0, resp.Data[1].Failed)
	assert.True(t, resp.Data[1].StartedAt.Equal(start))

	code, stdout, _ = execute(&App{}, "history", "--db", db, "--run", "hist-0001")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "run hist-0001")
	assert.Contains(t, stdout, "(1.5s)")
}

func TestHistory_UnknownRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	code, _, stderr := execute(&App{}, "history", "--db", db, "--run", "missing")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "unknown run")
}

func TestHistory_EmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	code, stdout, _ := execute(&App{}, "history", "--db", db)
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "No runs recorded.\n", stdout)
}

func TestHistory_NeedsDatabase(t *testing.T) {
	app := &App{Fs: afero.NewMemMapFs()}

	code, _, stderr := execute(app, "history")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "needs --db")
}

func TestList(t *testing.T) {
	code, stdout, _ := execute(testApp(t, true), "list", "specs")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t,
		"specs/broken_spec.go\n  broken (2 tests)\nspecs/math_spec.go\n  math (2 tests)\n",
		stdout)
}

func TestList_JSON(t *testing.T) {
	code, stdout, _ := execute(testApp(t, false), "list", "specs", "--format", "json")
	assert.Equal(t, ExitSuccess, code)

	var resp struct {
		Data []ListedFile `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, []ListedFile{
		{File: "specs/broken_spec.go", Suites: []ListedSuite{}},
		{File: "specs/math_spec.go", Suites: []ListedSuite{{Name: "math", Line: 3, Tests: 2}}},
	}, resp.Data)
}
