package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/xerkit/internal/config"
	"github.com/alexanderramin/xerkit/internal/repository"
	"github.com/alexanderramin/xerkit/internal/service"
	"github.com/alexanderramin/xerkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// testApp wires a full App backed by an in-memory run store.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	analysis := service.NewAnalysisService(service.AnalysisConfig{Workers: 2})

	return &App{
		Config:   config.Config{LogLevel: "warn", Workers: 2},
		Analysis: analysis,
		Runs: service.NewRunService(analysis,
			repository.NewSQLiteRunRepo(database), testutil.NewTestUoW(database), false),
		Now: func() time.Time { return time.Now() },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

func writeXER(t *testing.T, dir, name string, x *testutil.XER) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(x.String()), 0o644))
	return path
}

// criticalXER adds an active, negatively floated successor to the minimal
// file.
func criticalXER() *testutil.XER {
	return testutil.MinimalXER().
		Add("TASK", testutil.TaskRow("301", "100", "200", "A1010",
			testutil.With("task_name", "Pour foundations"),
			testutil.With("total_float_hr_cnt", "-8"))).
		Add("TASKPRED", testutil.RelationshipRow("400", "100", "300", "301", "PR_FS"))
}

// --- Root ---

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	_, err := executeCmd(t, app, "summary", path, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XERKIT_LOG_LEVEL")
}

func TestRootCmd_FlagsReachSetup(t *testing.T) {
	app := testApp(t)
	var seen config.Config
	app.Setup = func(a *App) error {
		seen = a.Config
		return nil
	}
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	_, err := executeCmd(t, app, "summary", path, "--strict", "--log-level", "debug")
	require.NoError(t, err)
	assert.True(t, seen.Strict)
	assert.Equal(t, "debug", seen.LogLevel)
}

func TestRootCmd_MissingRulesFile(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	_, err := executeCmd(t, app, "summary", path, "--rules", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XERKIT_RULES")
}

// --- summary ---

func TestSummaryCmd(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	out, err := executeCmd(t, app, "summary", path, "--wbs")
	require.NoError(t, err)
	assert.Contains(t, out, "19.12")
	assert.Contains(t, out, "DEMO DEMO PROJECT")
	assert.Contains(t, out, "23 days")
	assert.Contains(t, out, "[ 1 tasks ]")
	assert.NotContains(t, out, "structural problem")
}

func TestSummaryCmd_UnknownProject(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	_, err := executeCmd(t, app, "summary", path, "--project", "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `project not found: "NOPE" (have DEMO)`)
}

func TestSummaryCmd_MissingFile(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "summary", filepath.Join(t.TempDir(), "missing.xer"))
	assert.Error(t, err)
}

// --- validate ---

func TestValidateCmd(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	good := writeXER(t, dir, "good.xer", testutil.MinimalXER())
	bad := writeXER(t, dir, "bad.xer", testutil.MinimalXER().Drop("TASKPRED"))

	out, err := executeCmd(t, app, "validate", good, bad)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 file(s) failed validation", err.Error())
	assert.Contains(t, out, "✔ "+good+" no structural problems")
	assert.Contains(t, out, "✖ "+bad+" 1 problem(s)")
	assert.Contains(t, out, "Missing Required Table TASKPRED")
}

func TestValidateCmd_AllClean(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	_, err := executeCmd(t, app, "validate", path)
	assert.NoError(t, err)
}

func TestValidateCmd_StrictReportsFindings(t *testing.T) {
	app := testApp(t)
	app.Setup = func(a *App) error {
		a.Analysis = service.NewAnalysisService(service.AnalysisConfig{Strict: a.Config.Strict, Workers: 1})
		return nil
	}
	path := writeXER(t, t.TempDir(), "bad.xer", testutil.MinimalXER().Drop("TASKPRED"))

	out, err := executeCmd(t, app, "validate", "--strict", path)
	require.Error(t, err)
	assert.Contains(t, out, "Missing Required Table TASKPRED")
}

// --- calendars / workdays ---

func TestCalendarsCmd(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	out, err := executeCmd(t, app, "calendars", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Standard (default)")
	assert.Contains(t, out, "Mon Tue Wed Thu Fri")
}

func TestWorkdaysCmd(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	out, err := executeCmd(t, app, "workdays", path, "--from", "2024-01-08", "--to", "2024-01-14")
	require.NoError(t, err)
	assert.Contains(t, out, "5 workdays, 40h")
}

func TestWorkdaysCmd_Flags(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	_, err := executeCmd(t, app, "workdays", path, "--to", "2024-01-14")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"from" not set`)

	_, err = executeCmd(t, app, "workdays", path, "--from", "8 Jan", "--to", "2024-01-14")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")

	_, err = executeCmd(t, app, "workdays", path, "--calendar", "9", "--from", "2024-01-08", "--to", "2024-01-14")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `calendar not found: "9"`)
}

// --- tasks / remaining ---

func TestTasksCmd(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", criticalXER())

	out, err := executeCmd(t, app, "tasks", path)
	require.NoError(t, err)
	assert.Contains(t, out, "A1000")
	assert.Contains(t, out, "A1010")

	out, err = executeCmd(t, app, "tasks", path, "--critical")
	require.NoError(t, err)
	assert.Contains(t, out, "A1010")
	assert.NotContains(t, out, "A1000")
}

func TestTasksCmd_Find(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", criticalXER())

	out, err := executeCmd(t, app, "tasks", path, "--find", "foundations")
	require.NoError(t, err)
	assert.Contains(t, out, "Pour foundations")
	assert.NotContains(t, out, "A1000")

	out, err = executeCmd(t, app, "tasks", path, "--find", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "no matching activities")
}

func TestTasksCmd_Detail(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", criticalXER())

	out, err := executeCmd(t, app, "tasks", path, "A1010")
	require.NoError(t, err)
	assert.Contains(t, out, "Predecessors")
	assert.Contains(t, out, "FS A1000")

	_, err = executeCmd(t, app, "tasks", path, "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `activity not found: "NOPE"`)
}

func TestRemainingCmd(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	out, err := executeCmd(t, app, "remaining", path, "A1000")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon 2024-01-08")
	assert.Contains(t, out, "Fri 2024-01-19")
	assert.Contains(t, out, "80h over 10 days")
}

// --- warnings ---

func TestWarningsCmd(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	out, err := executeCmd(t, app, "warnings", path, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "DEMO WARNINGS")
	assert.Contains(t, out, "Open Predecessors")
	assert.Contains(t, out, "flagged")
}

func TestWarningsCmd_InvalidThreshold(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	_, err := executeCmd(t, app, "warnings", path, "--long-duration", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

// --- snapshot / diff ---

func TestSnapshotAndDiff(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	path := writeXER(t, dir, "a.xer", testutil.MinimalXER())
	baseline := filepath.Join(dir, "baseline.json")

	_, err := executeCmd(t, app, "snapshot", path, "-o", baseline)
	require.NoError(t, err)
	require.FileExists(t, baseline)

	out, err := executeCmd(t, app, "diff", baseline, path)
	require.NoError(t, err)
	assert.Contains(t, out, "snapshots match")

	writeXER(t, dir, "a.xer", criticalXER())
	out, err = executeCmd(t, app, "diff", baseline, path)
	require.Error(t, err)
	assert.Equal(t, "snapshots differ for 1 file(s)", err.Error())
	assert.Contains(t, out, "/projects/DEMO/task_count")

	_, err = executeCmd(t, app, "diff", "--update", baseline, path)
	require.NoError(t, err)
	out, err = executeCmd(t, app, "diff", baseline, path)
	require.NoError(t, err)
	assert.Contains(t, out, "snapshots match")
}

func TestSnapshotCmd_Stdout(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	out, err := executeCmd(t, app, "snapshot", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"task_count": 1`)
}

// --- export ---

func TestExportCmd(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	path := writeXER(t, dir, "a.xer", testutil.MinimalXER())

	out, err := executeCmd(t, app, "export", path)
	require.NoError(t, err)
	want := filepath.Join(dir, "a.xlsx")
	assert.Contains(t, out, "Wrote "+want)
	assert.FileExists(t, want)
}

// --- store / history ---

func TestStoreAndHistory(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", criticalXER())

	out, err := executeCmd(t, app, "store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "(1 projects, 0 findings)")

	runs, err := app.Runs.History(context.Background(), repository.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	id := runs[0].ID

	out, err = executeCmd(t, app, "history")
	require.NoError(t, err)
	assert.Contains(t, out, id[:8])
	assert.Contains(t, out, "Just now")

	out, err = executeCmd(t, app, "history", "show", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "DEMO")

	out, err = executeCmd(t, app, "history", "tasks", id, "--project", "DEMO")
	require.NoError(t, err)
	assert.Contains(t, out, "A1010")

	out, err = executeCmd(t, app, "history", "rm", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted run")

	_, err = executeCmd(t, app, "history", "show", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestHistoryCmd_OpensStoreLazily(t *testing.T) {
	app := testApp(t)
	runs := app.Runs
	app.Runs = nil
	opened := 0
	app.OpenRuns = func(*App) (service.RunService, error) {
		opened++
		return runs, nil
	}

	out, err := executeCmd(t, app, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "no stored runs")
	assert.Equal(t, 1, opened)
}

func TestHistoryCmd_NoStore(t *testing.T) {
	app := testApp(t)
	app.Runs = nil

	_, err := executeCmd(t, app, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run store is not configured")
}

// --- browse ---

func TestBrowseCmd_NeedsTerminal(t *testing.T) {
	app := testApp(t)
	path := writeXER(t, t.TempDir(), "a.xer", testutil.MinimalXER())

	_, err := executeCmd(t, app, "browse", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}
