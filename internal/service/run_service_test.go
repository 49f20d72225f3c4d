package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/xerkit/internal/db"
	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/repository"
	"github.com/alexanderramin/xerkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRunService wires a run service to an in-memory store. wrap, when set,
// replaces the unit of work.
func newRunService(t *testing.T, wrap func(*sql.DB) db.UnitOfWork, observers ...UseCaseObserver) (RunService, repository.RunRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	runs := repository.NewSQLiteRunRepo(database)
	uow := testutil.NewTestUoW(database)
	if wrap != nil {
		uow = wrap(database)
	}
	return NewRunService(NewAnalysisService(AnalysisConfig{}), runs, uow, false, observers...), runs
}

func criticalXER() *testutil.XER {
	return testutil.MinimalXER().
		Add("TASK", testutil.TaskRow("301", "100", "200", "A1010",
			testutil.With("total_float_hr_cnt", "-8"),
			testutil.With("status_code", "TK_Active"),
			testutil.With("act_start_date", "2024-01-02 08:00"),
			testutil.With("remain_drtn_hr_cnt", "40"))).
		Add("TASKPRED", testutil.RelationshipRow("400", "100", "300", "301", "PR_FS"))
}

func TestRunService_StoreAndGet(t *testing.T) {
	rec := &recordingObserver{}
	svc, _ := newRunService(t, nil, rec)
	ctx := context.Background()
	path := writeXER(t, "demo.xer", criticalXER())

	run, err := svc.Store(ctx, path)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "19.12", run.Version)
	assert.Equal(t, "Planner Name", run.ExportedBy)
	assert.Equal(t, "USD", run.Currency)
	assert.Equal(t, 1, run.ProjectCount)

	detail, err := svc.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, detail.Run)
	assert.Empty(t, detail.Findings)
	require.Len(t, detail.Projects, 1)
	p := detail.Projects[0]
	assert.Equal(t, "DEMO", p.ShortName)
	assert.Equal(t, "Demo Project", p.Name)
	assert.Equal(t, 2, p.TaskCount)
	assert.Equal(t, 1, p.RelationshipCount)
	assert.Equal(t, 1, p.CriticalCount)
	require.NotNil(t, p.DurationPercent)

	tasks, err := svc.Tasks(ctx, run.ID, "DEMO")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "A1000", tasks[0].Code)
	assert.False(t, tasks[0].Critical)
	assert.Equal(t, "A1010", tasks[1].Code)
	assert.True(t, tasks[1].Critical)
	assert.Equal(t, domain.StatusActive, tasks[1].Status)
	require.NotNil(t, tasks[1].TotalFloat)
	assert.Equal(t, -1, *tasks[1].TotalFloat)
	require.NotNil(t, tasks[1].Start)
	assert.Equal(t, 2, tasks[1].Start.Day())
	assert.Equal(t, 0.5, tasks[1].Percent)

	events := rec.named("store-run")
	require.Len(t, events, 1)
	assert.Equal(t, run.ID, events[0].Fields["run_id"])
	assert.Equal(t, 2, events[0].Fields["task_count"])
}

func TestRunService_StoresFindings(t *testing.T) {
	svc, _ := newRunService(t, nil)
	ctx := context.Background()
	path := writeXER(t, "corrupt.xer", testutil.MinimalXER().Drop("TASKPRED"))

	run, err := svc.Store(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, run.FindingCount)

	detail, err := svc.Get(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, detail.Findings, 1)
	assert.Equal(t, 1, detail.Findings[0].Seq)
	assert.Equal(t, "missing_table", detail.Findings[0].Code)
	assert.Equal(t, "Missing Required Table TASKPRED", detail.Findings[0].Message)
}

func TestRunService_HistoryAndDelete(t *testing.T) {
	svc, _ := newRunService(t, nil)
	ctx := context.Background()
	a := writeXER(t, "a.xer", testutil.MinimalXER())
	b := writeXER(t, "b.xer", testutil.MinimalXER())

	runA, err := svc.Store(ctx, a)
	require.NoError(t, err)
	_, err = svc.Store(ctx, b)
	require.NoError(t, err)

	all, err := svc.History(ctx, repository.RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyA, err := svc.History(ctx, repository.RunFilter{File: a})
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, runA.ID, onlyA[0].ID)

	require.NoError(t, svc.Delete(ctx, runA.ID))
	_, err = svc.Get(ctx, runA.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, runA.ID), repository.ErrNotFound)
}

func TestRunService_StoreRollsBackOnFailure(t *testing.T) {
	boom := errors.New("injected failure")
	svc, runs := newRunService(t, func(database *sql.DB) db.UnitOfWork {
		return &testutil.FailingInsertUoW{DB: database, Table: "run_tasks", Nth: 2, Err: boom}
	})
	ctx := context.Background()

	_, err := svc.Store(ctx, writeXER(t, "demo.xer", criticalXER()))
	require.ErrorIs(t, err, boom)

	history, err := runs.List(ctx, repository.RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, history, "a failed store leaves no partial run")
}

func TestRunService_StoreMissingFile(t *testing.T) {
	svc, runs := newRunService(t, nil)
	ctx := context.Background()

	_, err := svc.Store(ctx, "does-not-exist.xer")
	require.Error(t, err)

	history, err := runs.List(ctx, repository.RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, history)
}
