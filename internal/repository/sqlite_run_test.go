package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	run := newTestRun("demo.xer", withFindingCount(2))
	run.Strict = true
	require.NoError(t, repo.Create(ctx, run))

	fetched, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, fetched)
}

func TestRunRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteRunRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunRepo_List_NewestFirstWithFilter(t *testing.T) {
	repo := NewSQLiteRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	first := newTestRun("a.xer", withCreatedAt(base))
	second := newTestRun("b.xer", withCreatedAt(base.Add(time.Hour)))
	third := newTestRun("a.xer", withCreatedAt(base.Add(2*time.Hour)))
	for _, r := range []*domain.AnalysisRun{first, second, third} {
		require.NoError(t, repo.Create(ctx, r))
	}

	all, err := repo.List(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	onlyA, err := repo.List(ctx, RunFilter{File: "a.xer"})
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	assert.Equal(t, third.ID, onlyA[0].ID)

	latest, err := repo.List(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, third.ID, latest[0].ID)
}

func TestRunRepo_ProjectsTasksFindings(t *testing.T) {
	repo := NewSQLiteRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	run := newTestRun("demo.xer")
	require.NoError(t, repo.Create(ctx, run))

	proj := newTestRunProject(run.ID, "DEMO")
	require.NoError(t, repo.AddProject(ctx, proj))
	noPct := newTestRunProject(run.ID, "ALPHA")
	noPct.DurationPercent = nil
	require.NoError(t, repo.AddProject(ctx, noPct))

	float := -2
	late := newTestRunTask(run.ID, "DEMO", "A1010")
	late.TotalFloat = &float
	late.Critical = true
	late.Start = nil
	require.NoError(t, repo.AddTask(ctx, late))
	require.NoError(t, repo.AddTask(ctx, newTestRunTask(run.ID, "DEMO", "A1000")))
	require.NoError(t, repo.AddTask(ctx, newTestRunTask(run.ID, "ALPHA", "B1000")))

	require.NoError(t, repo.AddFinding(ctx, &domain.RunFinding{RunID: run.ID, Seq: 2, Code: "missing_resources", Message: "second"}))
	require.NoError(t, repo.AddFinding(ctx, &domain.RunFinding{RunID: run.ID, Seq: 1, Code: "missing_table", Message: "first"}))

	projects, err := repo.ListProjects(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "ALPHA", projects[0].ShortName)
	assert.Nil(t, projects[0].DurationPercent)
	assert.Equal(t, proj, projects[1])

	tasks, err := repo.ListTasks(ctx, run.ID, "DEMO")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "A1000", tasks[0].Code)
	assert.Equal(t, late, tasks[1])

	every, err := repo.ListTasks(ctx, run.ID, "")
	require.NoError(t, err)
	assert.Len(t, every, 3)

	findings, err := repo.ListFindings(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, "first", findings[0].Message)
	assert.Equal(t, "missing_resources", findings[1].Code)
}

func TestRunRepo_AddProject_UnknownRun(t *testing.T) {
	repo := NewSQLiteRunRepo(testutil.NewTestDB(t))

	err := repo.AddProject(context.Background(), newTestRunProject("missing", "DEMO"))
	assert.Error(t, err, "foreign key should reject a project without a run")
}

func TestRunRepo_DeleteCascades(t *testing.T) {
	repo := NewSQLiteRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	run := newTestRun("demo.xer")
	require.NoError(t, repo.Create(ctx, run))
	require.NoError(t, repo.AddProject(ctx, newTestRunProject(run.ID, "DEMO")))
	require.NoError(t, repo.AddTask(ctx, newTestRunTask(run.ID, "DEMO", "A1000")))

	require.NoError(t, repo.Delete(ctx, run.ID))

	_, err := repo.GetByID(ctx, run.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	projects, err := repo.ListProjects(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, projects)
	tasks, err := repo.ListTasks(ctx, run.ID, "")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	assert.ErrorIs(t, repo.Delete(ctx, run.ID), ErrNotFound)
}
