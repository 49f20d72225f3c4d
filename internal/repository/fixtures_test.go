package repository

import (
	"time"

	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/google/uuid"
)

type runOption func(*domain.AnalysisRun)

func withCreatedAt(t time.Time) runOption {
	return func(r *domain.AnalysisRun) {
		r.CreatedAt = t.UTC().Truncate(time.Second)
	}
}

func withFindingCount(n int) runOption {
	return func(r *domain.AnalysisRun) {
		r.FindingCount = n
	}
}

func newTestRun(file string, opts ...runOption) *domain.AnalysisRun {
	exported := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	r := &domain.AnalysisRun{
		ID:         uuid.New().String(),
		File:       file,
		Version:    "19.12",
		ExportDate: &exported,
		ExportedBy: "planner",
		Currency:   "USD",
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newTestRunProject(runID, shortName string) *domain.RunProject {
	pct := 0.25
	return &domain.RunProject{
		RunID:             runID,
		ShortName:         shortName,
		Name:              "Project " + shortName,
		DataDate:          time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC),
		FinishDate:        time.Date(2024, 1, 31, 16, 0, 0, 0, time.UTC),
		TaskCount:         3,
		RelationshipCount: 2,
		CriticalCount:     1,
		TaskPercent:       0.5,
		DurationPercent:   &pct,
		BudgetCost:        1000,
		ActualCost:        250,
		RemainingCost:     750,
	}
}

func newTestRunTask(runID, project, code string) *domain.RunTask {
	start := time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)
	return &domain.RunTask{
		RunID:   runID,
		Project: project,
		Code:    code,
		Name:    "Activity " + code,
		Status:  domain.StatusNotStarted,
		Start:   &start,
	}
}
