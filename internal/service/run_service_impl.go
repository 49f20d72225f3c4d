package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/xerkit/internal/db"
	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/repository"
	"github.com/google/uuid"
)

type runService struct {
	analysis AnalysisService
	runs     repository.RunRepo
	uow      db.UnitOfWork
	strict   bool
	observer UseCaseObserver
}

// NewRunService stores analysis runs. strict is recorded on each run and
// should match the analysis service configuration.
func NewRunService(
	analysis AnalysisService,
	runs repository.RunRepo,
	uow db.UnitOfWork,
	strict bool,
	observers ...UseCaseObserver,
) RunService {
	return &runService{
		analysis: analysis,
		runs:     runs,
		uow:      uow,
		strict:   strict,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *runService) Store(ctx context.Context, path string) (run *domain.AnalysisRun, err error) {
	fields := map[string]any{"file": path}
	defer observe(ctx, s.observer, "store-run", fields, &err)()

	imp, err := s.analysis.Analyze(ctx, path)
	if err != nil {
		return nil, err
	}
	rec := newRunRecords(uuid.New().String(), path, imp, s.strict, time.Now())
	fields["run_id"] = rec.run.ID
	fields["task_count"] = len(rec.tasks)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRuns := repository.NewSQLiteRunRepo(tx)

		if err := txRuns.Create(ctx, rec.run); err != nil {
			return err
		}
		for _, p := range rec.projects {
			if err := txRuns.AddProject(ctx, p); err != nil {
				return err
			}
		}
		for _, t := range rec.tasks {
			if err := txRuns.AddTask(ctx, t); err != nil {
				return err
			}
		}
		for _, f := range rec.findings {
			if err := txRuns.AddFinding(ctx, f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storing run for %s: %w", path, err)
	}
	return rec.run, nil
}

func (s *runService) Get(ctx context.Context, id string) (*RunDetail, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	projects, err := s.runs.ListProjects(ctx, id)
	if err != nil {
		return nil, err
	}
	findings, err := s.runs.ListFindings(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RunDetail{Run: run, Projects: projects, Findings: findings}, nil
}

func (s *runService) Tasks(ctx context.Context, id, project string) ([]*domain.RunTask, error) {
	return s.runs.ListTasks(ctx, id, project)
}

func (s *runService) History(ctx context.Context, filter repository.RunFilter) ([]*domain.AnalysisRun, error) {
	return s.runs.List(ctx, filter)
}

func (s *runService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-run", map[string]any{"run_id": id}, &err)()
	return s.runs.Delete(ctx, id)
}
