package repository

import (
	"context"

	"github.com/alexanderramin/xerkit/internal/domain"
)

// RunFilter narrows a run listing. Zero values match everything.
type RunFilter struct {
	File  string
	Limit int
}

type RunRepo interface {
	Create(ctx context.Context, r *domain.AnalysisRun) error
	AddProject(ctx context.Context, p *domain.RunProject) error
	AddTask(ctx context.Context, t *domain.RunTask) error
	AddFinding(ctx context.Context, f *domain.RunFinding) error
	GetByID(ctx context.Context, id string) (*domain.AnalysisRun, error)
	List(ctx context.Context, filter RunFilter) ([]*domain.AnalysisRun, error)
	ListProjects(ctx context.Context, runID string) ([]*domain.RunProject, error)
	ListTasks(ctx context.Context, runID, project string) ([]*domain.RunTask, error)
	ListFindings(ctx context.Context, runID string) ([]*domain.RunFinding, error)
	Delete(ctx context.Context, id string) error
}
