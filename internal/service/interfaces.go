package service

import (
	"context"

	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/importer"
	"github.com/alexanderramin/xerkit/internal/repository"
	"github.com/alexanderramin/xerkit/internal/snapshot"
)

// FileResult is the outcome of importing one file in a batch. Exactly one
// of Import and Err is set.
type FileResult struct {
	Path   string
	Import *importer.Import
	Err    error
}

type AnalysisService interface {
	Analyze(ctx context.Context, path string) (*importer.Import, error)
	Batch(ctx context.Context, paths []string) ([]FileResult, error)
	Snapshot(ctx context.Context, paths []string) ([]snapshot.File, error)
}

// RunDetail is a stored run with its project figures and findings.
type RunDetail struct {
	Run      *domain.AnalysisRun
	Projects []*domain.RunProject
	Findings []*domain.RunFinding
}

type RunService interface {
	Store(ctx context.Context, path string) (*domain.AnalysisRun, error)
	Get(ctx context.Context, id string) (*RunDetail, error)
	Tasks(ctx context.Context, id, project string) ([]*domain.RunTask, error)
	History(ctx context.Context, filter repository.RunFilter) ([]*domain.AnalysisRun, error)
	Delete(ctx context.Context, id string) error
}
