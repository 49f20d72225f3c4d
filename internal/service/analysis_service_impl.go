package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/alexanderramin/xerkit/internal/importer"
	"github.com/alexanderramin/xerkit/internal/snapshot"
	"golang.org/x/sync/errgroup"
)

// AnalysisConfig controls how files are imported.
type AnalysisConfig struct {
	Rules   importer.Rules
	Strict  bool
	Workers int
	Logger  *slog.Logger
}

type analysisService struct {
	cfg      AnalysisConfig
	observer UseCaseObserver
}

// NewAnalysisService returns a service importing files with cfg. Zero
// Rules mean the default rules; Workers below one means one per CPU.
func NewAnalysisService(cfg AnalysisConfig, observers ...UseCaseObserver) AnalysisService {
	if cfg.Rules.RequiredTables == nil && cfg.Rules.TablePairs == nil {
		cfg.Rules = importer.DefaultRules()
	}
	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &analysisService{cfg: cfg, observer: useCaseObserverOrNoop(observers)}
}

func (s *analysisService) importOptions(path string) []importer.Option {
	return []importer.Option{
		importer.WithRules(s.cfg.Rules),
		importer.WithStrict(s.cfg.Strict),
		importer.WithLogger(s.cfg.Logger.With("file", path)),
	}
}

func (s *analysisService) Analyze(ctx context.Context, path string) (imp *importer.Import, err error) {
	fields := map[string]any{"file": path}
	defer observe(ctx, s.observer, "analyze", fields, &err)()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	imp, err = importer.FromFile(path, s.importOptions(path)...)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	fields["findings"] = len(imp.Findings)
	fields["projects"] = imp.Schedule.Projects.Len()
	return imp, nil
}

// Batch imports files in parallel. A file that fails to import is reported
// in its result; only cancellation fails the batch. Results keep the order
// of paths.
func (s *analysisService) Batch(ctx context.Context, paths []string) (results []FileResult, err error) {
	fields := map[string]any{"files": len(paths), "workers": s.cfg.Workers}
	defer observe(ctx, s.observer, "batch", fields, &err)()

	results = make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].Path = path
			results[i].Import, results[i].Err = importer.FromFile(path, s.importOptions(path)...)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	fields["failed"] = failed
	return results, nil
}

func (s *analysisService) Snapshot(ctx context.Context, paths []string) ([]snapshot.File, error) {
	results, err := s.Batch(ctx, paths)
	if err != nil {
		return nil, err
	}
	files := make([]snapshot.File, len(results))
	for i, r := range results {
		if r.Err != nil {
			files[i] = snapshot.Failed(r.Path, r.Err)
			continue
		}
		files[i] = snapshot.Build(r.Path, r.Import)
	}
	return files, nil
}
