package service

import (
	"time"

	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/importer"
)

// runRecords is everything stored for one import.
type runRecords struct {
	run      *domain.AnalysisRun
	projects []*domain.RunProject
	tasks    []*domain.RunTask
	findings []*domain.RunFinding
}

func newRunRecords(id, path string, imp *importer.Import, strict bool, now time.Time) runRecords {
	header := imp.Schedule.Header
	rec := runRecords{run: &domain.AnalysisRun{
		ID:           id,
		File:         path,
		Version:      header.Version,
		ExportedBy:   header.User,
		Currency:     header.Currency,
		Strict:       strict,
		FindingCount: len(imp.Findings),
		ProjectCount: imp.Schedule.Projects.Len(),
		CreatedAt:    now.UTC().Truncate(time.Second),
	}}
	if !header.ExportDate.IsZero() {
		d := header.ExportDate
		rec.run.ExportDate = &d
	}

	for i, f := range imp.Findings {
		rec.findings = append(rec.findings, &domain.RunFinding{
			RunID:   id,
			Seq:     i + 1,
			Code:    string(f.Code),
			Message: f.Error(),
		})
	}
	for _, p := range imp.Schedule.Projects.All() {
		rec.projects = append(rec.projects, projectRecord(id, p))
		for _, t := range p.Tasks() {
			rec.tasks = append(rec.tasks, taskRecord(id, p.ShortName, t))
		}
	}
	return rec
}

func projectRecord(runID string, p *domain.Project) *domain.RunProject {
	rp := &domain.RunProject{
		RunID:             runID,
		ShortName:         p.ShortName,
		Name:              p.Name,
		DataDate:          p.DataDate,
		FinishDate:        p.FinishDate,
		TaskCount:         len(p.Tasks()),
		RelationshipCount: len(p.Relationships()),
		CriticalCount:     len(p.CriticalTasks()),
		TaskPercent:       p.TaskPercent(),
		BudgetCost:        p.BudgetedCost(),
		ActualCost:        p.ActualCost(),
		RemainingCost:     p.RemainingCost(),
	}
	if pct, err := p.DurationPercent(); err == nil {
		rp.DurationPercent = &pct
	}
	return rp
}

func taskRecord(runID, project string, t *domain.Task) *domain.RunTask {
	rt := &domain.RunTask{
		RunID:      runID,
		Project:    project,
		Code:       t.Code,
		Name:       t.Name,
		Status:     t.Status,
		TotalFloat: t.TotalFloat(),
		Percent:    t.PercentComplete(),
		Critical:   t.IsCritical(),
	}
	if d, err := t.Start(); err == nil {
		rt.Start = &d
	}
	if d, err := t.Finish(); err == nil {
		rt.Finish = &d
	}
	return rt
}
