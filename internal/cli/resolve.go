package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/importer"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

func analyze(ctx context.Context, app *App, path string) (*importer.Import, error) {
	if app.Analysis == nil {
		return nil, fmt.Errorf("analysis service is not configured")
	}
	return app.Analysis.Analyze(ctx, path)
}

func sortedProjects(s *domain.Schedule) []*domain.Project {
	return slices.SortedFunc(slices.Values(s.Projects.All()), func(a, b *domain.Project) int {
		return cmp.Compare(a.ShortName, b.ShortName)
	})
}

// selectProjects returns the named project, or every project when name is
// empty.
func selectProjects(s *domain.Schedule, name string) ([]*domain.Project, error) {
	if name == "" {
		return sortedProjects(s), nil
	}
	for _, p := range s.Projects.All() {
		if strings.EqualFold(p.ShortName, name) {
			return []*domain.Project{p}, nil
		}
	}
	return nil, fmt.Errorf("project not found: %q (have %s)", name, projectNames(s))
}

// resolveProject returns the named project, or the only project when name
// is empty.
func resolveProject(s *domain.Schedule, name string) (*domain.Project, error) {
	projects, err := selectProjects(s, name)
	if err != nil {
		return nil, err
	}
	switch len(projects) {
	case 0:
		return nil, fmt.Errorf("file has no exported projects")
	case 1:
		return projects[0], nil
	default:
		return nil, fmt.Errorf("file has %d projects (%s); choose one with --project", len(projects), projectNames(s))
	}
}

func projectNames(s *domain.Schedule) string {
	var names []string
	for _, p := range sortedProjects(s) {
		names = append(names, p.ShortName)
	}
	return strings.Join(names, ", ")
}

// resolveTask finds a task by activity id across the given projects.
func resolveTask(projects []*domain.Project, code string) (*domain.Task, error) {
	for _, p := range projects {
		if t, ok := p.TaskByCode(code); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("activity not found: %q", code)
}

// findTasks ranks tasks by how well their id and name match query, best
// first. An empty query keeps every task ordered by id.
func findTasks(tasks []*domain.Task, query string) []*domain.Task {
	if query == "" {
		return slices.SortedFunc(slices.Values(tasks), func(a, b *domain.Task) int {
			return cmp.Compare(a.Code, b.Code)
		})
	}
	targets := make([]string, len(tasks))
	for i, t := range tasks {
		targets[i] = t.Code + " " + t.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Stable(ranks)

	out := make([]*domain.Task, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, tasks[r.OriginalIndex])
	}
	return out
}

func criticalOnly(tasks []*domain.Task) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		if t.IsCritical() {
			out = append(out, t)
		}
	}
	return out
}
