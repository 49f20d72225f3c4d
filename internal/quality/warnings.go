// Package quality reports schedule quality warnings for a linked project.
package quality

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/alexanderramin/xerkit/internal/domain"
)

// Options holds the thresholds, in days, used by Analyze.
type Options struct {
	LongDuration int
	LongLag      int
}

func DefaultOptions() Options {
	return Options{LongDuration: 20, LongLag: 10}
}

func (o Options) validate() error {
	if o.LongDuration <= 0 {
		return fmt.Errorf("long duration threshold must be positive, got %d", o.LongDuration)
	}
	if o.LongLag <= 0 {
		return fmt.Errorf("long lag threshold must be positive, got %d", o.LongLag)
	}
	return nil
}

// DuplicateLogic is a task linked more than once to the same successor
// where at least one of the links is finish to start.
type DuplicateLogic struct {
	Task  *domain.Task
	Links []domain.TaskLink
}

// Redundancy lists the chains that make direct predecessor links of Task
// redundant.
type Redundancy struct {
	Task   *domain.Task
	Chains [][]domain.TaskLink
}

// Report groups the tasks and relationships that break common scheduling
// practice. Every list is ordered by task code.
type Report struct {
	OpenPredecessors []*domain.Task
	OpenSuccessors   []*domain.Task
	OpenStarts       []*domain.Task
	OpenFinishes     []*domain.Task
	InvalidStarts    []*domain.Task
	InvalidFinishes  []*domain.Task
	LongDurations    []*domain.Task
	NoProgress       []*domain.Task
	CostVariance     []*domain.Task
	DuplicateNames   [][]*domain.Task
	DuplicateLogic   []DuplicateLogic
	RedundantLogic   []Redundancy

	StartFinishLinks   []*domain.Relationship
	NegativeLags       []*domain.Relationship
	LongLags           []*domain.Relationship
	FinishStartWithLag []*domain.Relationship
	LagExceedsDuration []*domain.Relationship
}

// Count is the size of one warning category.
type Count struct {
	Category string
	Count    int
}

// Counts lists every category with its size, in report order.
func (r *Report) Counts() []Count {
	dupNames := 0
	for _, g := range r.DuplicateNames {
		dupNames += len(g)
	}
	return []Count{
		{"Open Predecessors", len(r.OpenPredecessors)},
		{"Open Successors", len(r.OpenSuccessors)},
		{"Open Starts", len(r.OpenStarts)},
		{"Open Finishes", len(r.OpenFinishes)},
		{"Invalid Actual Starts", len(r.InvalidStarts)},
		{"Invalid Actual Finishes", len(r.InvalidFinishes)},
		{"Long Durations", len(r.LongDurations)},
		{"In Progress Without Progress", len(r.NoProgress)},
		{"Cost Variance", len(r.CostVariance)},
		{"Duplicate Names", dupNames},
		{"Duplicate Logic", len(r.DuplicateLogic)},
		{"Redundant Logic", len(r.RedundantLogic)},
		{"Start to Finish Links", len(r.StartFinishLinks)},
		{"Negative Lags", len(r.NegativeLags)},
		{"Long Lags", len(r.LongLags)},
		{"Finish to Start With Lag", len(r.FinishStartWithLag)},
		{"Lag Exceeds Duration", len(r.LagExceedsDuration)},
	}
}

// Total is the number of flagged items across all categories.
func (r *Report) Total() int {
	n := 0
	for _, c := range r.Counts() {
		n += c.Count
	}
	return n
}

func byCode(a, b *domain.Task) int { return cmp.Compare(a.Code, b.Code) }

func byKey(a, b *domain.Relationship) int { return cmp.Compare(a.Key().String(), b.Key().String()) }

// Analyze checks every task and relationship of a frozen project.
func Analyze(p *domain.Project, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	r := &Report{}

	tasks := slices.SortedFunc(slices.Values(p.Tasks()), byCode)
	r.DuplicateNames = duplicateNames(tasks)
	for _, t := range tasks {
		r.checkTask(t, p, opts)
	}

	rels := slices.SortedFunc(slices.Values(p.Relationships()), byKey)
	for _, rel := range rels {
		r.checkRelationship(rel, opts)
	}
	return r, nil
}

func (r *Report) checkTask(t *domain.Task, p *domain.Project, opts Options) {
	if len(t.Predecessors) == 0 {
		r.OpenPredecessors = append(r.OpenPredecessors, t)
	} else if !hasLink(t.Predecessors, domain.LinkFS, domain.LinkSS) {
		r.OpenStarts = append(r.OpenStarts, t)
	}
	if len(t.Successors) == 0 {
		r.OpenSuccessors = append(r.OpenSuccessors, t)
	} else if !hasLink(t.Successors, domain.LinkFS, domain.LinkFF) {
		r.OpenFinishes = append(r.OpenFinishes, t)
	}

	if t.ActualStart != nil && !t.ActualStart.Before(p.DataDate) {
		r.InvalidStarts = append(r.InvalidStarts, t)
	}
	if t.ActualFinish != nil && !t.ActualFinish.Before(p.DataDate) {
		r.InvalidFinishes = append(r.InvalidFinishes, t)
	}
	if !t.Type.IsLOE() && t.OriginalDuration() > opts.LongDuration {
		r.LongDurations = append(r.LongDurations, t)
	}
	if t.Status.IsInProgress() && t.PercentComplete() == 0 && t.RemainingDuration() == t.OriginalDuration() {
		r.NoProgress = append(r.NoProgress, t)
	}
	if t.AtCompletionCost() != t.BudgetedCost() {
		r.CostVariance = append(r.CostVariance, t)
	}

	r.DuplicateLogic = append(r.DuplicateLogic, duplicateLogic(t)...)
	if chains := RedundantLogic(t); len(chains) > 0 {
		r.RedundantLogic = append(r.RedundantLogic, Redundancy{Task: t, Chains: chains})
	}
}

func (r *Report) checkRelationship(rel *domain.Relationship, opts Options) {
	lag := rel.Lag()
	if lag < 0 {
		r.NegativeLags = append(r.NegativeLags, rel)
	}
	if lag >= opts.LongLag {
		r.LongLags = append(r.LongLags, rel)
	}
	switch rel.Link {
	case domain.LinkSF:
		r.StartFinishLinks = append(r.StartFinishLinks, rel)
	case domain.LinkFS:
		if lag > 0 {
			r.FinishStartWithLag = append(r.FinishStartWithLag, rel)
		}
	case domain.LinkSS:
		if d := rel.Predecessor.Duration(); d > 0 && d <= lag {
			r.LagExceedsDuration = append(r.LagExceedsDuration, rel)
		}
	case domain.LinkFF:
		if d := rel.Successor.Duration(); d > 0 && d <= lag {
			r.LagExceedsDuration = append(r.LagExceedsDuration, rel)
		}
	}
}

func hasLink(links []domain.TaskLink, types ...domain.LinkType) bool {
	for _, l := range links {
		if slices.Contains(types, l.Link) {
			return true
		}
	}
	return false
}

// duplicateNames groups tasks sharing a name. tasks must be sorted by code.
func duplicateNames(tasks []*domain.Task) [][]*domain.Task {
	groups := make(map[string][]*domain.Task)
	var names []string
	for _, t := range tasks {
		if _, ok := groups[t.Name]; !ok {
			names = append(names, t.Name)
		}
		groups[t.Name] = append(groups[t.Name], t)
	}
	slices.Sort(names)
	var out [][]*domain.Task
	for _, n := range names {
		if len(groups[n]) > 1 {
			out = append(out, groups[n])
		}
	}
	return out
}

func duplicateLogic(t *domain.Task) []DuplicateLogic {
	bySucc := make(map[*domain.Task][]domain.TaskLink)
	var order []*domain.Task
	for _, s := range t.Successors {
		if _, ok := bySucc[s.Task]; !ok {
			order = append(order, s.Task)
		}
		bySucc[s.Task] = append(bySucc[s.Task], s)
	}
	slices.SortFunc(order, byCode)
	var out []DuplicateLogic
	for _, succ := range order {
		links := bySucc[succ]
		if len(links) > 1 && hasLink(links, domain.LinkFS) {
			out = append(out, DuplicateLogic{Task: t, Links: links})
		}
	}
	return out
}
