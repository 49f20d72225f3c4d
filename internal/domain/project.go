package domain

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/xerkit/internal/calendar"
	"github.com/alexanderramin/xerkit/internal/dates"
	"github.com/alexanderramin/xerkit/internal/parser"
)

// ErrFrozen is returned when a project is modified after linking finished.
var ErrFrozen = errors.New("project is frozen")

// Project is an exported schedule (PROJECT) and everything linked to it.
type Project struct {
	ID                    string
	ShortName             string
	Name                  string
	CalendarID            string
	AddDate               time.Time
	DataDate              time.Time
	FinishDate            time.Time
	PlanStart             time.Time
	MustFinish            *time.Time
	LastScheduleDate      *time.Time
	LastFinancialPeriodID string
	Exported              bool

	Options           *ScheduleOptions
	DefaultCalendar   *calendar.Calendar
	WBSRoot           *WbsNode
	Calendars         []*calendar.Calendar
	ActivityCodeTypes []*ActivityCodeType
	ProjectCodes      map[*ProjectCodeType]*ProjectCode
	UDFs              UDFSet

	wbsNodes      []*WbsNode
	tasks         []*Task
	relationships []*Relationship
	assignments   []*ResourceAssignment

	frozen  bool
	wbs     *Hierarchy[*WbsNode]
	metrics projectMetrics
}

type projectMetrics struct {
	actualCost     float64
	budgetedCost   float64
	remainingCost  float64
	thisPeriodCost float64
	taskPercent    float64
	tasksByCode    map[string]*Task
	wbsByPath      map[string]*WbsNode
	relsByKey      map[RelationshipKey]*Relationship
}

// NewProject builds a project from a PROJECT row. options and cal may be
// nil.
func NewProject(row parser.Row, options *ScheduleOptions, cal *calendar.Calendar) (*Project, error) {
	f := parser.NewFields("PROJECT", row)
	p := &Project{
		ID:                    f.Str("proj_id"),
		ShortName:             f.Str("proj_short_name"),
		CalendarID:            f.Str("clndr_id"),
		AddDate:               f.DateTime("add_date"),
		DataDate:              f.DateTime("last_recalc_date"),
		FinishDate:            f.DateTime("scd_end_date"),
		PlanStart:             f.DateTime("plan_start_date"),
		MustFinish:            f.OptDateTime("plan_end_date"),
		LastScheduleDate:      f.OptDateTime("last_schedule_date"),
		LastFinancialPeriodID: f.Str("last_fin_dates_id"),
		Exported:              f.Flag("export_flag"),
		Options:               options,
		DefaultCalendar:       cal,
		ProjectCodes:          make(map[*ProjectCodeType]*ProjectCode),
		UDFs:                  UDFSet{},
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("project %s: %w", p.ID, err)
	}
	if options != nil {
		if err := checkKey("project "+p.ShortName, "schedoptions proj_id", options.ProjectID, p.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Project) String() string { return p.ShortName + " - " + p.Name }

func (p *Project) guard() error {
	if p.frozen {
		return fmt.Errorf("project %s: %w", p.ShortName, ErrFrozen)
	}
	return nil
}

// AddWBS attaches a WBS node. The project node also names the project.
func (p *Project) AddWBS(w *WbsNode) error {
	if err := p.guard(); err != nil {
		return err
	}
	p.wbsNodes = append(p.wbsNodes, w)
	if w.IsProjectNode {
		p.WBSRoot = w
		p.Name = w.Name
	}
	return nil
}

func (p *Project) AddTask(t *Task) error {
	if err := p.guard(); err != nil {
		return err
	}
	p.tasks = append(p.tasks, t)
	return nil
}

func (p *Project) AddRelationship(r *Relationship) error {
	if err := p.guard(); err != nil {
		return err
	}
	p.relationships = append(p.relationships, r)
	return nil
}

func (p *Project) AddAssignment(a *ResourceAssignment) error {
	if err := p.guard(); err != nil {
		return err
	}
	p.assignments = append(p.assignments, a)
	return nil
}

// Freeze builds the WBS tree and computes the cached metrics. Nothing can
// be added afterwards.
func (p *Project) Freeze() {
	if p.frozen {
		return
	}
	p.frozen = true
	p.wbs = NewHierarchy(p.wbsNodes, isProjectNode)

	m := projectMetrics{
		tasksByCode: make(map[string]*Task, len(p.tasks)),
		wbsByPath:   make(map[string]*WbsNode, len(p.wbsNodes)),
		relsByKey:   make(map[RelationshipKey]*Relationship, len(p.relationships)),
	}
	var actual, budget, remaining, period []float64
	for _, t := range p.tasks {
		m.tasksByCode[t.Code] = t
		actual = append(actual, t.ActualCost())
		budget = append(budget, t.BudgetedCost())
		remaining = append(remaining, t.RemainingCost())
		period = append(period, t.ThisPeriodCost())
	}
	m.actualCost = dates.Sum(2, actual...)
	m.budgetedCost = dates.Sum(2, budget...)
	m.remainingCost = dates.Sum(2, remaining...)
	m.thisPeriodCost = dates.Sum(2, period...)
	for _, w := range p.wbsNodes {
		m.wbsByPath[w.FullCode()] = w
	}
	for _, r := range p.relationships {
		m.relsByKey[r.Key()] = r
	}
	m.taskPercent = taskPercent(p.tasks)
	p.metrics = m
}

func (p *Project) Frozen() bool { return p.frozen }

func (p *Project) Tasks() []*Task                     { return p.tasks }
func (p *Project) Relationships() []*Relationship     { return p.relationships }
func (p *Project) Assignments() []*ResourceAssignment { return p.assignments }
func (p *Project) WBSNodes() []*WbsNode               { return p.wbsNodes }
func (p *Project) WBS() *Hierarchy[*WbsNode]          { return p.wbs }

// TaskByCode looks a task up by its activity id.
func (p *Project) TaskByCode(code string) (*Task, bool) {
	t, ok := p.metrics.tasksByCode[code]
	return t, ok
}

// WBSByPath looks a node up by its full code.
func (p *Project) WBSByPath(path string) (*WbsNode, bool) {
	w, ok := p.metrics.wbsByPath[path]
	return w, ok
}

// Relationship looks a relationship up by key.
func (p *Project) Relationship(key RelationshipKey) (*Relationship, bool) {
	r, ok := p.metrics.relsByKey[key]
	return r, ok
}

// UniqueRelationships is the number of distinct relationship keys.
func (p *Project) UniqueRelationships() int { return len(p.metrics.relsByKey) }

func (p *Project) ActualCost() float64     { return p.metrics.actualCost }
func (p *Project) BudgetedCost() float64   { return p.metrics.budgetedCost }
func (p *Project) RemainingCost() float64  { return p.metrics.remainingCost }
func (p *Project) ThisPeriodCost() float64 { return p.metrics.thisPeriodCost }

// TaskPercent is the mean of the duration based and the status based
// percent complete of all tasks. In-progress tasks count half.
func (p *Project) TaskPercent() float64 { return p.metrics.taskPercent }

func taskPercent(tasks []*Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	var orig, rem, status float64
	for _, t := range tasks {
		orig += float64(t.OriginalDuration())
		rem += float64(t.RemainingDuration())
		switch {
		case t.Status.IsCompleted():
			status++
		case t.Status.IsInProgress():
			status += 0.5
		}
	}
	var durPct float64
	if orig != 0 {
		durPct = 1 - rem/orig
	}
	statusPct := status / float64(len(tasks))
	return dates.Round((durPct+statusPct)/2, 4)
}

// ActualStart is the earliest task start, or the planned start for a
// project without tasks.
func (p *Project) ActualStart() (time.Time, error) {
	if len(p.tasks) == 0 {
		return p.PlanStart, nil
	}
	var earliest time.Time
	for i, t := range p.tasks {
		s, err := t.Start()
		if err != nil {
			return time.Time{}, err
		}
		if i == 0 || s.Before(earliest) {
			earliest = s
		}
	}
	return earliest, nil
}

// OriginalDuration is the number of calendar days from actual start to
// the scheduled finish.
func (p *Project) OriginalDuration() (int, error) {
	start, err := p.ActualStart()
	if err != nil {
		return 0, err
	}
	return dates.DaysBetween(start, p.FinishDate), nil
}

// RemainingDuration is the number of calendar days from the data date to
// the scheduled finish, never negative.
func (p *Project) RemainingDuration() int {
	return max(0, dates.DaysBetween(p.DataDate, p.FinishDate))
}

// DurationPercent is the share of the original duration that has elapsed.
func (p *Project) DurationPercent() (float64, error) {
	orig, err := p.OriginalDuration()
	if err != nil {
		return 0, err
	}
	if orig == 0 {
		return 0, nil
	}
	if !p.DataDate.Before(p.FinishDate) {
		return 1, nil
	}
	return dates.Round(1-float64(p.RemainingDuration())/float64(orig), 4), nil
}

// FinishConstraint is a task constrained to finish on or before a date.
type FinishConstraint struct {
	Task       *Task
	Constraint Constraint
	Primary    bool
}

// FinishConstraints lists every finish-on-or-before constraint ordered by
// task finish.
func (p *Project) FinishConstraints() ([]FinishConstraint, error) {
	type entry struct {
		fc     FinishConstraint
		finish time.Time
	}
	var entries []entry
	for _, t := range p.tasks {
		for i, c := range []Constraint{t.PrimaryConstraint, t.SecondaryConstraint} {
			if c.Type != ConstraintFinishOnBefore {
				continue
			}
			fin, err := t.Finish()
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{FinishConstraint{Task: t, Constraint: c, Primary: i == 0}, fin})
		}
	}
	slices.SortStableFunc(entries, func(a, b entry) int { return a.finish.Compare(b.finish) })
	out := make([]FinishConstraint, len(entries))
	for i, e := range entries {
		out[i] = e.fc
	}
	return out, nil
}

// Progress groups tasks planned to start or finish before a date.
type Progress struct {
	Start      []*Task
	Finish     []*Task
	LateStart  []*Task
	LateFinish []*Task
}

// PlannedProgress lists the open tasks planned to start or finish before
// the given date. A date before the data date yields no progress.
func (p *Project) PlannedProgress(before time.Time) (Progress, error) {
	var prog Progress
	if before.Before(p.DataDate) {
		return prog, nil
	}
	for _, t := range p.tasks {
		if t.Status.IsNotStarted() {
			start, err := t.Start()
			if err != nil {
				return Progress{}, err
			}
			if start.Before(before) {
				prog.Start = append(prog.Start, t)
			}
			if t.LateStart != nil && t.LateStart.Before(before) {
				prog.LateStart = append(prog.LateStart, t)
			}
		}
		if !t.Status.IsCompleted() {
			finish, err := t.Finish()
			if err != nil {
				return Progress{}, err
			}
			if finish.Before(before) {
				prog.Finish = append(prog.Finish, t)
			}
			if t.LateFinish != nil && t.LateFinish.Before(before) {
				prog.LateFinish = append(prog.LateFinish, t)
			}
		}
	}
	return prog, nil
}

// CriticalTasks returns the open tasks with no float, ordered by code.
func (p *Project) CriticalTasks() []*Task {
	var out []*Task
	for _, t := range p.tasks {
		if t.IsCritical() {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *Task) int { return cmp.Compare(a.Code, b.Code) })
	return out
}
