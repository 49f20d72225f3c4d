package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/xerkit/internal/calendar"
	"github.com/alexanderramin/xerkit/internal/dates"
	"github.com/alexanderramin/xerkit/internal/parser"
)

// Resource is a labor, nonlabor or material resource (RSRC).
type Resource struct {
	Node
	CalendarID  string
	Type        string
	CostQtyType string
	Active      bool

	Calendar *calendar.Calendar
	Rates    []*ResourceRate
	UDFs     UDFSet
}

func NewResource(row parser.Row) (*Resource, error) {
	f := parser.NewFields("RSRC", row)
	r := &Resource{
		Node: Node{
			ID:       f.Str("rsrc_id"),
			Code:     f.Str("rsrc_short_name"),
			Name:     f.Str("rsrc_name"),
			ParentID: f.Str("parent_rsrc_id"),
		},
		CalendarID:  f.Str("clndr_id"),
		Type:        f.Str("rsrc_type"),
		CostQtyType: f.Str("cost_qty_type"),
		Active:      row["active_flag"] != "N",
		UDFs:        UDFSet{},
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("resource %s: %w", r.ID, err)
	}
	return r, nil
}

// TypeLabel strips the RT_ prefix from the resource type.
func (r *Resource) TypeLabel() string {
	return strings.TrimPrefix(r.Type, "RT_")
}

// ResourceRate is one effective-dated price set for a resource (RSRCRATE).
type ResourceRate struct {
	ID            string
	ResourceID    string
	ShiftPeriodID string
	CostPerQty    [5]float64
	MaxQtyPerHour float64
	Start         time.Time

	Resource *Resource
}

func NewResourceRate(row parser.Row, resource *Resource) (*ResourceRate, error) {
	f := parser.NewFields("RSRCRATE", row)
	r := &ResourceRate{
		ID:            f.Str("rsrc_rate_id"),
		ResourceID:    f.Str("rsrc_id"),
		ShiftPeriodID: f.Str("shift_period_id"),
		CostPerQty: [5]float64{
			f.FloatOrZero("cost_per_qty"),
			f.FloatOrZero("cost_per_qty2"),
			f.FloatOrZero("cost_per_qty3"),
			f.FloatOrZero("cost_per_qty4"),
			f.FloatOrZero("cost_per_qty5"),
		},
		MaxQtyPerHour: f.FloatOrZero("max_qty_per_hr"),
		Start:         f.DateTime("start_date"),
		Resource:      resource,
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("resource rate %s: %w", r.ID, err)
	}
	if resource != nil {
		if err := checkKey("resource rate "+r.ID, "rsrc_id", resource.ID, r.ResourceID); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// StandardRate is the first price per unit.
func (r *ResourceRate) StandardRate() float64 { return r.CostPerQty[0] }

// ResourceValues summarises either the cost or the unit figures of an
// assignment.
type ResourceValues struct {
	Budget       float64
	Actual       float64
	ThisPeriod   float64
	Remaining    float64
	AtCompletion float64
	Variance     float64
	Percent      float64
}

func newResourceValues(budget, actual, thisPeriod, remaining float64) ResourceValues {
	v := ResourceValues{
		Budget:     budget,
		Actual:     actual,
		ThisPeriod: thisPeriod,
		Remaining:  remaining,
	}
	v.AtCompletion = dates.Sum(2, actual, remaining)
	v.Variance = dates.Sum(2, v.AtCompletion, -budget)
	if budget != 0 {
		v.Percent = dates.Round(actual/budget, 4)
	}
	return v
}

// ResourceAssignment is a resource assigned to a task (TASKRSRC).
type ResourceAssignment struct {
	ID              string
	TaskID          string
	ProjectID       string
	AccountID       string
	ResourceID      string
	RemainingQty    float64
	TargetQty       float64
	ActualOTQty     float64
	ActualRegQty    float64
	TargetCost      float64
	ActualRegCost   float64
	ActualOTCost    float64
	RemainingCost   float64
	ThisPeriodCost  float64
	ThisPeriodQty   float64
	TargetLagHours  float64
	ResourceType    string
	ActualStart     *time.Time
	ActualFinish    *time.Time
	RemainingStart  *time.Time
	RemainingFinish *time.Time
	TargetStart     *time.Time
	TargetFinish    *time.Time
	RemLateStart    *time.Time
	RemLateFinish   *time.Time

	Task     *Task
	Account  *Account
	Resource *Resource
	Periods  []*AssignmentFinancial
}

// NewResourceAssignment builds an assignment. resource and account may be
// nil when the export references rows it does not contain.
func NewResourceAssignment(row parser.Row, task *Task, resource *Resource, account *Account) (*ResourceAssignment, error) {
	f := parser.NewFields("TASKRSRC", row)
	a := &ResourceAssignment{
		ID:              f.Str("taskrsrc_id"),
		TaskID:          f.Str("task_id"),
		ProjectID:       f.Str("proj_id"),
		AccountID:       f.Str("acct_id"),
		ResourceID:      f.Str("rsrc_id"),
		RemainingQty:    f.FloatOrZero("remain_qty"),
		TargetQty:       f.FloatOrZero("target_qty"),
		ActualOTQty:     f.FloatOrZero("act_ot_qty"),
		ActualRegQty:    f.FloatOrZero("act_reg_qty"),
		TargetCost:      f.FloatOrZero("target_cost"),
		ActualRegCost:   f.FloatOrZero("act_reg_cost"),
		ActualOTCost:    f.FloatOrZero("act_ot_cost"),
		RemainingCost:   f.FloatOrZero("remain_cost"),
		ThisPeriodCost:  f.FloatOrZero("act_this_per_cost"),
		ThisPeriodQty:   f.FloatOrZero("act_this_per_qty"),
		TargetLagHours:  f.FloatOrZero("target_lag_drtn_hr_cnt"),
		ResourceType:    f.Str("rsrc_type"),
		ActualStart:     f.OptDateTime("act_start_date"),
		ActualFinish:    f.OptDateTime("act_end_date"),
		RemainingStart:  f.OptDateTime("restart_date"),
		RemainingFinish: f.OptDateTime("reend_date"),
		TargetStart:     f.OptDateTime("target_start_date"),
		TargetFinish:    f.OptDateTime("target_end_date"),
		RemLateStart:    f.OptDateTime("rem_late_start_date"),
		RemLateFinish:   f.OptDateTime("rem_late_end_date"),
		Task:            task,
		Resource:        resource,
		Account:         account,
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("task resource %s: %w", a.ID, err)
	}
	if task == nil {
		return nil, fmt.Errorf("task resource %s: missing task %s", a.ID, a.TaskID)
	}
	if err := checkKey("task resource "+a.ID, "task_id", task.ID, a.TaskID); err != nil {
		return nil, err
	}
	if resource != nil {
		if err := checkKey("task resource "+a.ID, "rsrc_id", resource.ID, a.ResourceID); err != nil {
			return nil, err
		}
	}
	if account != nil {
		if err := checkKey("task resource "+a.ID, "acct_id", account.ID, a.AccountID); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *ResourceAssignment) ActualCost() float64 {
	return dates.Sum(2, a.ActualRegCost, a.ActualOTCost)
}

func (a *ResourceAssignment) ActualQty() float64 {
	return dates.Sum(2, a.ActualRegQty, a.ActualOTQty)
}

func (a *ResourceAssignment) AtCompletionCost() float64 {
	return dates.Sum(2, a.ActualCost(), a.RemainingCost)
}

func (a *ResourceAssignment) AtCompletionQty() float64 {
	return dates.Sum(2, a.ActualQty(), a.RemainingQty)
}

// CostPercent is actual over budgeted cost, 0 without a budget.
func (a *ResourceAssignment) CostPercent() float64 {
	if a.TargetCost == 0 {
		return 0
	}
	return dates.Round(a.ActualCost()/a.TargetCost, 4)
}

func (a *ResourceAssignment) CostVariance() float64 {
	return dates.Sum(2, a.AtCompletionCost(), -a.TargetCost)
}

// Lag is the assignment lag in days.
func (a *ResourceAssignment) Lag() int {
	return int(a.TargetLagHours / HoursPerDay)
}

// Cost summarises the assignment's cost figures.
func (a *ResourceAssignment) Cost() ResourceValues {
	return newResourceValues(a.TargetCost, a.ActualCost(), a.ThisPeriodCost, a.RemainingCost)
}

// Units summarises the assignment's quantity figures.
func (a *ResourceAssignment) Units() ResourceValues {
	return newResourceValues(a.TargetQty, a.ActualQty(), a.ThisPeriodQty, a.RemainingQty)
}

// EarnedValue is the budgeted cost times the task's percent complete.
func (a *ResourceAssignment) EarnedValue() float64 {
	if a.Task == nil {
		return 0
	}
	return dates.Round(a.TargetCost*a.Task.PercentComplete(), 2)
}

// Start is the actual start, else the remaining start.
func (a *ResourceAssignment) Start() (time.Time, error) {
	if d, ok := firstDate(a.ActualStart, a.RemainingStart); ok {
		return d, nil
	}
	return time.Time{}, &MissingDateError{Entity: "task resource", ID: a.ID, Which: "start"}
}

// Finish is the actual finish, else the remaining finish.
func (a *ResourceAssignment) Finish() (time.Time, error) {
	if d, ok := firstDate(a.ActualFinish, a.RemainingFinish); ok {
		return d, nil
	}
	return time.Time{}, &MissingDateError{Entity: "task resource", ID: a.ID, Which: "finish"}
}

func (a *ResourceAssignment) String() string {
	name := a.ResourceID
	if a.Resource != nil {
		name = a.Resource.Name
	}
	code := a.TaskID
	if a.Task != nil {
		code = a.Task.Code
	}
	return fmt.Sprintf("%s | %s | %.2f", code, name, a.TargetCost)
}
