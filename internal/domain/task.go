package domain

import (
	"fmt"
	"time"

	"github.com/alexanderramin/xerkit/internal/calendar"
	"github.com/alexanderramin/xerkit/internal/dates"
	"github.com/alexanderramin/xerkit/internal/parser"
)

// Constraint is a primary or secondary scheduling constraint.
type Constraint struct {
	Type ConstraintType
	Date *time.Time
}

func (c Constraint) IsSet() bool { return c.Type != "" }

// TaskLink is one side of a relationship as seen from a task.
type TaskLink struct {
	Task *Task
	Link LinkType
	Lag  int
}

// Task is a schedule activity (TASK).
type Task struct {
	ID         string
	ProjectID  string
	WbsID      string
	CalendarID string
	Code       string
	Name       string

	Type            TaskType
	Status          TaskStatus
	PercentType     PercentType
	PhysicalPercent float64
	DurationType    string

	TotalFloatHours *float64
	FreeFloatHours  *float64
	RemainingHours  *float64
	TargetHours     float64
	FloatPath       *int
	FloatPathOrder  *int
	LongestPath     bool

	ActualStart    *time.Time
	ActualFinish   *time.Time
	EarlyStart     *time.Time
	EarlyFinish    *time.Time
	LateStart      *time.Time
	LateFinish     *time.Time
	ExpectedFinish *time.Time
	RemLateStart   *time.Time
	RemLateFinish  *time.Time
	RestartDate    *time.Time
	ReendDate      *time.Time
	TargetStart    time.Time
	TargetFinish   time.Time
	SuspendDate    *time.Time
	ResumeDate     *time.Time
	Created        *time.Time
	Updated        *time.Time

	PrimaryConstraint   Constraint
	SecondaryConstraint Constraint

	TargetWorkQty  float64
	ActualWorkQty  float64
	TargetEquipQty float64
	ActualEquipQty float64

	// Calendar is nil when the export references a calendar it does not
	// contain.
	Calendar      *calendar.Calendar
	WBS           *WbsNode
	Resources     []*ResourceAssignment
	Predecessors  []TaskLink
	Successors    []TaskLink
	Memos         []*TaskMemo
	Periods       []*TaskFinancial
	ActivityCodes map[*ActivityCodeType]*ActivityCode
	UDFs          UDFSet
}

// NewTask builds a task from a TASK row. wbs must be the node the row
// references; cal may be nil.
func NewTask(row parser.Row, cal *calendar.Calendar, wbs *WbsNode) (*Task, error) {
	f := parser.NewFields("TASK", row)
	t := &Task{
		ID:         f.Str("task_id"),
		ProjectID:  f.Str("proj_id"),
		WbsID:      f.Str("wbs_id"),
		CalendarID: f.Str("clndr_id"),
		Code:       f.Str("task_code"),
		Name:       f.Str("task_name"),

		PhysicalPercent: f.FloatOrZero("phys_complete_pct"),
		DurationType:    f.Str("duration_type"),
		TotalFloatHours: f.OptFloat("total_float_hr_cnt"),
		FreeFloatHours:  f.OptFloat("free_float_hr_cnt"),
		RemainingHours:  f.OptFloat("remain_drtn_hr_cnt"),
		TargetHours:     f.Float("target_drtn_hr_cnt"),
		FloatPath:       f.OptInt("float_path"),
		FloatPathOrder:  f.OptInt("float_path_order"),
		LongestPath:     f.Flag("driving_path_flag"),

		ActualStart:    f.OptDateTime("act_start_date"),
		ActualFinish:   f.OptDateTime("act_end_date"),
		EarlyStart:     f.OptDateTime("early_start_date"),
		EarlyFinish:    f.OptDateTime("early_end_date"),
		LateStart:      f.OptDateTime("late_start_date"),
		LateFinish:     f.OptDateTime("late_end_date"),
		ExpectedFinish: f.OptDateTime("expect_end_date"),
		RemLateStart:   f.OptDateTime("rem_late_start_date"),
		RemLateFinish:  f.OptDateTime("rem_late_end_date"),
		RestartDate:    f.OptDateTime("restart_date"),
		ReendDate:      f.OptDateTime("reend_date"),
		TargetStart:    f.DateTime("target_start_date"),
		TargetFinish:   f.DateTime("target_end_date"),
		SuspendDate:    f.OptDateTime("suspend_date"),
		ResumeDate:     f.OptDateTime("resume_date"),
		Created:        f.OptDateTime("create_date"),
		Updated:        f.OptDateTime("update_date"),

		PrimaryConstraint:   Constraint{Date: f.OptDateTime("cstr_date")},
		SecondaryConstraint: Constraint{Date: f.OptDateTime("cstr_date2")},

		TargetWorkQty:  f.FloatOrZero("target_work_qty"),
		ActualWorkQty:  f.FloatOrZero("act_work_qty"),
		TargetEquipQty: f.FloatOrZero("target_equip_qty"),
		ActualEquipQty: f.FloatOrZero("act_equip_qty"),

		Calendar:      cal,
		WBS:           wbs,
		ActivityCodes: make(map[*ActivityCodeType]*ActivityCode),
		UDFs:          UDFSet{},
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("task %s: %w", t.ID, err)
	}
	if err := t.parseCodes(row); err != nil {
		return nil, fmt.Errorf("task %s: %w", t.ID, err)
	}
	if wbs == nil {
		return nil, fmt.Errorf("task %s: missing wbs %s", t.ID, t.WbsID)
	}
	if err := checkKey("task "+t.Code, "wbs_id", wbs.ID, t.WbsID); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Task) parseCodes(row parser.Row) error {
	var err error
	if t.Type, err = ParseTaskType(row["task_type"]); err != nil {
		return err
	}
	if t.Status, err = ParseTaskStatus(row["status_code"]); err != nil {
		return err
	}
	if t.PercentType, err = ParsePercentType(row["complete_pct_type"]); err != nil {
		return err
	}
	if v := row["cstr_type"]; v != "" {
		if t.PrimaryConstraint.Type, err = ParseConstraintType(v); err != nil {
			return err
		}
	}
	if v := row["cstr_type2"]; v != "" {
		if t.SecondaryConstraint.Type, err = ParseConstraintType(v); err != nil {
			return err
		}
	}
	return nil
}

func (t *Task) String() string { return t.Code + " - " + t.Name }

// OriginalDuration is the target duration in whole days.
func (t *Task) OriginalDuration() int {
	return int(t.TargetHours / HoursPerDay)
}

// RemainingDuration is the remaining duration in whole days, 0 when unset.
func (t *Task) RemainingDuration() int {
	return int(t.RemainingDurationHours() / HoursPerDay)
}

// RemainingDurationHours is the remaining duration in hours, 0 when unset.
func (t *Task) RemainingDurationHours() float64 {
	if t.RemainingHours == nil {
		return 0
	}
	return *t.RemainingHours
}

// Duration is the remaining duration for tasks that have not started and
// the original duration otherwise. The two differ when remaining duration
// is unlinked from original duration in the project settings.
func (t *Task) Duration() int {
	if t.Status.IsNotStarted() {
		return t.RemainingDuration()
	}
	return t.OriginalDuration()
}

func hoursToDays(h *float64) *int {
	if h == nil {
		return nil
	}
	d := int(*h / HoursPerDay)
	return &d
}

// TotalFloat is total float in whole days, nil when the export has none.
func (t *Task) TotalFloat() *int { return hoursToDays(t.TotalFloatHours) }

// FreeFloat is free float in whole days, nil when the export has none.
func (t *Task) FreeFloat() *int { return hoursToDays(t.FreeFloatHours) }

// IsCritical reports an open task with zero or negative total float.
func (t *Task) IsCritical() bool {
	return t.TotalFloatHours != nil && *t.TotalFloatHours <= 0 && !t.Status.IsCompleted()
}

// Start is the actual start, else the early start.
func (t *Task) Start() (time.Time, error) {
	if d, ok := firstDate(t.ActualStart, t.EarlyStart); ok {
		return d, nil
	}
	return time.Time{}, &MissingDateError{Entity: "task", ID: t.Code, Which: "start"}
}

// Finish is the actual finish, else the early finish.
func (t *Task) Finish() (time.Time, error) {
	if d, ok := firstDate(t.ActualFinish, t.EarlyFinish); ok {
		return d, nil
	}
	return time.Time{}, &MissingDateError{Entity: "task", ID: t.Code, Which: "finish"}
}

// PercentComplete is the progress fraction for the task's percent type,
// rounded to 4 decimals.
func (t *Task) PercentComplete() float64 {
	var pct float64
	switch t.PercentType {
	case PercentPhysical:
		pct = t.PhysicalPercent / 100
	case PercentDuration:
		switch {
		case t.RemainingHours == nil || t.Status.IsCompleted():
			pct = 1
		case t.Status.IsNotStarted() || t.OriginalDuration() == 0:
			pct = 0
		case *t.RemainingHours >= t.TargetHours:
			pct = 0
		default:
			pct = 1 - *t.RemainingHours/t.TargetHours
		}
	case PercentUnits:
		target := t.TargetWorkQty + t.TargetEquipQty
		if target != 0 {
			pct = min((t.ActualWorkQty+t.ActualEquipQty)/target, 1)
		}
	}
	return dates.Round(pct, 4)
}

func (t *Task) sumResources(value func(*ResourceAssignment) float64) float64 {
	vals := make([]float64, len(t.Resources))
	for i, r := range t.Resources {
		vals[i] = value(r)
	}
	return dates.Sum(2, vals...)
}

func (t *Task) ActualCost() float64 {
	return t.sumResources((*ResourceAssignment).ActualCost)
}

func (t *Task) AtCompletionCost() float64 {
	return t.sumResources((*ResourceAssignment).AtCompletionCost)
}

func (t *Task) BudgetedCost() float64 {
	return t.sumResources(func(r *ResourceAssignment) float64 { return r.TargetCost })
}

func (t *Task) RemainingCost() float64 {
	return t.sumResources(func(r *ResourceAssignment) float64 { return r.RemainingCost })
}

func (t *Task) ThisPeriodCost() float64 {
	return t.sumResources(func(r *ResourceAssignment) float64 { return r.ThisPeriodCost })
}

// Constraints returns the constraints that are set, primary first.
func (t *Task) Constraints() []Constraint {
	var out []Constraint
	for _, c := range []Constraint{t.PrimaryConstraint, t.SecondaryConstraint} {
		if c.IsSet() {
			out = append(out, c)
		}
	}
	return out
}

// Resource looks an assignment up by id.
func (t *Task) Resource(id string) (*ResourceAssignment, bool) {
	for _, r := range t.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}
