package domain

import (
	"fmt"
	"time"

	"github.com/alexanderramin/xerkit/internal/parser"
)

// FinancialPeriod is a reporting period (FINDATES).
type FinancialPeriod struct {
	ID     string
	Name   string
	Start  time.Time
	Finish time.Time
}

func NewFinancialPeriod(row parser.Row) (*FinancialPeriod, error) {
	f := parser.NewFields("FINDATES", row)
	p := &FinancialPeriod{
		ID:     f.Str("fin_dates_id"),
		Name:   f.Str("fin_dates_name"),
		Start:  f.DateTime("start_date"),
		Finish: f.DateTime("end_date"),
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("financial period %s: %w", p.ID, err)
	}
	return p, nil
}

// Compare orders periods by start, then finish.
func (p *FinancialPeriod) Compare(o *FinancialPeriod) int {
	if c := p.Start.Compare(o.Start); c != 0 {
		return c
	}
	return p.Finish.Compare(o.Finish)
}

// TaskFinancial holds a task's past-period actuals (TASKFIN).
type TaskFinancial struct {
	TaskID          string
	ProjectID       string
	PeriodID        string
	ActualEquipCost float64
	ActualEquipQty  float64
	ActualExpense   float64
	ActualMatCost   float64
	ActualLaborCost float64
	ActualLaborQty  float64
	EarnedValue     float64
	PlannedValue    float64
	EarnedLaborQty  float64
	PlannedLaborQty float64

	Period *FinancialPeriod
}

func NewTaskFinancial(row parser.Row, period *FinancialPeriod) (*TaskFinancial, error) {
	f := parser.NewFields("TASKFIN", row)
	tf := &TaskFinancial{
		TaskID:          f.Str("task_id"),
		ProjectID:       f.Str("proj_id"),
		PeriodID:        f.Str("fin_dates_id"),
		ActualEquipCost: f.FloatOrZero("act_equip_cost"),
		ActualEquipQty:  f.FloatOrZero("act_equip_qty"),
		ActualExpense:   f.FloatOrZero("act_expense_cost"),
		ActualMatCost:   f.FloatOrZero("act_mat_cost"),
		ActualLaborCost: f.FloatOrZero("act_work_cost"),
		ActualLaborQty:  f.FloatOrZero("act_work_qty"),
		EarnedValue:     f.FloatOrZero("bcwp"),
		PlannedValue:    f.FloatOrZero("bcws"),
		EarnedLaborQty:  f.FloatOrZero("perfm_work_qty"),
		PlannedLaborQty: f.FloatOrZero("sched_work_qty"),
		Period:          period,
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("task financial %s/%s: %w", tf.TaskID, tf.PeriodID, err)
	}
	if period != nil {
		if err := checkKey("task financial "+tf.TaskID, "fin_dates_id", period.ID, tf.PeriodID); err != nil {
			return nil, err
		}
	}
	return tf, nil
}

// ActualCost sums every actual cost bucket of the period.
func (tf *TaskFinancial) ActualCost() float64 {
	return tf.ActualEquipCost + tf.ActualExpense + tf.ActualMatCost + tf.ActualLaborCost
}

// AssignmentFinancial holds an assignment's past-period actuals (TRSRCFIN).
type AssignmentFinancial struct {
	AssignmentID string
	TaskID       string
	ProjectID    string
	PeriodID     string
	ActualCost   float64
	ActualQty    float64

	Period *FinancialPeriod
}

func NewAssignmentFinancial(row parser.Row, period *FinancialPeriod) (*AssignmentFinancial, error) {
	f := parser.NewFields("TRSRCFIN", row)
	af := &AssignmentFinancial{
		AssignmentID: f.Str("taskrsrc_id"),
		TaskID:       f.Str("task_id"),
		ProjectID:    f.Str("proj_id"),
		PeriodID:     f.Str("fin_dates_id"),
		ActualCost:   f.FloatOrZero("act_cost"),
		ActualQty:    f.FloatOrZero("act_qty"),
		Period:       period,
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("task resource financial %s/%s: %w", af.AssignmentID, af.PeriodID, err)
	}
	return af, nil
}
