package domain

import (
	"fmt"

	"github.com/alexanderramin/xerkit/internal/parser"
)

// ScheduleOptions are the scheduler settings of a project (SCHEDOPTIONS).
type ScheduleOptions struct {
	ID                          string
	ProjectID                   string
	MaxMultipleLongestPath      *int
	CalendarOnRelationshipLag   string
	FloatType                   string
	LagEarlyStart               bool
	OpenCritical                bool
	OuterDependType             string
	ProgressOverride            bool
	RetainedLogic               bool
	SetPlanToForecast           bool
	UseExpectedEnd              bool
	UseProjectEndForFloat       bool
	TotalFloatMultipleLongPaths bool
}

func NewScheduleOptions(row parser.Row) (*ScheduleOptions, error) {
	f := parser.NewFields("SCHEDOPTIONS", row)
	o := &ScheduleOptions{
		ID:                          f.Str("schedoptions_id"),
		ProjectID:                   f.Str("proj_id"),
		MaxMultipleLongestPath:      f.OptInt("max_multiple_longest_path"),
		CalendarOnRelationshipLag:   f.Str("sched_calendar_on_relationship_lag"),
		FloatType:                   f.Str("sched_float_type"),
		LagEarlyStart:               f.Flag("sched_lag_early_start_flag"),
		OpenCritical:                f.Flag("sched_open_critical_flag"),
		OuterDependType:             f.Str("sched_outer_depend_type"),
		ProgressOverride:            f.Flag("sched_progress_override"),
		RetainedLogic:               f.Flag("sched_retained_logic"),
		SetPlanToForecast:           f.Flag("sched_setplantoforecast"),
		UseExpectedEnd:              f.Flag("sched_use_expect_end_flag"),
		UseProjectEndForFloat:       f.Flag("sched_use_project_end_date_for_float"),
		TotalFloatMultipleLongPaths: f.Flag("use_total_float_multiple_longest_paths"),
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("schedule options %s: %w", o.ID, err)
	}
	return o, nil
}

// SameSettings compares every option except the ids.
func (o *ScheduleOptions) SameSettings(other *ScheduleOptions) bool {
	a, b := *o, *other
	a.ID, a.ProjectID, b.ID, b.ProjectID = "", "", "", ""
	if (a.MaxMultipleLongestPath == nil) != (b.MaxMultipleLongestPath == nil) {
		return false
	}
	if a.MaxMultipleLongestPath != nil && *a.MaxMultipleLongestPath != *b.MaxMultipleLongestPath {
		return false
	}
	a.MaxMultipleLongestPath, b.MaxMultipleLongestPath = nil, nil
	return a == b
}
