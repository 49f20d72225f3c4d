package domain

import "fmt"

// HoursPerDay converts hour counts to the day-based figures P6 reports.
const HoursPerDay = 8

type TaskType string

const (
	TaskStartMilestone  TaskType = "TT_Mile"
	TaskFinishMilestone TaskType = "TT_FinMile"
	TaskLevelOfEffort   TaskType = "TT_LOE"
	TaskDependent       TaskType = "TT_Task"
	TaskResource        TaskType = "TT_Rsrc"
	TaskWBSSummary      TaskType = "TT_WBS"
)

var taskTypeLabels = map[TaskType]string{
	TaskStartMilestone:  "Start Milestone",
	TaskFinishMilestone: "Finish Milestone",
	TaskLevelOfEffort:   "Level of Effort",
	TaskDependent:       "Task Dependent",
	TaskResource:        "Resource Dependent",
	TaskWBSSummary:      "WBS Summary",
}

func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(s)
	if _, ok := taskTypeLabels[t]; !ok {
		return "", fmt.Errorf("unknown task type %q", s)
	}
	return t, nil
}

func (t TaskType) Label() string     { return taskTypeLabels[t] }
func (t TaskType) IsMilestone() bool { return t == TaskStartMilestone || t == TaskFinishMilestone }
func (t TaskType) IsLOE() bool       { return t == TaskLevelOfEffort }
func (t TaskType) IsTask() bool      { return t == TaskDependent }

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "TK_NotStart"
	StatusActive     TaskStatus = "TK_Active"
	StatusComplete   TaskStatus = "TK_Complete"
)

var taskStatusLabels = map[TaskStatus]string{
	StatusNotStarted: "Not Started",
	StatusActive:     "In Progress",
	StatusComplete:   "Complete",
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	if _, ok := taskStatusLabels[st]; !ok {
		return "", fmt.Errorf("unknown task status %q", s)
	}
	return st, nil
}

func (s TaskStatus) Label() string      { return taskStatusLabels[s] }
func (s TaskStatus) IsNotStarted() bool { return s == StatusNotStarted }
func (s TaskStatus) IsInProgress() bool { return s == StatusActive }
func (s TaskStatus) IsCompleted() bool  { return s == StatusComplete }
func (s TaskStatus) IsOpen() bool       { return s != StatusComplete }

type PercentType string

const (
	PercentPhysical PercentType = "CP_Phys"
	PercentDuration PercentType = "CP_Drtn"
	PercentUnits    PercentType = "CP_Units"
)

var percentTypeLabels = map[PercentType]string{
	PercentPhysical: "Physical",
	PercentDuration: "Duration",
	PercentUnits:    "Unit",
}

func ParsePercentType(s string) (PercentType, error) {
	p := PercentType(s)
	if _, ok := percentTypeLabels[p]; !ok {
		return "", fmt.Errorf("unknown percent complete type %q", s)
	}
	return p, nil
}

func (p PercentType) Label() string { return percentTypeLabels[p] }

type ConstraintType string

const (
	ConstraintALAP            ConstraintType = "CS_ALAP"
	ConstraintFinishOn        ConstraintType = "CS_MEO"
	ConstraintFinishOnAfter   ConstraintType = "CS_MEOA"
	ConstraintFinishOnBefore  ConstraintType = "CS_MEOB"
	ConstraintMandatoryFinish ConstraintType = "CS_MANDFIN"
	ConstraintMandatoryStart  ConstraintType = "CS_MANDSTART"
	ConstraintStartOn         ConstraintType = "CS_MSO"
	ConstraintStartOnAfter    ConstraintType = "CS_MSOA"
	ConstraintStartOnBefore   ConstraintType = "CS_MSOB"
)

var constraintLabels = map[ConstraintType]string{
	ConstraintALAP:            "As Late as Possible",
	ConstraintFinishOn:        "Finish On",
	ConstraintFinishOnAfter:   "Finish on or After",
	ConstraintFinishOnBefore:  "Finish on or Before",
	ConstraintMandatoryFinish: "Mandatory Finish",
	ConstraintMandatoryStart:  "Mandatory Start",
	ConstraintStartOn:         "Start On",
	ConstraintStartOnAfter:    "Start On or After",
	ConstraintStartOnBefore:   "Start On or Before",
}

func ParseConstraintType(s string) (ConstraintType, error) {
	c := ConstraintType(s)
	if _, ok := constraintLabels[c]; !ok {
		return "", fmt.Errorf("unknown constraint type %q", s)
	}
	return c, nil
}

func (c ConstraintType) Label() string { return constraintLabels[c] }

// LinkType is the relationship type between two tasks.
type LinkType string

const (
	LinkFS LinkType = "FS"
	LinkSS LinkType = "SS"
	LinkFF LinkType = "FF"
	LinkSF LinkType = "SF"
)

// ParseLinkType accepts either the two-letter form or the PR_XX code.
func ParseLinkType(s string) (LinkType, error) {
	if len(s) < 2 {
		return "", fmt.Errorf("invalid relationship type %q", s)
	}
	l := LinkType(s[len(s)-2:])
	switch l {
	case LinkFS, LinkSS, LinkFF, LinkSF:
		return l, nil
	}
	return "", fmt.Errorf("invalid relationship type %q", s)
}

// StartsFrom reports whether the link is driven by the predecessor start.
func (l LinkType) StartsFrom() bool { return l[0] == 'S' }

// Drives reports whether the link constrains the successor start ('S') or
// finish ('F').
func (l LinkType) Drives() byte { return l[1] }

// ActivityCodeScope is the reach of an activity code type.
type ActivityCodeScope string

const (
	ScopeGlobal  ActivityCodeScope = "Global"
	ScopeEPS     ActivityCodeScope = "EPS"
	ScopeProject ActivityCodeScope = "Project"
)

// ParseActivityCodeScope accepts the AS_ prefixed export form.
func ParseActivityCodeScope(s string) (ActivityCodeScope, error) {
	const prefix = "AS_"
	if len(s) <= len(prefix) || s[:len(prefix)] != prefix {
		return "", fmt.Errorf("invalid activity code scope %q", s)
	}
	return ActivityCodeScope(s[len(prefix):]), nil
}
