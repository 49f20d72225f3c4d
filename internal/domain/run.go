package domain

import "time"

// AnalysisRun is the stored summary of one import. The export text itself
// is never stored.
type AnalysisRun struct {
	ID           string
	File         string
	Version      string
	ExportDate   *time.Time
	ExportedBy   string
	Currency     string
	Strict       bool
	FindingCount int
	ProjectCount int
	CreatedAt    time.Time
}

// RunProject holds the project level figures of a run.
type RunProject struct {
	RunID             string
	ShortName         string
	Name              string
	DataDate          time.Time
	FinishDate        time.Time
	TaskCount         int
	RelationshipCount int
	CriticalCount     int
	TaskPercent       float64
	DurationPercent   *float64
	BudgetCost        float64
	ActualCost        float64
	RemainingCost     float64
}

// RunTask holds the figures of one task in a run.
type RunTask struct {
	RunID      string
	Project    string
	Code       string
	Name       string
	Status     TaskStatus
	TotalFloat *int
	Start      *time.Time
	Finish     *time.Time
	Percent    float64
	Critical   bool
}

type RunFinding struct {
	RunID   string
	Seq     int
	Code    string
	Message string
}
