// Package snapshot records derived schedule figures for regression
// comparison between parser versions.
package snapshot

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/alexanderramin/xerkit/internal/calendar"
	"github.com/alexanderramin/xerkit/internal/dates"
	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/importer"
	"github.com/wI2L/jsondiff"
)

// PlannedDays is how far past the data date planned progress is measured.
const PlannedDays = 14

type UDFType struct {
	Label string `json:"label"`
	Table string `json:"table"`
	Type  string `json:"type"`
}

type Calendar struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Workdays   []string `json:"workdays"`
	WeekHours  float64  `json:"workweek_hours"`
	Holidays   int      `json:"holiday_count"`
	Exceptions int      `json:"work_exception_count"`
}

type Progress struct {
	Start      int `json:"start"`
	Finish     int `json:"finish"`
	LateStart  int `json:"late_start"`
	LateFinish int `json:"late_finish"`
}

// Project holds the figures of one exported project. Error is set when a
// derived date could not be computed; the date based figures are then zero.
type Project struct {
	Name                  string              `json:"name"`
	ActivityCodes         []string            `json:"activity_codes"`
	ActualCost            float64             `json:"actual_cost"`
	ActualStart           string              `json:"actual_start_date,omitempty"`
	BudgetCost            float64             `json:"budget_cost"`
	Calendars             map[string]Calendar `json:"calendars"`
	DurationPercent       float64             `json:"duration_percent"`
	OriginalDuration      int                 `json:"original_duration"`
	PlannedProgress       Progress            `json:"planned_progress"`
	ProjectCodes          map[string]string   `json:"project_codes"`
	RelationshipCount     int                 `json:"relationship_count"`
	RemainingCost         float64             `json:"remaining_cost"`
	RemainingDuration     int                 `json:"remaining_duration"`
	TaskActivityCodeCount int                 `json:"task_activity_code_count"`
	TaskCount             int                 `json:"task_count"`
	TaskMemoCount         int                 `json:"task_memo_count"`
	TaskPeriodCount       int                 `json:"task_period_count"`
	TaskResourceCount     int                 `json:"task_resource_count"`
	TaskPercent           float64             `json:"task_percent"`
	TaskUDFCount          int                 `json:"task_udf_count"`
	ThisPeriodCost        float64             `json:"this_period_cost"`
	WBSCount              int                 `json:"wbs_count"`
	WBSDepth              int                 `json:"wbs_depth"`
	Error                 string              `json:"error,omitempty"`
}

// File is the snapshot of one export. A file that failed to import, or
// was flagged corrupt, only carries Errors.
type File struct {
	File       string             `json:"file"`
	Errors     []string           `json:"errors,omitempty"`
	Version    string             `json:"version,omitempty"`
	ExportDate string             `json:"export_date,omitempty"`
	Accounts   int                `json:"accounts"`
	UDFTypes   []UDFType          `json:"udf_types,omitempty"`
	Projects   map[string]Project `json:"projects,omitempty"`
}

// Failed records an import that returned an error.
func Failed(path string, err error) File {
	var corrupt *importer.CorruptFileError
	if errors.As(err, &corrupt) {
		return File{File: path, Errors: findingMessages(corrupt.Findings)}
	}
	return File{File: path, Errors: []string{err.Error()}}
}

func findingMessages(findings []importer.Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Error()
	}
	return out
}

// Build records the figures of an import.
func Build(path string, imp *importer.Import) File {
	if imp.Corrupt() {
		return File{File: path, Errors: findingMessages(imp.Findings)}
	}
	s := imp.Schedule
	f := File{
		File:       path,
		Version:    s.Header.Version,
		ExportDate: s.Header.ExportDate.Format(dates.DateLayout),
		Accounts:   s.Accounts.Len(),
		Projects:   make(map[string]Project, s.Projects.Len()),
	}
	for _, t := range s.UDFTypes.All() {
		f.UDFTypes = append(f.UDFTypes, UDFType{Label: t.Label, Table: t.Table, Type: string(t.Type)})
	}
	for _, p := range s.Projects.All() {
		f.Projects[p.ShortName] = buildProject(p)
	}
	return f
}

func buildProject(p *domain.Project) Project {
	out := Project{
		Name:              p.Name,
		ActualCost:        p.ActualCost(),
		BudgetCost:        p.BudgetedCost(),
		Calendars:         make(map[string]Calendar, len(p.Calendars)),
		ProjectCodes:      make(map[string]string, len(p.ProjectCodes)),
		RelationshipCount: len(p.Relationships()),
		RemainingCost:     p.RemainingCost(),
		RemainingDuration: p.RemainingDuration(),
		TaskCount:         len(p.Tasks()),
		TaskPercent:       p.TaskPercent(),
		ThisPeriodCost:    p.ThisPeriodCost(),
		WBSCount:          len(p.WBSNodes()),
		WBSDepth:          p.WBS().Height(),
	}
	for _, t := range p.ActivityCodeTypes {
		out.ActivityCodes = append(out.ActivityCodes, t.Name)
	}
	for _, c := range p.Calendars {
		out.Calendars[c.ID] = buildCalendar(c)
	}
	for codeType, code := range p.ProjectCodes {
		out.ProjectCodes[codeType.Name] = code.Code
	}
	for _, t := range p.Tasks() {
		out.TaskActivityCodeCount += len(t.ActivityCodes)
		out.TaskMemoCount += len(t.Memos)
		out.TaskPeriodCount += len(t.Periods)
		out.TaskResourceCount += len(t.Resources)
		out.TaskUDFCount += len(t.UDFs)
	}
	if err := out.dateFigures(p); err != nil {
		out.Error = err.Error()
	}
	return out
}

func (out *Project) dateFigures(p *domain.Project) error {
	start, err := p.ActualStart()
	if err != nil {
		return err
	}
	out.ActualStart = start.Format(dates.DateTimeLayout)
	if out.OriginalDuration, err = p.OriginalDuration(); err != nil {
		return err
	}
	if out.DurationPercent, err = p.DurationPercent(); err != nil {
		return err
	}
	prog, err := p.PlannedProgress(p.DataDate.AddDate(0, 0, PlannedDays))
	if err != nil {
		return err
	}
	out.PlannedProgress = Progress{
		Start:      len(prog.Start),
		Finish:     len(prog.Finish),
		LateStart:  len(prog.LateStart),
		LateFinish: len(prog.LateFinish),
	}
	return nil
}

func buildCalendar(c *calendar.Calendar) Calendar {
	out := Calendar{
		Name:       c.Name,
		Type:       c.Type.Label(),
		Workdays:   []string{},
		WeekHours:  c.WeekHours(),
		Holidays:   len(c.HolidayList()),
		Exceptions: len(c.Exceptions()),
	}
	for _, d := range c.WorkWeek() {
		if d.IsWorkday() {
			out.Workdays = append(out.Workdays, d.Day.String())
		}
	}
	return out
}

// Change is one difference between two snapshots, as a JSON patch
// operation.
type Change struct {
	Op    string
	Path  string
	Value any
}

func (c Change) String() string {
	if c.Op == "remove" {
		return c.Op + " " + c.Path
	}
	return fmt.Sprintf("%s %s %v", c.Op, c.Path, c.Value)
}

// Diff compares two snapshots of the same file. The file path is ignored.
func Diff(old, new File) ([]Change, error) {
	old.File, new.File = "", ""
	patch, err := jsondiff.Compare(old, new)
	if err != nil {
		return nil, fmt.Errorf("comparing snapshots: %w", err)
	}
	changes := make([]Change, 0, len(patch))
	for _, op := range patch {
		changes = append(changes, Change{Op: op.Type, Path: op.Path, Value: op.Value})
	}
	return changes, nil
}

// DiffAll pairs snapshots by file path. Files present on one side only
// are reported as added or removed.
func DiffAll(old, new []File) (map[string][]Change, error) {
	byPath := make(map[string]File, len(old))
	for _, f := range old {
		byPath[f.File] = f
	}
	out := make(map[string][]Change)
	for _, f := range new {
		prev, ok := byPath[f.File]
		delete(byPath, f.File)
		if !ok {
			out[f.File] = []Change{{Op: "add", Path: "", Value: f.File}}
			continue
		}
		changes, err := Diff(prev, f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.File, err)
		}
		if len(changes) > 0 {
			out[f.File] = changes
		}
	}
	for path := range byPath {
		out[path] = []Change{{Op: "remove", Path: ""}}
	}
	return out, nil
}

// Write encodes snapshots as indented JSON ordered by file path.
func Write(w io.Writer, files []File) error {
	sorted := slices.Clone(files)
	slices.SortFunc(sorted, func(a, b File) int { return cmp.Compare(a.File, b.File) })
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(sorted)
}

func Read(r io.Reader) ([]File, error) {
	var files []File
	if err := json.NewDecoder(r).Decode(&files); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return files, nil
}
