// Package exporter writes an import to an xlsx workbook.
package exporter

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/xerkit/internal/dates"
	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/importer"
	"github.com/xuri/excelize/v2"
)

// Sheet names in workbook order.
const (
	SheetProjects      = "Projects"
	SheetTasks         = "Tasks"
	SheetRelationships = "Relationships"
	SheetCalendars     = "Calendars"
	SheetFindings      = "Findings"
)

var headers = map[string][]any{
	SheetProjects:      {"Project", "Name", "Data Date", "Finish", "Tasks", "Relationships", "Critical", "Task %", "Budget Cost", "Actual Cost", "Remaining Cost"},
	SheetTasks:         {"Project", "Activity ID", "Name", "Status", "Type", "WBS", "Calendar", "Start", "Finish", "Original Duration", "Remaining Duration", "Total Float", "% Complete", "Critical"},
	SheetRelationships: {"Project", "Predecessor", "Successor", "Type", "Lag"},
	SheetCalendars:     {"ID", "Name", "Type", "Workdays", "Week Hours", "Holidays", "Exceptions"},
	SheetFindings:      {"Code", "Message"},
}

type workbook struct {
	f    *excelize.File
	bold int
}

// Export writes one sheet per concern. Corrupt imports still export; their
// findings fill the Findings sheet.
func Export(imp *importer.Import, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	wb := &workbook{f: f, bold: bold}

	if err := f.SetSheetName("Sheet1", SheetProjects); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}
	for _, name := range []string{SheetTasks, SheetRelationships, SheetCalendars, SheetFindings} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	projects := slices.SortedFunc(slices.Values(imp.Schedule.Projects.All()), func(a, b *domain.Project) int {
		return cmp.Compare(a.ShortName, b.ShortName)
	})
	steps := []struct {
		sheet string
		rows  [][]any
	}{
		{SheetProjects, projectRows(projects)},
		{SheetTasks, taskRows(projects)},
		{SheetRelationships, relationshipRows(projects)},
		{SheetCalendars, calendarRows(imp.Schedule)},
		{SheetFindings, findingRows(imp.Findings)},
	}
	for _, s := range steps {
		if err := wb.fill(s.sheet, s.rows); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (wb *workbook) fill(sheet string, rows [][]any) error {
	header := headers[sheet]
	if err := wb.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	if err := wb.f.SetRowStyle(sheet, 1, 1, wb.bold); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string { return t.Format(dates.DateTimeLayout) }

func optTime(t time.Time, err error) string {
	if err != nil {
		return ""
	}
	return formatTime(t)
}

func optInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func projectRows(projects []*domain.Project) [][]any {
	rows := make([][]any, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []any{
			p.ShortName, p.Name, formatTime(p.DataDate), formatTime(p.FinishDate),
			len(p.Tasks()), len(p.Relationships()), len(p.CriticalTasks()), p.TaskPercent(),
			p.BudgetedCost(), p.ActualCost(), p.RemainingCost(),
		})
	}
	return rows
}

func taskRows(projects []*domain.Project) [][]any {
	var rows [][]any
	for _, p := range projects {
		tasks := slices.SortedFunc(slices.Values(p.Tasks()), func(a, b *domain.Task) int {
			return cmp.Compare(a.Code, b.Code)
		})
		for _, t := range tasks {
			calendar := ""
			if t.Calendar != nil {
				calendar = t.Calendar.Name
			}
			rows = append(rows, []any{
				p.ShortName, t.Code, t.Name, t.Status.Label(), t.Type.Label(), t.WBS.FullCode(), calendar,
				optTime(t.Start()), optTime(t.Finish()), t.OriginalDuration(), t.RemainingDuration(),
				optInt(t.TotalFloat()), t.PercentComplete(), yesNo(t.IsCritical()),
			})
		}
	}
	return rows
}

func relationshipRows(projects []*domain.Project) [][]any {
	var rows [][]any
	for _, p := range projects {
		rels := slices.SortedFunc(slices.Values(p.Relationships()), func(a, b *domain.Relationship) int {
			return cmp.Compare(a.Key().String(), b.Key().String())
		})
		for _, r := range rels {
			rows = append(rows, []any{p.ShortName, r.Predecessor.Code, r.Successor.Code, string(r.Link), r.Lag()})
		}
	}
	return rows
}

func calendarRows(s *domain.Schedule) [][]any {
	var rows [][]any
	for _, c := range s.Calendars.All() {
		var workdays []string
		for _, d := range c.WorkWeek() {
			if d.IsWorkday() {
				workdays = append(workdays, d.Day.String()[:3])
			}
		}
		rows = append(rows, []any{
			c.ID, c.Name, c.Type.Label(), strings.Join(workdays, " "),
			c.WeekHours(), len(c.HolidayList()), len(c.Exceptions()),
		})
	}
	return rows
}

func findingRows(findings []importer.Finding) [][]any {
	rows := make([][]any, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []any{string(f.Code), f.Error()})
	}
	return rows
}
