package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/xerkit/internal/domain"
)

// FormatHistory renders stored runs, newest first as given.
func FormatHistory(runs []*domain.AnalysisRun, now time.Time) string {
	if len(runs) == 0 {
		return Dim("no stored runs") + "\n"
	}
	headers := []string{"ID", "FILE", "VERSION", "PROJECTS", "FINDINGS", "STORED"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		findings := Dim("0")
		if r.FindingCount > 0 {
			findings = StyleRed.Render(fmt.Sprint(r.FindingCount))
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			r.File,
			r.Version,
			fmt.Sprint(r.ProjectCount),
			findings,
			HumanTimestamp(r.CreatedAt, now),
		})
	}
	return RenderTable(headers, rows)
}

// FormatRun renders one stored run with its projects and findings.
func FormatRun(run *domain.AnalysisRun, projects []*domain.RunProject, findings []*domain.RunFinding) string {
	var b strings.Builder
	b.WriteString(Header(run.File) + "\n")
	fields := []field{
		{"Run", run.ID},
		{"Version", run.Version},
		{"Exported By", run.ExportedBy},
		{"Currency", run.Currency},
		{"Stored", run.CreatedAt.Format(time.RFC3339)},
	}
	if run.ExportDate != nil {
		fields = append(fields, field{"Export Date", run.ExportDate.Format("2006-01-02")})
	}
	writeFields(&b, fields)

	if len(projects) > 0 {
		rows := make([][]string, 0, len(projects))
		for _, p := range projects {
			rows = append(rows, []string{
				Bold(p.ShortName),
				p.Name,
				FormatDate(p.DataDate),
				FormatDate(p.FinishDate),
				fmt.Sprint(p.TaskCount),
				fmt.Sprint(p.CriticalCount),
				FormatPercent(p.TaskPercent),
				FormatMoney(p.BudgetCost),
			})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable([]string{"PROJECT", "NAME", "DATA DATE", "FINISH", "TASKS", "CRITICAL", "TASK %", "BUDGET"}, rows))
	}
	if len(findings) > 0 {
		b.WriteString("\n" + StyleRed.Render("Findings") + "\n")
		for _, f := range findings {
			fmt.Fprintf(&b, "  %s %s\n", Dim(f.Code), f.Message)
		}
	}
	return b.String()
}

// FormatRunTasks renders stored task figures.
func FormatRunTasks(tasks []*domain.RunTask) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			CriticalMark(t.Critical),
			t.Project,
			Bold(t.Code),
			t.Name,
			StatusPill(t.Status),
			FormatOptDate(t.Start),
			FormatOptDate(t.Finish),
			FloatStyled(t.TotalFloat),
			FormatPercent(t.Percent),
		})
	}
	return RenderTable([]string{"", "PROJECT", "ID", "NAME", "STATUS", "START", "FINISH", "TF", "%"}, rows)
}
