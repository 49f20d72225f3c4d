package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/parser"
)

const summaryBarWidth = 20

// FormatFileHeader renders the export header and the finding count.
func FormatFileHeader(path string, h parser.Header, findings int) string {
	var b strings.Builder
	b.WriteString(Header(path) + "\n")
	fmt.Fprintf(&b, "%-12s %s\n", "Version", h.Version)
	fmt.Fprintf(&b, "%-12s %s\n", "Exported", h.ExportDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "%-12s %s\n", "User", h.User)
	fmt.Fprintf(&b, "%-12s %s\n", "Currency", h.Currency)
	if findings > 0 {
		b.WriteString(StyleRed.Render(fmt.Sprintf("%d structural problem(s); run validate for details", findings)) + "\n")
	}
	return b.String()
}

type field struct {
	label string
	value string
}

func writeFields(b *strings.Builder, fields []field) {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.label))
	}
	for _, f := range fields {
		fmt.Fprintf(b, "%-*s  %s\n", width, f.label, f.value)
	}
}

// FormatProject renders the headline figures of one project.
func FormatProject(p *domain.Project) string {
	critical := len(p.CriticalTasks())
	criticalText := fmt.Sprint(critical)
	if critical > 0 {
		criticalText = StyleRed.Render(criticalText)
	}

	fields := []field{
		{"Data Date", FormatDate(p.DataDate)},
		{"Finish", FormatDate(p.FinishDate)},
		{"Must Finish", FormatOptDate(p.MustFinish)},
		{"Remaining", fmt.Sprintf("%d days", p.RemainingDuration())},
		{"Tasks", fmt.Sprint(len(p.Tasks()))},
		{"Relationships", fmt.Sprint(len(p.Relationships()))},
		{"Critical", criticalText},
		{"Task %", RenderProgress(p.TaskPercent(), summaryBarWidth)},
	}
	if pct, err := p.DurationPercent(); err == nil {
		fields = append(fields, field{"Duration %", RenderProgress(pct, summaryBarWidth)})
	} else {
		fields = append(fields, field{"Duration %", StyleRed.Render(err.Error())})
	}
	fields = append(fields,
		field{"Budget", FormatMoney(p.BudgetedCost())},
		field{"Actual", FormatMoney(p.ActualCost())},
		field{"Remaining Cost", FormatMoney(p.RemainingCost())},
	)

	var b strings.Builder
	writeFields(&b, fields)
	return RenderBox(p.ShortName+" "+p.Name, strings.TrimSuffix(b.String(), "\n"))
}

// FormatWBS renders the project's work breakdown as a tree. Nodes with
// tasks show the task count.
func FormatWBS(p *domain.Project) string {
	h := p.WBS()
	if h == nil {
		return ""
	}
	var items []TreeItem
	var walk func(nodes []*domain.WbsNode, level int)
	walk = func(nodes []*domain.WbsNode, level int) {
		for i, w := range nodes {
			item := TreeItem{Title: w.Code + " " + Dim(w.Name), Level: level, IsLast: i == len(nodes)-1}
			if n := w.Assignments(); n > 0 {
				item.Detail = fmt.Sprintf("%d tasks", n)
			}
			items = append(items, item)
			walk(h.Children(w.ID), level+1)
		}
	}
	walk(h.Roots(), 0)
	return RenderTree(items)
}
