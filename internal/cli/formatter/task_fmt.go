package formatter

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/xerkit/internal/domain"
)

func taskDate(t time.Time, err error) string {
	if err != nil {
		return Dim("--")
	}
	return FormatDate(t)
}

// FormatTasks renders one row per task in the given order.
func FormatTasks(tasks []*domain.Task) string {
	headers := []string{"", "ID", "NAME", "STATUS", "START", "FINISH", "DUR", "TF", "%"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			CriticalMark(t.IsCritical()),
			Bold(t.Code),
			t.Name,
			StatusPill(t.Status),
			taskDate(t.Start()),
			taskDate(t.Finish()),
			fmt.Sprintf("%dd", t.Duration()),
			FloatStyled(t.TotalFloat()),
			FormatPercent(t.PercentComplete()),
		})
	}
	return RenderTable(headers, rows)
}

func linkLines(title string, links []domain.TaskLink) string {
	if len(links) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleHeader.Render(title) + "\n")
	for _, l := range links {
		lag := ""
		if l.Lag != 0 {
			lag = Dim(fmt.Sprintf(" lag %dd", l.Lag))
		}
		fmt.Fprintf(&b, "  %s %s %s%s\n", StylePurple.Render(string(l.Link)), Bold(l.Task.Code), l.Task.Name, lag)
	}
	return b.String()
}

// FormatTaskDetail renders every scheduling figure of one task with its
// logic.
func FormatTaskDetail(t *domain.Task) string {
	cal := Dim("--")
	if t.Calendar != nil {
		cal = t.Calendar.Name
	}
	fields := []field{
		{"Status", StatusPill(t.Status)},
		{"Type", t.Type.Label()},
		{"WBS", t.WBS.FullCode()},
		{"Calendar", cal},
		{"Start", taskDate(t.Start())},
		{"Finish", taskDate(t.Finish())},
		{"Late Start", FormatOptDate(t.LateStart)},
		{"Late Finish", FormatOptDate(t.LateFinish)},
		{"Original", fmt.Sprintf("%dd", t.OriginalDuration())},
		{"Remaining", fmt.Sprintf("%dd", t.RemainingDuration())},
		{"Total Float", FloatStyled(t.TotalFloat())},
		{"Free Float", FloatStyled(t.FreeFloat())},
		{"Complete", FormatPercent(t.PercentComplete()) + Dim(" "+t.PercentType.Label())},
	}
	for _, c := range t.Constraints() {
		date := ""
		if c.Date != nil {
			date = " " + FormatDate(*c.Date)
		}
		fields = append(fields, field{"Constraint", c.Type.Label() + date})
	}

	var b strings.Builder
	b.WriteString(Header(t.Code+" "+t.Name) + "\n")
	writeFields(&b, fields)
	if preds := linkLines("Predecessors", t.Predecessors); preds != "" {
		b.WriteString("\n" + preds)
	}
	if succs := linkLines("Successors", t.Successors); succs != "" {
		b.WriteString("\n" + succs)
	}
	return b.String()
}

// FormatRemaining renders a task's remaining hours per day.
func FormatRemaining(t *domain.Task, profile map[time.Time]float64) string {
	var b strings.Builder
	b.WriteString(Header(t.Code+" "+t.Name) + "\n")
	if len(profile) == 0 {
		b.WriteString(Dim("no remaining work to spread") + "\n")
		return b.String()
	}
	var total float64
	rows := make([][]string, 0, len(profile))
	for _, day := range slices.SortedFunc(maps.Keys(profile), time.Time.Compare) {
		total += profile[day]
		rows = append(rows, []string{day.Format("Mon 2006-01-02"), FormatHours(profile[day])})
	}
	b.WriteString(RenderTable([]string{"DATE", "HOURS"}, rows))
	fmt.Fprintf(&b, "\n%s over %s days\n", Bold(FormatHours(total)), Bold(fmt.Sprint(len(rows))))
	return b.String()
}
