package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/quality"
)

func taskCodes(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Code
	}
	return out
}

func relationshipKeys(rels []*domain.Relationship) []string {
	out := make([]string, len(rels))
	for i, r := range rels {
		out[i] = fmt.Sprintf("%s -%s-> %s", r.Predecessor.Code, r.Link, r.Successor.Code)
	}
	return out
}

func chainText(task *domain.Task, chain []domain.TaskLink) string {
	parts := make([]string, 0, len(chain)+1)
	for _, l := range chain {
		parts = append(parts, l.Task.Code)
	}
	parts = append(parts, task.Code)
	return strings.Join(parts, " → ")
}

// reportDetails lists the flagged items of each non-empty category in
// report order.
func reportDetails(r *quality.Report) []field {
	var out []field
	add := func(label string, items []string) {
		if len(items) > 0 {
			out = append(out, field{label, strings.Join(items, ", ")})
		}
	}
	add("Open Predecessors", taskCodes(r.OpenPredecessors))
	add("Open Successors", taskCodes(r.OpenSuccessors))
	add("Open Starts", taskCodes(r.OpenStarts))
	add("Open Finishes", taskCodes(r.OpenFinishes))
	add("Invalid Actual Starts", taskCodes(r.InvalidStarts))
	add("Invalid Actual Finishes", taskCodes(r.InvalidFinishes))
	add("Long Durations", taskCodes(r.LongDurations))
	add("In Progress Without Progress", taskCodes(r.NoProgress))
	add("Cost Variance", taskCodes(r.CostVariance))

	var dupNames []string
	for _, group := range r.DuplicateNames {
		dupNames = append(dupNames, strings.Join(taskCodes(group), "="))
	}
	add("Duplicate Names", dupNames)

	var dupLogic []string
	for _, d := range r.DuplicateLogic {
		dupLogic = append(dupLogic, d.Task.Code)
	}
	add("Duplicate Logic", dupLogic)

	var redundant []string
	for _, red := range r.RedundantLogic {
		for _, chain := range red.Chains {
			redundant = append(redundant, chainText(red.Task, chain))
		}
	}
	add("Redundant Logic", redundant)

	add("Start to Finish Links", relationshipKeys(r.StartFinishLinks))
	add("Negative Lags", relationshipKeys(r.NegativeLags))
	add("Long Lags", relationshipKeys(r.LongLags))
	add("Finish to Start With Lag", relationshipKeys(r.FinishStartWithLag))
	add("Lag Exceeds Duration", relationshipKeys(r.LagExceedsDuration))
	return out
}

// FormatWarnings renders the warning counts of one project. Verbose adds
// the flagged activity ids per category.
func FormatWarnings(p *domain.Project, r *quality.Report, verbose bool) string {
	var rows [][]string
	for _, c := range r.Counts() {
		count := Dim("0")
		if c.Count > 0 {
			count = StyleYellow.Render(fmt.Sprint(c.Count))
		}
		rows = append(rows, []string{c.Category, count})
	}

	var b strings.Builder
	b.WriteString(Header(p.ShortName+" warnings") + "\n")
	b.WriteString(RenderTable([]string{"CATEGORY", "COUNT"}, rows))
	if total := r.Total(); total == 0 {
		b.WriteString("\n" + StyleGreen.Render("✔ no warnings") + "\n")
	} else {
		fmt.Fprintf(&b, "\n%s flagged\n", StyleYellow.Render(fmt.Sprint(total)))
	}

	if verbose {
		if details := reportDetails(r); len(details) > 0 {
			b.WriteString("\n")
			writeFields(&b, details)
		}
	}
	return b.String()
}
