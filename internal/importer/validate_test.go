package importer

import (
	"errors"
	"testing"

	"github.com/alexanderramin/xerkit/internal/parser"
	"github.com/alexanderramin/xerkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var with = testutil.With

func parse(t *testing.T, x *testutil.XER) *parser.File {
	t.Helper()
	f, err := parser.Parse(x.String())
	require.NoError(t, err)
	return f
}

func messages(findings []Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Error()
	}
	return out
}

func TestScan_MinimalFileIsClean(t *testing.T) {
	assert.Empty(t, Scan(parse(t, testutil.MinimalXER()), DefaultRules()))
}

func TestScan_MissingRequiredTables(t *testing.T) {
	x := testutil.MinimalXER().Drop("TASKPRED").Drop("PROJWBS")

	findings := Scan(parse(t, x), DefaultRules())
	assert.Equal(t, []string{
		"Missing Required Table PROJWBS",
		"Missing Required Table TASKPRED",
	}, messages(findings))
	assert.Equal(t, MissingTable, findings[0].Code)
}

func TestScan_MissingPartnerTable(t *testing.T) {
	x := testutil.MinimalXER().
		Add("TASKMEMO", parser.Row{"memo_id": "1", "task_id": "300", "memo_type_id": "5", "proj_id": "100"})

	findings := Scan(parse(t, x), DefaultRules())
	require.Len(t, findings, 1)
	assert.Equal(t, "Missing Table MEMOTYPE Required for Table TASKMEMO", findings[0].Error())
	assert.Equal(t, []string{"TASKMEMO", "MEMOTYPE"}, findings[0].Tables)
}

func TestScan_DanglingCalendar(t *testing.T) {
	x := testutil.MinimalXER().
		Add("TASK",
			testutil.TaskRow("301", "100", "200", "A1010", with("clndr_id", "99")),
			testutil.TaskRow("302", "100", "200", "A1020", with("clndr_id", "99")),
		)

	findings := Scan(parse(t, x), DefaultRules())
	require.Len(t, findings, 1)
	assert.Equal(t, MissingCalendars, findings[0].Code)
	assert.Equal(t, 1, findings[0].Missing)
	assert.Equal(t, 2, findings[0].Affected)
	assert.Equal(t, "XER is Missing 1 Calendars Assigned to 2 Tasks", findings[0].Error())
}

func TestScan_IgnoresProjectsNotExported(t *testing.T) {
	x := testutil.MinimalXER().
		Add("PROJECT", testutil.ProjectRow("101", "OTHER", with("export_flag", "N"))).
		Add("TASK", testutil.TaskRow("400", "101", "201", "B1000", with("clndr_id", "99")))

	assert.Empty(t, Scan(parse(t, x), DefaultRules()))
}

func TestScan_DanglingResources(t *testing.T) {
	x := testutil.MinimalXER().
		Add("RSRC", testutil.ResourceRow("8", "CREW")).
		Add("TASKRSRC",
			testutil.AssignmentRow("1", "100", "300", "9"),
			testutil.AssignmentRow("2", "100", "300", "9"),
			testutil.AssignmentRow("3", "100", "300", "8"),
		)

	findings := Scan(parse(t, x), DefaultRules())
	require.Len(t, findings, 1)
	assert.Equal(t, "XER is Missing 1 Resources Assigned to 2 Task Resources", findings[0].Error())
}

func TestScan_CustomRules(t *testing.T) {
	x := testutil.MinimalXER().Drop("TASKPRED")
	rules := Rules{RequiredTables: []string{"TASK", "RSRC"}}

	assert.Equal(t, []string{"Missing Required Table RSRC"}, messages(Scan(parse(t, x), rules)))
}

func TestCorruptFileError(t *testing.T) {
	err := error(&CorruptFileError{Findings: []Finding{
		{Code: MissingTable, Tables: []string{"TASK"}},
		{Code: MissingCalendars, Tables: []string{"TASK", "CALENDAR"}, Missing: 2, Affected: 3},
	}})

	assert.Equal(t, "XER file is corrupt\nMissing Required Table TASK\nXER is Missing 2 Calendars Assigned to 3 Tasks", err.Error())

	var finding Finding
	require.True(t, errors.As(err, &finding))
	assert.Equal(t, MissingTable, finding.Code)
}
