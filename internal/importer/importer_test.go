package importer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/parser"
	"github.com/alexanderramin/xerkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importXER(t *testing.T, x *testutil.XER, opts ...Option) *Import {
	t.Helper()
	imp, err := FromString(x.String(), opts...)
	require.NoError(t, err)
	return imp
}

func onlyTask(t *testing.T, imp *Import, id string) *domain.Task {
	t.Helper()
	task, ok := imp.Schedule.Tasks.Get(id)
	require.True(t, ok, "task %s", id)
	return task
}

func TestFromString_MinimalFile(t *testing.T) {
	imp := importXER(t, testutil.MinimalXER())

	assert.Empty(t, imp.Findings)
	assert.False(t, imp.Corrupt())
	assert.Equal(t, "19.12", imp.Schedule.Header.Version)
	assert.Equal(t, "USD", imp.Schedule.Header.Currency)

	proj, ok := imp.Schedule.Project("DEMO")
	require.True(t, ok)
	assert.Equal(t, "Demo Project", proj.Name)
	assert.True(t, proj.Frozen())
	assert.Len(t, proj.Tasks(), 1)
	require.NotNil(t, proj.Options)
	require.NotNil(t, proj.DefaultCalendar)
	assert.Len(t, proj.Calendars, 1)

	task := onlyTask(t, imp, "300")
	assert.Equal(t, 10, task.OriginalDuration())
	require.NotNil(t, task.Calendar)
	assert.Same(t, proj.WBSRoot, task.WBS)
	assert.Equal(t, 1, task.WBS.Assignments())

	workdays, hours := 0, 0.0
	for _, d := range task.Calendar.WorkWeek() {
		if d.Hours > 0 {
			workdays++
		}
		hours += d.Hours
	}
	assert.Equal(t, 5, workdays)
	assert.Equal(t, 40.0, hours)
}

func TestFromString_DanglingCalendar(t *testing.T) {
	x := testutil.NewXER().
		Add("CALENDAR", testutil.CalendarRow("1", "Standard", testutil.CalendarData(testutil.Week(testutil.EightHour)))).
		Add("SCHEDOPTIONS", testutil.SchedOptionsRow("1", "100")).
		Add("PROJECT", testutil.ProjectRow("100", "DEMO")).
		Add("PROJWBS", testutil.WBSRow("200", "100", "", "DEMO", "Demo Project")).
		Add("TASK", testutil.TaskRow("300", "100", "200", "A1000", with("clndr_id", "77"))).
		Table("TASKPRED")

	imp := importXER(t, x)

	require.Len(t, imp.Findings, 1)
	assert.Equal(t, "XER is Missing 1 Calendars Assigned to 1 Tasks", imp.Findings[0].Error())
	task := onlyTask(t, imp, "300")
	assert.Nil(t, task.Calendar)
	assert.Empty(t, task.RemainingHoursPerDay(false))
}

func TestFromString_Strict(t *testing.T) {
	x := testutil.MinimalXER().Drop("TASKPRED")

	_, err := FromString(x.String(), WithStrict(true))
	var corrupt *CorruptFileError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, "Missing Required Table TASKPRED", corrupt.Findings[0].Error())

	imp, err := FromString(x.String())
	require.NoError(t, err)
	assert.True(t, imp.Corrupt())
	assert.NotNil(t, imp.Schedule)
}

func TestFromString_WithRules(t *testing.T) {
	x := testutil.MinimalXER().Drop("TASKPRED")

	imp := importXER(t, x, WithStrict(true), WithRules(Rules{RequiredTables: []string{"TASK"}}))
	assert.Empty(t, imp.Findings)
}

func TestFromString_LeadingByteOrderMark(t *testing.T) {
	for _, prefix := range []string{"\ufeff", "\u00ef\u00bb\u00bf"} {
		imp, err := FromString(prefix + testutil.MinimalXER().String())
		require.NoError(t, err, "prefix %q", prefix)
		assert.Empty(t, imp.Findings)
		assert.Equal(t, "Planner Name", imp.Schedule.Header.User)
	}
}

func TestFromString_InvalidFormat(t *testing.T) {
	_, err := FromString("not an export")
	assert.True(t, errors.Is(err, parser.ErrInvalidFormat))
}

func TestFromString_SkipsProjectsNotExported(t *testing.T) {
	x := testutil.MinimalXER().
		Add("PROJECT", testutil.ProjectRow("101", "OTHER", with("export_flag", "N"))).
		Add("PROJWBS", testutil.WBSRow("201", "101", "", "OTHER", "Other")).
		Add("TASK", testutil.TaskRow("400", "101", "201", "B1000")).
		Add("TASKPRED", testutil.RelationshipRow("1", "101", "400", "300", "PR_FS"))

	imp := importXER(t, x)

	assert.Equal(t, 1, imp.Schedule.Projects.Len())
	assert.Equal(t, 1, imp.Schedule.WBS.Len())
	assert.Equal(t, 1, imp.Schedule.Tasks.Len())
	assert.Equal(t, 0, imp.Schedule.Relationships.Len())
}

func TestFromString_LinksRelationships(t *testing.T) {
	x := testutil.MinimalXER().
		Add("TASK", testutil.TaskRow("301", "100", "200", "A1010")).
		Add("TASKPRED",
			testutil.RelationshipRow("1", "100", "300", "301", "PR_FS", with("lag_hr_cnt", "16")),
			testutil.RelationshipRow("2", "100", "300", "999", "PR_SS"),
		)

	imp := importXER(t, x)
	pred, succ := onlyTask(t, imp, "300"), onlyTask(t, imp, "301")

	require.Len(t, pred.Successors, 1)
	assert.Same(t, succ, pred.Successors[0].Task)
	assert.Equal(t, domain.LinkFS, pred.Successors[0].Link)
	assert.Equal(t, 2, pred.Successors[0].Lag)
	require.Len(t, succ.Predecessors, 1)
	assert.Same(t, pred, succ.Predecessors[0].Task)

	proj, _ := imp.Schedule.Project("DEMO")
	assert.Len(t, proj.Relationships(), 1)
	_, ok := proj.Relationship(domain.RelationshipKey{Predecessor: "A1000", Successor: "A1010", Link: domain.LinkFS})
	assert.True(t, ok)
}

func TestFromString_ResourceAssignments(t *testing.T) {
	x := testutil.MinimalXER().
		Add("RSRC", testutil.ResourceRow("8", "CREW")).
		Add("RSRCRATE", parser.Row{"rsrc_rate_id": "1", "rsrc_id": "8", "cost_per_qty": "100", "start_date": "2024-01-01 00:00"}).
		Add("TASKRSRC",
			testutil.AssignmentRow("1", "100", "300", "8", with("act_reg_cost", "500")),
			testutil.AssignmentRow("2", "100", "300", "9"),
		).
		Add("FINDATES", parser.Row{"fin_dates_id": "7", "fin_dates_name": "Dec", "start_date": "2023-12-01 00:00", "end_date": "2023-12-31 00:00"}).
		Add("TRSRCFIN", parser.Row{"taskrsrc_id": "1", "task_id": "300", "proj_id": "100", "fin_dates_id": "7", "act_cost": "250"})

	imp := importXER(t, x)
	require.Len(t, imp.Findings, 1)

	task := onlyTask(t, imp, "300")
	require.Len(t, task.Resources, 2)
	crew, ok := task.Resource("1")
	require.True(t, ok)
	require.NotNil(t, crew.Resource)
	assert.Equal(t, "CREW", crew.Resource.Code)
	require.Len(t, crew.Resource.Rates, 1)
	assert.Equal(t, 100.0, crew.Resource.Rates[0].StandardRate())
	require.Len(t, crew.Periods, 1)
	assert.Equal(t, 250.0, crew.Periods[0].ActualCost)
	assert.Equal(t, "Dec", crew.Periods[0].Period.Name)

	dangling, _ := task.Resource("2")
	assert.Nil(t, dangling.Resource)

	proj, _ := imp.Schedule.Project("DEMO")
	assert.Equal(t, 500.0, proj.ActualCost())
	assert.Equal(t, 16000.0, proj.BudgetedCost())
}

func TestFromString_CodesMemosAndUDFs(t *testing.T) {
	x := testutil.MinimalXER().
		Add("ACTVTYPE", parser.Row{"actv_code_type_id": "1", "actv_code_type": "Phase", "actv_code_type_scope": "AS_Project", "proj_id": "100"}).
		Add("ACTVCODE",
			parser.Row{"actv_code_id": "10", "actv_code_type_id": "1", "short_name": "DES", "actv_code_name": "Design"},
			parser.Row{"actv_code_id": "11", "actv_code_type_id": "1", "short_name": "DET", "actv_code_name": "Detail", "parent_actv_code_id": "10"},
			parser.Row{"actv_code_id": "12", "actv_code_type_id": "404", "short_name": "X", "actv_code_name": "Orphan"},
		).
		Add("TASKACTV", parser.Row{"task_id": "300", "actv_code_id": "11", "actv_code_type_id": "1", "proj_id": "100"}).
		Add("MEMOTYPE", parser.Row{"memo_type_id": "5", "memo_type": "Notes"}).
		Add("TASKMEMO", parser.Row{"memo_id": "1", "task_id": "300", "memo_type_id": "5", "proj_id": "100", "task_memo": "<p>Check <b>access</b></p>"}).
		Add("PCATTYPE", parser.Row{"proj_catg_type_id": "2", "proj_catg_type": "Region"}).
		Add("PCATVAL", parser.Row{"proj_catg_id": "20", "proj_catg_type_id": "2", "proj_catg_short_name": "N", "proj_catg_name": "North"}).
		Add("PROJPCAT", parser.Row{"proj_id": "100", "proj_catg_type_id": "2", "proj_catg_id": "20"}).
		Add("UDFTYPE",
			parser.Row{"udf_type_id": "1", "table_name": "TASK", "udf_type_label": "Area", "udf_type_name": "user_field_1", "logical_data_type": "FT_TEXT"},
			parser.Row{"udf_type_id": "2", "table_name": "PROJECT", "udf_type_label": "Budget", "udf_type_name": "user_field_2", "logical_data_type": "FT_MONEY"},
		).
		Add("UDFVALUE",
			parser.Row{"udf_type_id": "1", "fk_id": "300", "proj_id": "100", "udf_text": "Zone 1"},
			parser.Row{"udf_type_id": "2", "fk_id": "100", "proj_id": "100", "udf_number": "1500.5"},
			parser.Row{"udf_type_id": "1", "fk_id": "999", "proj_id": "100", "udf_text": "gone"},
		)

	imp := importXER(t, x)
	task := onlyTask(t, imp, "300")
	proj, _ := imp.Schedule.Project("DEMO")

	assert.Equal(t, 2, imp.Schedule.ActivityCodes.Len())
	codeType, _ := imp.Schedule.ActivityCodeTypes.Get("1")
	code := task.ActivityCodes[codeType]
	require.NotNil(t, code)
	assert.Equal(t, "DES.DET", code.FullCode())
	assert.Equal(t, []*domain.ActivityCodeType{codeType}, proj.ActivityCodeTypes)

	require.Len(t, task.Memos, 1)
	assert.Equal(t, "Notes", task.Memos[0].Topic)
	assert.Equal(t, "Check access", task.Memos[0].Text())
	assert.Len(t, imp.Schedule.Memos, 1)

	require.Len(t, proj.ProjectCodes, 1)
	for _, c := range proj.ProjectCodes {
		assert.Equal(t, "North", c.Name)
	}

	area, ok := task.UDFs.ByLabel("Area")
	require.True(t, ok)
	assert.Equal(t, "Zone 1", area.String())
	budget, ok := proj.UDFs.ByLabel("Budget")
	require.True(t, ok)
	assert.Equal(t, 1500.5, budget.Value())
	assert.Equal(t, 2, imp.Schedule.UDFCount())
}

func TestFromString_UnknownWBSIsFatal(t *testing.T) {
	x := testutil.MinimalXER().
		Add("TASK", testutil.TaskRow("301", "100", "404", "A1010"))

	_, err := FromString(x.String())
	assert.Error(t, err)
}

func TestFromBytes_DecodesWindows1252(t *testing.T) {
	text := testutil.MinimalXER().String()
	raw := []byte(strings.Replace(text, "Activity A1000", "Caf\xe9", 1))
	raw = append([]byte{0xEF, 0xBB, 0xBF}, raw...)

	imp, err := FromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, "Café", onlyTask(t, imp, "300").Name)

	imp, err = FromReader(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "Café", onlyTask(t, imp, "300").Name)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.xer")
	require.NoError(t, os.WriteFile(path, []byte(testutil.MinimalXER().String()), 0o644))

	imp, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), imp.Schedule.Header.ExportDate)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.xer"))
	assert.Error(t, err)
}
