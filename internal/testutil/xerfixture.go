package testutil

import (
	"maps"
	"slices"
	"strings"

	"github.com/alexanderramin/xerkit/internal/parser"
)

// Calendar day bodies in clndr_data notation.
const (
	OffDay      = "()()"
	EightHour   = "()((0||0(s|08:00|f|16:00)()))"
	SplitShifts = "()((0||0(s|08:00|f|12:00)())(0||1(s|13:00|f|17:00)()))"
)

// Header is the ERMHDR line every builder starts with.
const Header = "ERMHDR\t19.12\t2024-01-10\tProject\tplanner\tPlanner Name\tdbxDatabaseNoName\tProject Management\tUSD"

// CalendarData renders a clndr_data blob from day bodies (Sunday first)
// and exception entries such as "(d|45295)()".
func CalendarData(days [7]string, exceptions ...string) string {
	var b strings.Builder
	b.WriteString("(0||CalendarData()((0||DaysOfWeek()(")
	for i, d := range days {
		b.WriteString("(0||" + string(rune('1'+i)) + d + ")")
	}
	b.WriteString("))(0||VIEW(ShowTotal|Y)())(0||Exceptions()(")
	for i, e := range exceptions {
		b.WriteString("(0||" + string(rune('0'+i%10)) + e + ")")
	}
	b.WriteString("))))")
	return b.String()
}

// Week returns a Monday to Friday week of the given day body.
func Week(day string) [7]string {
	return [7]string{OffDay, day, day, day, day, day, OffDay}
}

type fixtureTable struct {
	name string
	rows []parser.Row
}

// XER renders export text for tests. Columns of a table are the union of
// the keys of its rows, sorted.
type XER struct {
	header string
	tables []*fixtureTable
}

func NewXER() *XER {
	return &XER{header: Header}
}

// WithHeader replaces the ERMHDR line.
func (x *XER) WithHeader(h string) *XER {
	x.header = h
	return x
}

func (x *XER) table(name string) *fixtureTable {
	for _, t := range x.tables {
		if t.name == name {
			return t
		}
	}
	t := &fixtureTable{name: name}
	x.tables = append(x.tables, t)
	return t
}

// Table declares a table, which is rendered even when it has no rows.
func (x *XER) Table(name string) *XER {
	x.table(name)
	return x
}

// Add appends rows to a table.
func (x *XER) Add(name string, rows ...parser.Row) *XER {
	t := x.table(name)
	t.rows = append(t.rows, rows...)
	return x
}

// Drop removes a table.
func (x *XER) Drop(name string) *XER {
	x.tables = slices.DeleteFunc(x.tables, func(t *fixtureTable) bool { return t.name == name })
	return x
}

func (x *XER) String() string {
	var b strings.Builder
	b.WriteString(x.header)
	b.WriteString("\n")
	for _, t := range x.tables {
		cols := map[string]bool{}
		for _, r := range t.rows {
			for k := range r {
				cols[k] = true
			}
		}
		names := slices.Sorted(maps.Keys(cols))
		b.WriteString("%T\t" + t.name + "\n")
		b.WriteString("%F\t" + strings.Join(names, "\t") + "\n")
		for _, r := range t.rows {
			vals := make([]string, len(names))
			for i, n := range names {
				vals[i] = r[n]
			}
			b.WriteString("%R\t" + strings.Join(vals, "\t") + "\n")
		}
	}
	b.WriteString("%E\n")
	return b.String()
}

// RowOption customises a fixture row.
type RowOption func(parser.Row)

// With sets a column.
func With(col, val string) RowOption {
	return func(r parser.Row) { r[col] = val }
}

func build(base parser.Row, opts []RowOption) parser.Row {
	for _, o := range opts {
		o(base)
	}
	return base
}

func CalendarRow(id, name string, data string, opts ...RowOption) parser.Row {
	return build(parser.Row{
		"clndr_id":      id,
		"clndr_name":    name,
		"clndr_type":    "CA_Base",
		"clndr_data":    data,
		"default_flag":  "N",
		"base_clndr_id": "",
		"proj_id":       "",
		"day_hr_cnt":    "8",
		"week_hr_cnt":   "40",
	}, opts)
}

func ProjectRow(id, shortName string, opts ...RowOption) parser.Row {
	return build(parser.Row{
		"proj_id":           id,
		"proj_short_name":   shortName,
		"clndr_id":          "1",
		"export_flag":       "Y",
		"add_date":          "2023-12-01 08:00",
		"last_recalc_date":  "2024-01-08 08:00",
		"plan_start_date":   "2024-01-01 08:00",
		"scd_end_date":      "2024-01-31 16:00",
		"plan_end_date":     "",
		"last_fin_dates_id": "",
	}, opts)
}

func SchedOptionsRow(id, projID string, opts ...RowOption) parser.Row {
	return build(parser.Row{
		"schedoptions_id":            id,
		"proj_id":                    projID,
		"sched_float_type":           "FT_FF",
		"sched_outer_depend_type":    "SD_Both",
		"sched_retained_logic":       "Y",
		"sched_progress_override":    "N",
		"sched_open_critical_flag":   "N",
		"sched_lag_early_start_flag": "N",
	}, opts)
}

func WBSRow(id, projID, parentID, code, name string, opts ...RowOption) parser.Row {
	flag := "N"
	if parentID == "" {
		flag = "Y"
	}
	return build(parser.Row{
		"wbs_id":         id,
		"proj_id":        projID,
		"parent_wbs_id":  parentID,
		"wbs_short_name": code,
		"wbs_name":       name,
		"proj_node_flag": flag,
		"seq_num":        "1",
		"status_code":    "WS_Open",
	}, opts)
}

// TaskRow is a not started, task dependent activity of 10 days with
// duration percent complete.
func TaskRow(id, projID, wbsID, code string, opts ...RowOption) parser.Row {
	return build(parser.Row{
		"task_id":            id,
		"proj_id":            projID,
		"wbs_id":             wbsID,
		"clndr_id":           "1",
		"task_code":          code,
		"task_name":          "Activity " + code,
		"task_type":          "TT_Task",
		"status_code":        "TK_NotStart",
		"complete_pct_type":  "CP_Drtn",
		"duration_type":      "DT_FixedDUR2",
		"phys_complete_pct":  "0",
		"target_drtn_hr_cnt": "80",
		"remain_drtn_hr_cnt": "80",
		"total_float_hr_cnt": "16",
		"free_float_hr_cnt":  "0",
		"early_start_date":   "2024-01-08 08:00",
		"early_end_date":     "2024-01-19 16:00",
		"late_start_date":    "2024-01-10 08:00",
		"late_end_date":      "2024-01-23 16:00",
		"target_start_date":  "2024-01-08 08:00",
		"target_end_date":    "2024-01-19 16:00",
		"restart_date":       "2024-01-08 08:00",
		"reend_date":         "2024-01-19 16:00",
		"target_work_qty":    "0",
		"act_work_qty":       "0",
		"target_equip_qty":   "0",
		"act_equip_qty":      "0",
	}, opts)
}

func RelationshipRow(id, projID, predID, succID, predType string, opts ...RowOption) parser.Row {
	return build(parser.Row{
		"task_pred_id": id,
		"task_id":      succID,
		"pred_task_id": predID,
		"proj_id":      projID,
		"pred_proj_id": projID,
		"pred_type":    predType,
		"lag_hr_cnt":   "0",
	}, opts)
}

func ResourceRow(id, code string, opts ...RowOption) parser.Row {
	return build(parser.Row{
		"rsrc_id":         id,
		"rsrc_short_name": code,
		"rsrc_name":       "Resource " + code,
		"rsrc_type":       "RT_Labor",
		"clndr_id":        "1",
		"parent_rsrc_id":  "",
		"active_flag":     "Y",
	}, opts)
}

func AssignmentRow(id, projID, taskID, rsrcID string, opts ...RowOption) parser.Row {
	return build(parser.Row{
		"taskrsrc_id":  id,
		"proj_id":      projID,
		"task_id":      taskID,
		"rsrc_id":      rsrcID,
		"acct_id":      "",
		"rsrc_type":    "RT_Labor",
		"target_qty":   "80",
		"remain_qty":   "80",
		"target_cost":  "8000",
		"remain_cost":  "8000",
		"act_reg_cost": "0",
		"act_ot_cost":  "0",
	}, opts)
}

// MinimalXER is one exported project with an 8 hour Monday to Friday
// calendar, a WBS root and one not started task of 80 hours.
func MinimalXER() *XER {
	return NewXER().
		Add("CALENDAR", CalendarRow("1", "Standard", CalendarData(Week(EightHour)), With("default_flag", "Y"))).
		Add("SCHEDOPTIONS", SchedOptionsRow("1", "100")).
		Add("PROJECT", ProjectRow("100", "DEMO")).
		Add("PROJWBS", WBSRow("200", "100", "", "DEMO", "Demo Project")).
		Add("TASK", TaskRow("300", "100", "200", "A1000")).
		Table("TASKPRED")
}
