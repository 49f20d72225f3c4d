package importer

import (
	"fmt"
	"log/slog"

	"github.com/alexanderramin/xerkit/internal/calendar"
	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/parser"
)

// Convert links the tables of a parsed export into a schedule. Only
// projects flagged for export are materialised, along with the rows that
// belong to them. Dangling calendar, resource and lookup references are
// left nil and logged at debug level; a foreign key that disagrees with
// the object it resolves to is returned as a *domain.MismatchError.
func Convert(file *parser.File, log *slog.Logger) (*domain.Schedule, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	l := &linker{file: file, log: log, s: domain.NewSchedule(file.Header)}

	steps := []struct {
		name string
		run  func() error
	}{
		{"accounts", l.accounts},
		{"activity code types", l.activityCodeTypes},
		{"activity codes", l.activityCodes},
		{"calendars", l.calendars},
		{"financial periods", l.financialPeriods},
		{"notebook topics", l.notebookTopics},
		{"project code types", l.projectCodeTypes},
		{"project codes", l.projectCodes},
		{"resources", l.resources},
		{"resource rates", l.resourceRates},
		{"schedule options", l.scheduleOptions},
		{"udf types", l.udfTypes},
		{"projects", l.projects},
		{"wbs", l.wbs},
		{"tasks", l.tasks},
		{"relationships", l.relationships},
		{"project activity code types", l.projectActivityCodeTypes},
		{"project code assignments", l.projectCodeAssignments},
		{"project calendars", l.projectCalendars},
		{"task activity codes", l.taskActivityCodes},
		{"memos", l.memos},
		{"resource assignments", l.assignments},
		{"financial actuals", l.financials},
		{"udf values", l.udfValues},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return nil, fmt.Errorf("linking %s: %w", step.name, err)
		}
	}
	for _, p := range l.s.Projects.All() {
		p.Freeze()
	}
	return l.s, nil
}

type linker struct {
	file *parser.File
	log  *slog.Logger
	s    *domain.Schedule
}

func (l *linker) rows(table string) []parser.Row { return l.file.Rows(table) }

func (l *linker) dangling(kind, id, from string) {
	l.log.Debug("dangling reference", "kind", kind, "id", id, "from", from)
}

func (l *linker) exported(projID string) (*domain.Project, bool) {
	return l.s.Projects.Get(projID)
}

func (l *linker) accounts() error {
	var items []*domain.Account
	for _, row := range l.rows("ACCOUNT") {
		a, err := domain.NewAccount(row)
		if err != nil {
			return err
		}
		items = append(items, a)
	}
	l.s.Accounts = domain.NewHierarchy(items, nil)
	return nil
}

func (l *linker) activityCodeTypes() error {
	for _, row := range l.rows("ACTVTYPE") {
		t, err := domain.NewActivityCodeType(row)
		if err != nil {
			return err
		}
		l.s.ActivityCodeTypes.Add(t.ID, t)
	}
	return nil
}

func (l *linker) activityCodes() error {
	var items []*domain.ActivityCode
	for _, row := range l.rows("ACTVCODE") {
		codeType, ok := l.s.ActivityCodeTypes.Get(row["actv_code_type_id"])
		if !ok {
			l.dangling("activity code type", row["actv_code_type_id"], "activity code "+row["actv_code_id"])
			continue
		}
		c, err := domain.NewActivityCode(row, codeType)
		if err != nil {
			return err
		}
		items = append(items, c)
	}
	l.s.ActivityCodes = domain.NewHierarchy(items, nil)
	return nil
}

func (l *linker) calendars() error {
	for _, row := range l.rows("CALENDAR") {
		c, err := calendar.FromRow(row)
		if err != nil {
			return err
		}
		l.s.Calendars.Add(c.ID, c)
	}
	for _, c := range l.s.Calendars.All() {
		if c.BaseID == "" {
			continue
		}
		if base, ok := l.s.Calendars.Get(c.BaseID); ok {
			c.Base = base
		} else {
			l.dangling("base calendar", c.BaseID, "calendar "+c.ID)
		}
	}
	return nil
}

func (l *linker) financialPeriods() error {
	for _, row := range l.rows("FINDATES") {
		p, err := domain.NewFinancialPeriod(row)
		if err != nil {
			return err
		}
		l.s.FinancialPeriods.Add(p.ID, p)
	}
	return nil
}

func (l *linker) notebookTopics() error {
	for _, row := range l.rows("MEMOTYPE") {
		t, err := domain.NewNotebookTopic(row)
		if err != nil {
			return err
		}
		l.s.NotebookTopics.Add(t.ID, t)
	}
	return nil
}

func (l *linker) projectCodeTypes() error {
	for _, row := range l.rows("PCATTYPE") {
		t, err := domain.NewProjectCodeType(row)
		if err != nil {
			return err
		}
		l.s.ProjectCodeTypes.Add(t.ID, t)
	}
	return nil
}

func (l *linker) projectCodes() error {
	var items []*domain.ProjectCode
	for _, row := range l.rows("PCATVAL") {
		codeType, ok := l.s.ProjectCodeTypes.Get(row["proj_catg_type_id"])
		if !ok {
			l.dangling("project code type", row["proj_catg_type_id"], "project code "+row["proj_catg_id"])
			continue
		}
		c, err := domain.NewProjectCode(row, codeType)
		if err != nil {
			return err
		}
		items = append(items, c)
	}
	l.s.ProjectCodes = domain.NewHierarchy(items, nil)
	return nil
}

func (l *linker) resources() error {
	var items []*domain.Resource
	for _, row := range l.rows("RSRC") {
		r, err := domain.NewResource(row)
		if err != nil {
			return err
		}
		if r.CalendarID != "" {
			r.Calendar, _ = l.s.Calendars.Get(r.CalendarID)
		}
		items = append(items, r)
	}
	l.s.Resources = domain.NewHierarchy(items, nil)
	return nil
}

func (l *linker) resourceRates() error {
	for _, row := range l.rows("RSRCRATE") {
		rsrc, ok := l.s.Resources.Get(row["rsrc_id"])
		if !ok {
			l.dangling("resource", row["rsrc_id"], "resource rate "+row["rsrc_rate_id"])
		}
		rate, err := domain.NewResourceRate(row, rsrc)
		if err != nil {
			return err
		}
		if rsrc != nil {
			rsrc.Rates = append(rsrc.Rates, rate)
		}
		l.s.ResourceRates.Add(rate.ID, rate)
	}
	return nil
}

func (l *linker) scheduleOptions() error {
	for _, row := range l.rows("SCHEDOPTIONS") {
		o, err := domain.NewScheduleOptions(row)
		if err != nil {
			return err
		}
		l.s.ScheduleOptions.Add(o.ID, o)
	}
	return nil
}

func (l *linker) udfTypes() error {
	for _, row := range l.rows("UDFTYPE") {
		t, err := domain.NewUDFType(row)
		if err != nil {
			return err
		}
		l.s.UDFTypes.Add(t.ID, t)
	}
	return nil
}

func (l *linker) optionsFor(projID string) *domain.ScheduleOptions {
	for _, o := range l.s.ScheduleOptions.All() {
		if o.ProjectID == projID {
			return o
		}
	}
	return nil
}

func (l *linker) projects() error {
	for _, row := range l.rows("PROJECT") {
		if row["export_flag"] != "Y" {
			continue
		}
		cal, ok := l.s.Calendars.Get(row["clndr_id"])
		if !ok && row["clndr_id"] != "" {
			l.dangling("calendar", row["clndr_id"], "project "+row["proj_short_name"])
		}
		p, err := domain.NewProject(row, l.optionsFor(row["proj_id"]), cal)
		if err != nil {
			return err
		}
		l.s.Projects.Add(p.ID, p)
	}
	return nil
}

func (l *linker) wbs() error {
	for _, row := range l.rows("PROJWBS") {
		p, ok := l.exported(row["proj_id"])
		if !ok {
			continue
		}
		w, err := domain.NewWbsNode(row)
		if err != nil {
			return err
		}
		if err := p.AddWBS(w); err != nil {
			return err
		}
		l.s.WBS.Add(w.ID, w)
	}
	return nil
}

func (l *linker) tasks() error {
	for _, row := range l.rows("TASK") {
		p, ok := l.exported(row["proj_id"])
		if !ok {
			continue
		}
		cal, ok := l.s.Calendars.Get(row["clndr_id"])
		if !ok {
			l.dangling("calendar", row["clndr_id"], "task "+row["task_code"])
		}
		wbs, _ := l.s.WBS.Get(row["wbs_id"])
		t, err := domain.NewTask(row, cal, wbs)
		if err != nil {
			return err
		}
		wbs.Tasks = append(wbs.Tasks, t)
		if err := p.AddTask(t); err != nil {
			return err
		}
		l.s.Tasks.Add(t.ID, t)
	}
	return nil
}

func (l *linker) relationships() error {
	for _, row := range l.rows("TASKPRED") {
		p, ok := l.exported(row["proj_id"])
		if !ok {
			continue
		}
		pred, predOK := l.s.Tasks.Get(row["pred_task_id"])
		succ, succOK := l.s.Tasks.Get(row["task_id"])
		if !predOK || !succOK {
			l.dangling("task", row["pred_task_id"]+"->"+row["task_id"], "relationship "+row["task_pred_id"])
			continue
		}
		r, err := domain.NewRelationship(row, pred, succ)
		if err != nil {
			return err
		}
		lag := r.Lag()
		pred.Successors = append(pred.Successors, domain.TaskLink{Task: succ, Link: r.Link, Lag: lag})
		succ.Predecessors = append(succ.Predecessors, domain.TaskLink{Task: pred, Link: r.Link, Lag: lag})
		if err := p.AddRelationship(r); err != nil {
			return err
		}
		l.s.Relationships.Add(r.ID, r)
	}
	return nil
}

func (l *linker) projectActivityCodeTypes() error {
	for _, t := range l.s.ActivityCodeTypes.All() {
		if p, ok := l.exported(t.ProjectID); ok {
			p.ActivityCodeTypes = append(p.ActivityCodeTypes, t)
		}
	}
	return nil
}

func (l *linker) projectCodeAssignments() error {
	for _, row := range l.rows("PROJPCAT") {
		p, ok := l.exported(row["proj_id"])
		if !ok {
			continue
		}
		code, ok := l.s.ProjectCodes.Get(row["proj_catg_id"])
		if !ok {
			l.dangling("project code", row["proj_catg_id"], "project "+p.ShortName)
			continue
		}
		p.ProjectCodes[code.Type] = code
	}
	return nil
}

func (l *linker) projectCalendars() error {
	for _, p := range l.s.Projects.All() {
		for _, c := range l.s.Calendars.All() {
			if c.ProjectID == "" || c.ProjectID == p.ID {
				p.Calendars = append(p.Calendars, c)
			}
		}
	}
	return nil
}

func (l *linker) taskActivityCodes() error {
	for _, row := range l.rows("TASKACTV") {
		t, ok := l.s.Tasks.Get(row["task_id"])
		if !ok {
			continue
		}
		code, ok := l.s.ActivityCodes.Get(row["actv_code_id"])
		if !ok {
			l.dangling("activity code", row["actv_code_id"], "task "+t.Code)
			continue
		}
		t.ActivityCodes[code.Type] = code
	}
	return nil
}

func (l *linker) memos() error {
	for _, row := range l.rows("TASKMEMO") {
		t, ok := l.s.Tasks.Get(row["task_id"])
		if !ok {
			continue
		}
		topic, ok := l.s.NotebookTopics.Get(row["memo_type_id"])
		if !ok {
			l.dangling("notebook topic", row["memo_type_id"], "task "+t.Code)
		}
		m, err := domain.NewTaskMemo(row, topic)
		if err != nil {
			return err
		}
		t.Memos = append(t.Memos, m)
		l.s.Memos = append(l.s.Memos, m)
	}
	return nil
}

func (l *linker) assignments() error {
	for _, row := range l.rows("TASKRSRC") {
		p, ok := l.exported(row["proj_id"])
		if !ok {
			continue
		}
		t, ok := l.s.Tasks.Get(row["task_id"])
		if !ok {
			l.dangling("task", row["task_id"], "task resource "+row["taskrsrc_id"])
			continue
		}
		rsrc, ok := l.s.Resources.Get(row["rsrc_id"])
		if !ok {
			l.dangling("resource", row["rsrc_id"], "task "+t.Code)
		}
		acct, _ := l.s.Accounts.Get(row["acct_id"])
		a, err := domain.NewResourceAssignment(row, t, rsrc, acct)
		if err != nil {
			return err
		}
		t.Resources = append(t.Resources, a)
		if err := p.AddAssignment(a); err != nil {
			return err
		}
		l.s.Assignments.Add(a.ID, a)
	}
	return nil
}

func (l *linker) financials() error {
	for _, row := range l.rows("TASKFIN") {
		t, ok := l.s.Tasks.Get(row["task_id"])
		if !ok {
			continue
		}
		period, _ := l.s.FinancialPeriods.Get(row["fin_dates_id"])
		tf, err := domain.NewTaskFinancial(row, period)
		if err != nil {
			return err
		}
		t.Periods = append(t.Periods, tf)
	}
	for _, row := range l.rows("TRSRCFIN") {
		a, ok := l.s.Assignments.Get(row["taskrsrc_id"])
		if !ok {
			continue
		}
		period, _ := l.s.FinancialPeriods.Get(row["fin_dates_id"])
		af, err := domain.NewAssignmentFinancial(row, period)
		if err != nil {
			return err
		}
		a.Periods = append(a.Periods, af)
	}
	return nil
}

func (l *linker) udfValues() error {
	for _, row := range l.rows("UDFVALUE") {
		udfType, ok := l.s.UDFTypes.Get(row["udf_type_id"])
		if !ok {
			l.dangling("udf type", row["udf_type_id"], "udf value for "+row["fk_id"])
			continue
		}
		var target domain.UDFSet
		switch udfType.Owner {
		case domain.OwnerTask:
			if t, ok := l.s.Tasks.Get(row["fk_id"]); ok {
				target = t.UDFs
			}
		case domain.OwnerProject:
			if p, ok := l.s.Projects.Get(row["fk_id"]); ok {
				target = p.UDFs
			}
		case domain.OwnerWBS:
			if w, ok := l.s.WBS.Get(row["fk_id"]); ok {
				target = w.UDFs
			}
		case domain.OwnerResource:
			if r, ok := l.s.Resources.Get(row["fk_id"]); ok {
				target = r.UDFs
			}
		case domain.OwnerUnsupported:
		}
		if target == nil {
			continue
		}
		v, err := domain.NewUDFValue(row, udfType)
		if err != nil {
			return err
		}
		target[udfType] = v
	}
	return nil
}
