package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/xerkit/internal/parser"
)

// FindingCode classifies a structural problem in an export.
type FindingCode string

const (
	MissingTable        FindingCode = "missing_table"
	MissingPartnerTable FindingCode = "missing_partner_table"
	MissingCalendars    FindingCode = "missing_calendars"
	MissingResources    FindingCode = "missing_resources"
)

// Finding is one structural problem. Missing counts the distinct ids that
// could not be resolved and Affected the rows referencing them.
type Finding struct {
	Code     FindingCode
	Tables   []string
	Missing  int
	Affected int
}

func (f Finding) Error() string {
	switch f.Code {
	case MissingTable:
		return "Missing Required Table " + f.Tables[0]
	case MissingPartnerTable:
		return fmt.Sprintf("Missing Table %s Required for Table %s", f.Tables[1], f.Tables[0])
	case MissingCalendars:
		return fmt.Sprintf("XER is Missing %d Calendars Assigned to %d Tasks", f.Missing, f.Affected)
	case MissingResources:
		return fmt.Sprintf("XER is Missing %d Resources Assigned to %d Task Resources", f.Missing, f.Affected)
	default:
		return string(f.Code)
	}
}

// CorruptFileError is returned in strict mode when Scan reports findings.
type CorruptFileError struct {
	Findings []Finding
}

func (e *CorruptFileError) Error() string {
	msgs := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		msgs[i] = f.Error()
	}
	return "XER file is corrupt\n" + strings.Join(msgs, "\n")
}

func (e *CorruptFileError) Unwrap() []error {
	errs := make([]error, len(e.Findings))
	for i, f := range e.Findings {
		errs[i] = f
	}
	return errs
}

// Scan checks a parsed export for missing tables and dangling calendar and
// resource references. It collects every finding instead of stopping at
// the first.
func Scan(file *parser.File, rules Rules) []Finding {
	var findings []Finding

	for _, name := range rules.RequiredTables {
		if !file.Has(name) {
			findings = append(findings, Finding{Code: MissingTable, Tables: []string{name}})
		}
	}
	for _, p := range rules.TablePairs {
		if file.Has(p.Dependent) && !file.Has(p.Partner) {
			findings = append(findings, Finding{Code: MissingPartnerTable, Tables: []string{p.Dependent, p.Partner}})
		}
	}

	exported := exportedProjects(file)
	if f, ok := danglingRefs(file, "TASK", "CALENDAR", "clndr_id", exported); ok {
		f.Code = MissingCalendars
		findings = append(findings, f)
	}
	if f, ok := danglingRefs(file, "TASKRSRC", "RSRC", "rsrc_id", exported); ok {
		f.Code = MissingResources
		findings = append(findings, f)
	}
	return findings
}

func exportedProjects(file *parser.File) map[string]bool {
	ids := make(map[string]bool)
	for _, p := range file.Rows("PROJECT") {
		if p["export_flag"] == "Y" {
			ids[p["proj_id"]] = true
		}
	}
	return ids
}

// danglingRefs counts rows of an exported project whose key column has no
// matching row in the target table.
func danglingRefs(file *parser.File, table, target, key string, exported map[string]bool) (Finding, bool) {
	known := make(map[string]bool)
	for _, r := range file.Rows(target) {
		known[r[key]] = true
	}
	missing := make(map[string]bool)
	affected := 0
	for _, r := range file.Rows(table) {
		if !exported[r["proj_id"]] || known[r[key]] {
			continue
		}
		missing[r[key]] = true
		affected++
	}
	if affected == 0 {
		return Finding{}, false
	}
	return Finding{Tables: []string{table, target}, Missing: len(missing), Affected: affected}, true
}
