package domain

import (
	"github.com/alexanderramin/xerkit/internal/calendar"
	"github.com/alexanderramin/xerkit/internal/parser"
)

// Schedule is the linked object graph of one export file. It is built by
// the importer and read-only afterwards.
type Schedule struct {
	Header parser.Header

	Accounts          *Hierarchy[*Account]
	ActivityCodeTypes *Index[*ActivityCodeType]
	ActivityCodes     *Hierarchy[*ActivityCode]
	Calendars         *Index[*calendar.Calendar]
	FinancialPeriods  *Index[*FinancialPeriod]
	NotebookTopics    *Index[*NotebookTopic]
	ProjectCodeTypes  *Index[*ProjectCodeType]
	ProjectCodes      *Hierarchy[*ProjectCode]
	Resources         *Hierarchy[*Resource]
	ResourceRates     *Index[*ResourceRate]
	ScheduleOptions   *Index[*ScheduleOptions]
	UDFTypes          *Index[*UDFType]

	Projects      *Index[*Project]
	WBS           *Index[*WbsNode]
	Tasks         *Index[*Task]
	Relationships *Index[*Relationship]
	Assignments   *Index[*ResourceAssignment]
	Memos         []*TaskMemo
}

// NewSchedule returns a schedule with every collection empty.
func NewSchedule(header parser.Header) *Schedule {
	return &Schedule{
		Header:            header,
		Accounts:          NewHierarchy[*Account](nil, nil),
		ActivityCodeTypes: NewIndex[*ActivityCodeType](),
		ActivityCodes:     NewHierarchy[*ActivityCode](nil, nil),
		Calendars:         NewIndex[*calendar.Calendar](),
		FinancialPeriods:  NewIndex[*FinancialPeriod](),
		NotebookTopics:    NewIndex[*NotebookTopic](),
		ProjectCodeTypes:  NewIndex[*ProjectCodeType](),
		ProjectCodes:      NewHierarchy[*ProjectCode](nil, nil),
		Resources:         NewHierarchy[*Resource](nil, nil),
		ResourceRates:     NewIndex[*ResourceRate](),
		ScheduleOptions:   NewIndex[*ScheduleOptions](),
		UDFTypes:          NewIndex[*UDFType](),
		Projects:          NewIndex[*Project](),
		WBS:               NewIndex[*WbsNode](),
		Tasks:             NewIndex[*Task](),
		Relationships:     NewIndex[*Relationship](),
		Assignments:       NewIndex[*ResourceAssignment](),
	}
}

// Project looks an exported project up by its short name.
func (s *Schedule) Project(shortName string) (*Project, bool) {
	for _, p := range s.Projects.All() {
		if p.ShortName == shortName {
			return p, true
		}
	}
	return nil, false
}

// ActivityCodesOf lists the activity code values of one type.
func (s *Schedule) ActivityCodesOf(t *ActivityCodeType) []*ActivityCode {
	var out []*ActivityCode
	for _, c := range s.ActivityCodes.All() {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// UDFCount is the number of user defined field values across projects,
// WBS nodes, tasks and resources.
func (s *Schedule) UDFCount() int {
	n := 0
	for _, p := range s.Projects.All() {
		n += len(p.UDFs)
	}
	for _, w := range s.WBS.All() {
		n += len(w.UDFs)
	}
	for _, t := range s.Tasks.All() {
		n += len(t.UDFs)
	}
	for _, r := range s.Resources.All() {
		n += len(r.UDFs)
	}
	return n
}
