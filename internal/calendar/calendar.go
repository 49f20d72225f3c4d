package calendar

import (
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/xerkit/internal/parser"
)

// Type is the scope of a calendar.
type Type string

const (
	TypeGlobal   Type = "CA_Base"
	TypeResource Type = "CA_Rsrc"
	TypeProject  Type = "CA_Project"
)

// Label returns the display name of the calendar type.
func (t Type) Label() string {
	switch t {
	case TypeGlobal:
		return "Global"
	case TypeResource:
		return "Resource"
	case TypeProject:
		return "Project"
	default:
		return string(t)
	}
}

// Calendar is a working-time calendar. The shift model is parsed from Data
// on first use and never changes afterwards.
type Calendar struct {
	ID          string
	BaseID      string
	Name        string
	Data        string
	IsDefault   bool
	LastChanged *time.Time
	ProjectID   string
	Type        Type

	// Nominal hour counts as stored in the export.
	DayHourCount  float64
	WeekHourCount float64
	YearHourCount float64

	// Base is the calendar this one inherits holidays from, if any.
	Base *Calendar

	once  sync.Once
	model *model
	err   error
}

// FromRow builds a calendar from a CALENDAR row.
func FromRow(row parser.Row) (*Calendar, error) {
	f := parser.NewFields("CALENDAR", row)
	c := &Calendar{
		ID:            f.Str("clndr_id"),
		BaseID:        f.Str("base_clndr_id"),
		Name:          f.Str("clndr_name"),
		Data:          f.Str("clndr_data"),
		IsDefault:     f.Flag("default_flag"),
		LastChanged:   f.OptDateTime("last_chng_date"),
		ProjectID:     f.Str("proj_id"),
		Type:          Type(f.Str("clndr_type")),
		DayHourCount:  f.FloatOrZero("day_hr_cnt"),
		WeekHourCount: f.FloatOrZero("week_hr_cnt"),
		YearHourCount: f.FloatOrZero("year_hr_cnt"),
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("calendar %s: %w", c.ID, err)
	}
	switch c.Type {
	case TypeGlobal, TypeResource, TypeProject:
	default:
		return nil, fmt.Errorf("calendar %s: unknown calendar type %q", c.ID, c.Type)
	}
	return c, nil
}

func (c *Calendar) String() string {
	return c.Name
}

func (c *Calendar) load() *model {
	c.once.Do(func() {
		c.model, c.err = parseModel(c.Data)
		if c.err != nil {
			c.model, _ = parseModel("")
		}
	})
	return c.model
}

// Err reports a malformed calendar data blob. A calendar that fails to
// parse behaves as one with no working time.
func (c *Calendar) Err() error {
	c.load()
	return c.err
}
