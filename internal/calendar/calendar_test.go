package calendar

import (
	"slices"
	"testing"
	"time"

	"github.com/alexanderramin/xerkit/internal/dates"
	"github.com/alexanderramin/xerkit/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jan(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func clock(h, m int) dates.Clock { return dates.NewClock(h, m) }

const (
	emptyDay    = "()()"
	standardDay = "()((0||0(s|08:00|f|12:00)())(0||1(s|13:00|f|17:00)()))"
)

// calendarData renders a clndr_data blob with the given day bodies
// (Sunday first) and trailing exception entries.
func calendarData(days [7]string, exceptions ...string) string {
	s := "(0||CalendarData()((0||DaysOfWeek()("
	for i, d := range days {
		s += "(0||" + string(rune('1'+i)) + d + ")"
	}
	s += "))(0||VIEW(ShowTotal|Y)())(0||Exceptions()("
	for i, e := range exceptions {
		s += "(0||" + string(rune('0'+i)) + e + ")"
	}
	return s + "))))"
}

func standardWeek() [7]string {
	return [7]string{emptyDay, standardDay, standardDay, standardDay, standardDay, standardDay, emptyDay}
}

func newStandard(t *testing.T) *Calendar {
	t.Helper()
	data := calendarData(standardWeek(),
		// Thu 2024-01-04 holiday
		"(d|45295)()",
		// Sat 2024-01-06 is already non-work
		"(d|45297)()",
		// Fri 2024-01-05, same as the standard pattern
		"(d|45296)((0||0(s|08:00|f|12:00)())(0||1(s|13:00|f|17:00)()))",
		// Sat 2024-01-06 worked in the morning
		"(d|45297)((0||0(s|08:00|f|12:00)()))",
	)
	cal, err := FromRow(parser.Row{
		"clndr_id":     "1",
		"clndr_name":   "Standard 5 Day",
		"clndr_type":   "CA_Base",
		"clndr_data":   data,
		"default_flag": "Y",
	})
	require.NoError(t, err)
	require.NoError(t, cal.Err())
	return cal
}

func TestWorkWeek(t *testing.T) {
	cal := newStandard(t)
	week := cal.WorkWeek()

	mon := week[time.Monday]
	assert.Equal(t, 8.0, mon.Hours)
	assert.Equal(t, clock(8, 0), mon.Start)
	assert.Equal(t, clock(17, 0), mon.Finish)
	assert.Equal(t, []Shift{{clock(8, 0), clock(12, 0)}, {clock(13, 0), clock(17, 0)}}, mon.Shifts)
	assert.True(t, mon.IsWorkday())

	assert.False(t, week[time.Sunday].IsWorkday())
	assert.False(t, week[time.Saturday].IsWorkday())
	assert.Equal(t, 40.0, cal.WeekHours())
}

func TestHolidaysAndExceptions(t *testing.T) {
	cal := newStandard(t)

	assert.Equal(t, []time.Time{jan(4)}, cal.HolidayList())

	ex := cal.Exceptions()
	require.Len(t, ex, 1)
	sat, ok := ex[jan(6)]
	require.True(t, ok)
	assert.Equal(t, time.Saturday, sat.Day)
	assert.Equal(t, 4.0, sat.Hours)
}

func TestIsWorkday(t *testing.T) {
	cal := newStandard(t)

	cases := []struct {
		date time.Time
		want bool
	}{
		{jan(2), true},
		{jan(4), false},
		{jan(6), true},
		{jan(7), false},
		{time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cal.IsWorkday(tc.date), tc.date.Format(time.DateOnly))
	}
}

func TestWorkdays_InclusiveAndOrderIndependent(t *testing.T) {
	cal := newStandard(t)
	want := []time.Time{jan(1), jan(2), jan(3), jan(5), jan(6)}

	assert.Equal(t, want, slices.Collect(cal.Workdays(jan(1), jan(7))))
	assert.Equal(t, want, slices.Collect(cal.Workdays(jan(7), jan(1))))
	assert.Equal(t, 5, cal.WorkdayCount(jan(1), jan(7)))

	seq := cal.Workdays(jan(1), jan(3))
	assert.Equal(t, slices.Collect(seq), slices.Collect(seq), "sequence must restart")
}

func TestHolidays(t *testing.T) {
	cal := newStandard(t)
	assert.Equal(t, []time.Time{jan(4)}, slices.Collect(cal.Holidays(jan(7), jan(1))))
	assert.Empty(t, slices.Collect(cal.Holidays(jan(8), jan(12))))
}

func TestHolidayNeverWorkday(t *testing.T) {
	cal := newStandard(t)
	for _, h := range cal.HolidayList() {
		assert.False(t, cal.IsWorkday(h))
	}
	for d := range cal.Exceptions() {
		assert.True(t, cal.IsWorkday(d))
	}
}

func TestWorkHours(t *testing.T) {
	cal := newStandard(t)

	cases := []struct {
		name       string
		date       time.Time
		start, end dates.Clock
		want       float64
	}{
		{"full day", jan(2), clock(8, 0), clock(17, 0), 8},
		{"clamped to span", jan(2), clock(6, 0), clock(20, 0), 8},
		{"late start", jan(2), clock(9, 0), clock(17, 0), 7},
		{"afternoon window", jan(2), clock(13, 30), clock(16, 0), 2.5},
		{"reversed bounds", jan(2), clock(16, 0), clock(13, 30), 2.5},
		{"over lunch", jan(2), clock(11, 0), clock(14, 0), 2},
		{"holiday", jan(4), clock(8, 0), clock(17, 0), 0},
		{"weekend", jan(7), clock(8, 0), clock(17, 0), 0},
		{"exception", jan(6), clock(9, 0), clock(17, 0), 3},
		{"partial minutes", jan(2), clock(8, 0), clock(8, 20), 0.33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, cal.WorkHours(tc.date, tc.start, tc.end), 1e-9)
		})
	}
}

func TestWorkHours_ShiftInsideWindowCounts(t *testing.T) {
	day := "()((0||0(s|06:00|f|10:00)())(0||1(s|11:00|f|14:00)())(0||2(s|15:00|f|18:00)()))"
	cal := &Calendar{ID: "3", Type: TypeGlobal, Data: calendarData([7]string{emptyDay, day, day, day, day, day, emptyDay})}

	assert.Equal(t, 10.0, cal.WorkWeek()[time.Monday].Hours)
	assert.InDelta(t, 6.0, cal.WorkHours(jan(1), clock(8, 0), clock(16, 0)), 1e-9)
}

func TestBaseCalendarHolidayFallback(t *testing.T) {
	base := newStandard(t)
	rsrc := &Calendar{ID: "2", BaseID: "1", Type: TypeResource, Data: calendarData(standardWeek()), Base: base}

	assert.Empty(t, rsrc.HolidayList())
	assert.False(t, rsrc.IsWorkday(jan(4)))
	assert.Equal(t, []time.Time{jan(4)}, slices.Collect(rsrc.Holidays(jan(1), jan(7))))
	assert.Equal(t, 0.0, rsrc.WorkHours(jan(4), clock(8, 0), clock(17, 0)))
}

func TestFromRow_UnknownType(t *testing.T) {
	_, err := FromRow(parser.Row{"clndr_id": "9", "clndr_type": "CA_Other"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown calendar type")
}

func TestEmptyCalendarData(t *testing.T) {
	cal := &Calendar{ID: "4", Type: TypeGlobal}
	assert.NoError(t, cal.Err())
	assert.False(t, cal.IsWorkday(jan(2)))
	assert.Equal(t, 0.0, cal.WeekHours())
	assert.Empty(t, slices.Collect(cal.Workdays(jan(1), jan(31))))
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Global", TypeGlobal.Label())
	assert.Equal(t, "Resource", TypeResource.Label())
	assert.Equal(t, "Project", TypeProject.Label())
}
