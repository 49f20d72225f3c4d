package calendar

import (
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/alexanderramin/xerkit/internal/dates"
)

// WorkWeek returns the standard pattern for each day, indexed by time.Weekday.
func (c *Calendar) WorkWeek() [7]Weekday {
	return c.load().week
}

// HolidayList returns the non-work dates that fall on standard workdays,
// in ascending order.
func (c *Calendar) HolidayList() []time.Time {
	return slices.Clone(c.load().holidays)
}

// Exceptions returns the one-off working patterns keyed by date.
func (c *Calendar) Exceptions() map[time.Time]Weekday {
	return maps.Clone(c.load().exceptions)
}

// IsHoliday reports whether date is a listed non-work date.
func (c *Calendar) IsHoliday(date time.Time) bool {
	_, ok := c.load().holidaySet[dates.CleanDate(date)]
	return ok
}

// Workday returns the pattern in effect on date, exception first.
func (c *Calendar) Workday(date time.Time) Weekday {
	m := c.load()
	date = dates.CleanDate(date)
	if ex, ok := m.exceptions[date]; ok {
		return ex
	}
	return m.week[date.Weekday()]
}

// IsWorkday reports whether date has working time. Holidays never do; an
// exception always does. A calendar without holidays of its own falls back
// to the holidays of its base calendar.
func (c *Calendar) IsWorkday(date time.Time) bool {
	m := c.load()
	date = dates.CleanDate(date)
	if c.isInheritedHoliday(date) {
		return false
	}
	if _, ok := m.exceptions[date]; ok {
		return true
	}
	return m.week[date.Weekday()].IsWorkday()
}

// Holidays yields the holidays between start and end inclusive. The bounds
// may be given in either order.
func (c *Calendar) Holidays(start, end time.Time) iter.Seq[time.Time] {
	return c.days(start, end, c.isInheritedHoliday)
}

// Workdays yields the workdays between start and end inclusive. The bounds
// may be given in either order.
func (c *Calendar) Workdays(start, end time.Time) iter.Seq[time.Time] {
	return c.days(start, end, c.IsWorkday)
}

// WorkdayCount counts the workdays between start and end inclusive.
func (c *Calendar) WorkdayCount(start, end time.Time) int {
	n := 0
	for range c.Workdays(start, end) {
		n++
	}
	return n
}

// WeekHours sums the standard weekly working hours.
func (c *Calendar) WeekHours() float64 {
	var total float64
	for _, d := range c.load().week {
		total += d.Hours
	}
	return dates.Round(total, 2)
}

func (c *Calendar) isInheritedHoliday(d time.Time) bool {
	if len(c.load().holidays) == 0 && c.Base != nil && c.Base != c {
		return c.Base.IsHoliday(d)
	}
	return c.IsHoliday(d)
}

func (c *Calendar) days(start, end time.Time, keep func(time.Time) bool) iter.Seq[time.Time] {
	first, last := dates.CleanDate(start), dates.CleanDate(end)
	if last.Before(first) {
		first, last = last, first
	}
	return func(yield func(time.Time) bool) {
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			if keep(d) && !yield(d) {
				return
			}
		}
	}
}

// WorkHours returns the working hours on date between the clock times
// start and end, rounded to three decimals. Reversed bounds are reordered
// and both are clamped to the day's working span.
func (c *Calendar) WorkHours(date time.Time, start, end dates.Clock) float64 {
	if !c.IsWorkday(date) {
		return 0
	}
	day := c.Workday(date)
	if len(day.Shifts) == 0 {
		return 0
	}

	if start > end {
		start, end = end, start
	}
	start = max(start, day.Start)
	end = min(end, day.Finish)
	if start >= end {
		return 0
	}
	if start == day.Start && end == day.Finish {
		return dates.Round(day.Hours, 3)
	}

	hours := day.Hours
	for _, s := range day.Shifts {
		switch {
		case start >= s.Start && start <= s.Finish:
			hours -= dates.HoursBetween(s.Start, start)
			if end < s.Finish {
				hours -= dates.HoursBetween(end, s.Finish)
			}
		case end >= s.Start && end <= s.Finish:
			hours -= dates.HoursBetween(end, s.Finish)
		case end < s.Start || start > s.Finish:
			hours -= s.Hours()
		}
	}
	return dates.Round(max(hours, 0), 3)
}
