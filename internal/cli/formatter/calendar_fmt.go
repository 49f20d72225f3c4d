package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/xerkit/internal/calendar"
)

// Workdays abbreviates the working days of the standard week, Sunday
// first.
func Workdays(c *calendar.Calendar) string {
	var days []string
	for _, d := range c.WorkWeek() {
		if d.IsWorkday() {
			days = append(days, d.Day.String()[:3])
		}
	}
	return strings.Join(days, " ")
}

// FormatCalendars renders one row per calendar.
func FormatCalendars(cals []*calendar.Calendar) string {
	headers := []string{"ID", "NAME", "TYPE", "WORKDAYS", "HRS/WEEK", "HOLIDAYS", "EXCEPTIONS"}
	rows := make([][]string, 0, len(cals))
	for _, c := range cals {
		name := c.Name
		if c.IsDefault {
			name += Dim(" (default)")
		}
		if err := c.Err(); err != nil {
			rows = append(rows, []string{c.ID, name, c.Type.Label(), StyleRed.Render(err.Error())})
			continue
		}
		rows = append(rows, []string{
			c.ID,
			name,
			c.Type.Label(),
			Workdays(c),
			FormatHours(c.WeekHours()),
			fmt.Sprint(len(c.HolidayList())),
			fmt.Sprint(len(c.Exceptions())),
		})
	}
	return RenderTable(headers, rows)
}

// FormatWorkdays lists the workdays between two dates with their hours.
func FormatWorkdays(c *calendar.Calendar, from, to time.Time) string {
	var rows [][]string
	var total float64
	for d := range c.Workdays(from, to) {
		day := c.Workday(d)
		total += day.Hours
		shifts := make([]string, len(day.Shifts))
		for i, s := range day.Shifts {
			shifts[i] = s.String()
		}
		rows = append(rows, []string{d.Format("Mon 2006-01-02"), FormatHours(day.Hours), Dim(strings.Join(shifts, " "))})
	}

	var b strings.Builder
	b.WriteString(Header(c.Name) + "\n")
	b.WriteString(RenderTable([]string{"DATE", "HOURS", "SHIFTS"}, rows))
	fmt.Fprintf(&b, "\n%s workdays, %s\n", Bold(fmt.Sprint(len(rows))), Bold(FormatHours(total)))
	return b.String()
}
