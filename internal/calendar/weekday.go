package calendar

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/alexanderramin/xerkit/internal/dates"
	"github.com/dlclark/regexp2"
)

var (
	weekdayPattern   = regexp2.MustCompile(`(?<=0\|\|)[1-7]\(\).+?(?=\(0\|\|[1-7]\(\)|\(0\|\|VIEW|\(0\|\|Exceptions|\)$)`, regexp2.None)
	clockPattern     = regexp2.MustCompile(`[0-2]?\d:[0-5]\d`, regexp2.None)
	holidayPattern   = regexp2.MustCompile(`(?<=d\|)\d{5}(?=\)\(\))`, regexp2.None)
	exceptionPattern = regexp2.MustCompile(`(?<=d\|)\d{5}\)\([^\)]{1}.+?\(\)\)\)`, regexp2.None)
)

// Shift is one working period within a day.
type Shift struct {
	Start  dates.Clock
	Finish dates.Clock
}

// Hours is the shift length rounded to two decimals.
func (s Shift) Hours() float64 {
	return dates.HoursBetween(s.Start, s.Finish)
}

func (s Shift) String() string {
	return s.Start.String() + "-" + s.Finish.String()
}

// Weekday is the working pattern of one day.
type Weekday struct {
	Day    time.Weekday
	Shifts []Shift
	Hours  float64
	Start  dates.Clock
	Finish dates.Clock
}

func newWeekday(day time.Weekday, shifts []Shift) Weekday {
	w := Weekday{Day: day, Shifts: shifts}
	if len(shifts) == 0 {
		return w
	}
	w.Start, w.Finish = shifts[0].Start, shifts[0].Finish
	var total float64
	for _, s := range shifts {
		total += s.Hours()
		w.Start = min(w.Start, s.Start)
		w.Finish = max(w.Finish, s.Finish)
	}
	w.Hours = dates.Round(total, 2)
	return w
}

// IsWorkday reports whether the day has any working hours.
func (w Weekday) IsWorkday() bool {
	return w.Hours != 0
}

// Equal compares the working pattern of two days.
func (w Weekday) Equal(o Weekday) bool {
	return w.Day == o.Day && w.Hours == o.Hours && w.Start == o.Start &&
		w.Finish == o.Finish && slices.Equal(w.Shifts, o.Shifts)
}

// samePattern compares shifts only, ignoring the day.
func (w Weekday) samePattern(o Weekday) bool {
	return slices.Equal(w.Shifts, o.Shifts)
}

func (w Weekday) String() string {
	return fmt.Sprintf("%s %.2fh %v", w.Day, w.Hours, w.Shifts)
}

// model is the parsed form of a calendar data blob.
type model struct {
	week       [7]Weekday
	holidays   []time.Time
	holidaySet map[time.Time]struct{}
	exceptions map[time.Time]Weekday
}

func parseModel(data string) (*model, error) {
	m := &model{
		holidaySet: make(map[time.Time]struct{}),
		exceptions: make(map[time.Time]Weekday),
	}
	for i := range m.week {
		m.week[i] = Weekday{Day: time.Weekday(i)}
	}

	days, err := findAll(weekdayPattern, data)
	if err != nil {
		return nil, fmt.Errorf("scanning weekdays: %w", err)
	}
	for _, d := range days {
		// 1 is Sunday
		idx := int(d[0]-'0') - 1
		shifts, err := parseShifts(d)
		if err != nil {
			return nil, err
		}
		m.week[idx] = newWeekday(time.Weekday(idx), shifts)
	}

	holidays, err := findAll(holidayPattern, data)
	if err != nil {
		return nil, fmt.Errorf("scanning holidays: %w", err)
	}
	for _, h := range holidays {
		date, err := ordinalDate(h)
		if err != nil {
			return nil, err
		}
		if !m.week[date.Weekday()].IsWorkday() {
			continue
		}
		if _, dup := m.holidaySet[date]; dup {
			continue
		}
		m.holidaySet[date] = struct{}{}
		m.holidays = append(m.holidays, date)
	}
	slices.SortFunc(m.holidays, func(a, b time.Time) int { return a.Compare(b) })

	exceptions, err := findAll(exceptionPattern, data)
	if err != nil {
		return nil, fmt.Errorf("scanning exceptions: %w", err)
	}
	for _, e := range exceptions {
		date, err := ordinalDate(e[:5])
		if err != nil {
			return nil, err
		}
		shifts, err := parseShifts(e[5:])
		if err != nil {
			return nil, err
		}
		day := newWeekday(date.Weekday(), shifts)
		if day.samePattern(m.week[date.Weekday()]) {
			continue
		}
		m.exceptions[date] = day
	}
	return m, nil
}

// parseShifts collects every clock token in s, sorts them and pairs them
// into start/finish shifts.
func parseShifts(s string) ([]Shift, error) {
	tokens, err := findAll(clockPattern, s)
	if err != nil {
		return nil, fmt.Errorf("scanning shift times: %w", err)
	}
	clocks := make([]dates.Clock, 0, len(tokens))
	for _, tok := range tokens {
		c, err := dates.ParseClock(tok)
		if err != nil {
			return nil, err
		}
		clocks = append(clocks, c)
	}
	slices.Sort(clocks)

	shifts := make([]Shift, 0, len(clocks)/2)
	for i := 0; i+1 < len(clocks); i += 2 {
		shifts = append(shifts, Shift{Start: clocks[i], Finish: clocks[i+1]})
	}
	return shifts, nil
}

func ordinalDate(s string) (time.Time, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date ordinal %q: %w", s, err)
	}
	return dates.ExcelDate(n)
}

func findAll(re *regexp2.Regexp, s string) ([]string, error) {
	var out []string
	m, err := re.FindStringMatch(s)
	for m != nil && err == nil {
		out = append(out, m.String())
		m, err = re.FindNextMatch(m)
	}
	return out, err
}
