package domain

import (
	"maps"
	"slices"
	"time"

	"github.com/alexanderramin/xerkit/internal/dates"
)

// RemainingHoursPerDay spreads the task's remaining hours over the
// workdays of its remaining window, or of its remaining late window when
// late is true. Keys are midnight dates; days without working time in the
// window are left out. The values always add up to the remaining duration
// hours at 2 decimals. When the calendar profile disagrees with the stated
// remaining hours it is scaled to match, so inconsistent exports can put
// more hours on a day than its calendar allows.
//
// The result is empty for completed tasks, milestones, tasks that have
// not been scheduled, tasks without a calendar and zero remaining hours.
func (t *Task) RemainingHoursPerDay(late bool) map[time.Time]float64 {
	out := make(map[time.Time]float64)
	remaining := t.RemainingDurationHours()
	if remaining == 0 || t.RestartDate == nil || t.Status.IsCompleted() ||
		t.Type.IsMilestone() || t.Calendar == nil {
		return out
	}

	start, finish := t.RestartDate, t.ReendDate
	if late {
		start, finish = t.RemLateStart, t.RemLateFinish
	}
	if start == nil || finish == nil {
		return out
	}
	s, e := *start, *finish
	if e.Before(s) {
		s, e = e, s
	}
	startDay, finishDay := dates.CleanDate(s), dates.CleanDate(e)

	if startDay.Equal(finishDay) {
		out[startDay] = t.Calendar.WorkHours(startDay, dates.ClockOf(s), dates.ClockOf(e))
		return reconcile(out, startDay, remaining)
	}

	for day := range t.Calendar.Workdays(startDay, finishDay) {
		wd := t.Calendar.Workday(day)
		var hours float64
		switch {
		case day.Equal(startDay):
			hours = t.Calendar.WorkHours(day, dates.ClockOf(s), wd.Finish)
		case day.Equal(finishDay):
			hours = t.Calendar.WorkHours(day, wd.Start, dates.ClockOf(e))
		default:
			hours = wd.Hours
		}
		if hours > 0 {
			out[day] = hours
		}
	}
	return reconcile(out, startDay, remaining)
}

// reconcile scales profile so that its values sum to target at 2
// decimals. The largest day absorbs the rounding residual. An empty or
// zero profile puts everything on fallback.
func reconcile(profile map[time.Time]float64, fallback time.Time, target float64) map[time.Time]float64 {
	target = dates.Round(target, 2)
	days := slices.SortedFunc(maps.Keys(profile), time.Time.Compare)

	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = profile[d]
	}
	total := dates.Sum(2, values...)
	if total == target {
		return profile
	}
	if total == 0 {
		return map[time.Time]float64{fallback: target}
	}

	out := make(map[time.Time]float64, len(days))
	var assigned float64
	largest := days[0]
	for _, d := range days {
		v := dates.Round(profile[d]*target/total, 2)
		out[d] = v
		assigned = dates.Sum(2, assigned, v)
		if v >= out[largest] {
			largest = d
		}
	}
	out[largest] = dates.Sum(2, out[largest], target, -assigned)
	return out
}
