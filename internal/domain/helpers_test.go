package domain

import (
	"testing"
	"time"

	"github.com/alexanderramin/xerkit/internal/calendar"
	"github.com/alexanderramin/xerkit/internal/dates"
	"github.com/alexanderramin/xerkit/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newCalendar(t *testing.T, day string) *calendar.Calendar {
	t.Helper()
	cal, err := calendar.FromRow(testutil.CalendarRow("1", "Standard", testutil.CalendarData(testutil.Week(day))))
	require.NoError(t, err)
	return cal
}

func newWBS(t *testing.T, id, parent, code string) *WbsNode {
	t.Helper()
	w, err := NewWbsNode(testutil.WBSRow(id, "100", parent, code, "Node "+code))
	require.NoError(t, err)
	return w
}

func newTask(t *testing.T, cal *calendar.Calendar, wbs *WbsNode, opts ...testutil.RowOption) *Task {
	t.Helper()
	task, err := NewTask(testutil.TaskRow("300", "100", wbs.ID, "A1000", opts...), cal, wbs)
	require.NoError(t, err)
	return task
}

func taskWithCode(t *testing.T, id, code string, wbs *WbsNode, opts ...testutil.RowOption) *Task {
	t.Helper()
	task, err := NewTask(testutil.TaskRow(id, "100", wbs.ID, code, opts...), nil, wbs)
	require.NoError(t, err)
	return task
}

func ts(s string) time.Time {
	v, err := dates.ParseDateTime(s)
	if err != nil {
		panic(err)
	}
	return v
}

// byDay keys a per-day map by its date text.
func byDay(m map[time.Time]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k.Format(dates.DateLayout)] = v
	}
	return out
}
