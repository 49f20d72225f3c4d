package dates

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateTimeLayout is the timestamp layout used by every date column in an export.
	DateTimeLayout = "2006-01-02 15:04"
	// DateLayout is the layout of the export date in the file header.
	DateLayout = "2006-01-02"
)

// excelEpoch is day zero of the spreadsheet serial date system used by
// calendar holiday and exception entries.
var excelEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

// CleanDate truncates t to midnight, keeping its location.
func CleanDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CleanDates truncates every value to midnight.
func CleanDates(ts ...time.Time) []time.Time {
	out := make([]time.Time, len(ts))
	for i, t := range ts {
		out[i] = CleanDate(t)
	}
	return out
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return CleanDate(a).Equal(CleanDate(b))
}

// ExcelDate converts a spreadsheet serial day number to a date.
// Serial 60 is the fictitious 1900-02-29, so every ordinal from 60 on is
// shifted back one day.
func ExcelDate(ordinal int) (time.Time, error) {
	if ordinal < 0 {
		return time.Time{}, fmt.Errorf("excel date ordinal must be non-negative, got %d", ordinal)
	}
	if ordinal >= 60 {
		ordinal--
	}
	return excelEpoch.AddDate(0, 0, ordinal), nil
}

// ParseDateTime parses a "YYYY-MM-DD HH:MM" value in UTC.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD HH:MM): %w", s, err)
	}
	return t, nil
}

// ParseDate parses a "YYYY-MM-DD" value in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// DaysBetween returns the whole number of days from a to b, rounded down.
func DaysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// Round rounds v half away from zero to the given number of decimal places.
// Rounding goes through the shortest decimal representation of v, so values
// such as 2.675 round to 2.68.
func Round(v float64, places int) float64 {
	return decimal.NewFromFloat(v).Round(int32(places)).InexactFloat64()
}

// Sum adds values in decimal arithmetic and rounds the total.
func Sum(places int, values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(int32(places)).InexactFloat64()
}
