package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a time of day expressed in minutes past midnight.
type Clock int

const (
	Midnight Clock = 0
	// EndOfDay is 24:00, used as an open upper bound.
	EndOfDay Clock = 24 * 60
)

// NewClock builds a Clock from hours and minutes.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses an "H:MM" or "HH:MM" token.
func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid clock hour %q: %w", s, err)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("invalid clock minute %q: %w", s, err)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return NewClock(hour, minute), nil
}

// ClockOf returns the time-of-day component of t.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On places the clock time on the date of d.
func (c Clock) On(d time.Time) time.Time {
	return CleanDate(d).Add(time.Duration(c) * time.Minute)
}

// HoursBetween returns the absolute difference between two clock times in
// hours, rounded to two decimals.
func HoursBetween(a, b Clock) float64 {
	diff := int(b - a)
	if diff < 0 {
		diff = -diff
	}
	return Round(float64(diff)/60, 2)
}
