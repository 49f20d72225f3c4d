package domain

import "time"

// firstDate returns the first non-nil date from ptrs.
func firstDate(ptrs ...*time.Time) (time.Time, bool) {
	for _, p := range ptrs {
		if p != nil {
			return *p, true
		}
	}
	return time.Time{}, false
}
