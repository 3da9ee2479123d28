package util

import "time"

// DayFormat is the calendar-date layout used by daily market endpoints.
const DayFormat = "2006-01-02"

// ParseDay parses a calendar date string. Returns (t, true) if it worked.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ForwardDays returns n consecutive calendar days strictly after last.
func ForwardDays(last time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = last.AddDate(0, 0, i+1)
	}
	return out
}
