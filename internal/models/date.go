package models

import "time"

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// CalendarDate truncates t to its calendar date in t's own location and
// returns that date at midnight UTC, so equal dates compare and key equally
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(t), nil
}
