package dateutil

import "time"

// DateLayout is the layout of the date columns.
const DateLayout = "2006-01-02"

// Date formats t as a UTC calendar date.
func Date(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DaysBefore returns the UTC date n days before t.
func DaysBefore(t time.Time, n int) string {
	return Date(t.UTC().AddDate(0, 0, -n))
}

// StartOfDay returns the midnight of t in UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextHour returns the first time after now whose UTC hour equals hour and
// whose minutes and seconds are zero.
func NextHour(now time.Time, hour int) time.Time {
	next := StartOfDay(now).Add(time.Duration(hour) * time.Hour)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}
