package model

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for records and sessions.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatDate renders t as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateInterval is an inclusive range of calendar dates with Start <= End.
type DateInterval struct {
	Start time.Time
	End   time.Time
}

// SingleDay returns the interval covering only d.
func SingleDay(d time.Time) DateInterval {
	d = Day(d)
	return DateInterval{Start: d, End: d}
}

// NewInterval builds an interval, swapping the bounds if needed.
func NewInterval(start, end time.Time) DateInterval {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		start, end = end, start
	}
	return DateInterval{Start: start, End: end}
}

// Contains reports whether d falls inside the interval, bounds included.
func (iv DateInterval) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(iv.Start) && !d.After(iv.End)
}

// Overlaps reports whether the two intervals share at least one day.
func (iv DateInterval) Overlaps(o DateInterval) bool {
	return !o.Start.After(iv.End) && !o.End.Before(iv.Start)
}

// IsSingleDay reports whether the interval is exactly the day d.
func (iv DateInterval) IsSingleDay(d time.Time) bool {
	d = Day(d)
	return iv.Start.Equal(d) && iv.End.Equal(d)
}

// String renders the interval as "start ~ end".
func (iv DateInterval) String() string {
	return fmt.Sprintf("%s ~ %s", FormatDate(iv.Start), FormatDate(iv.End))
}
