package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the canonical wire and storage format for appointment dates.
const DateLayout = "2006-01-02"

// Clock abstracts "today" so that booking-window checks and the no-show sweep
// can be driven deterministically in tests.
type Clock interface {
	Today() time.Time
}

// SystemClock returns the current UTC calendar day.
type SystemClock struct{}

func (SystemClock) Today() time.Time {
	return Day(time.Now().UTC())
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day(t), nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the whole number of calendar days from "from" to "to".
// Negative when "to" precedes "from".
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

func AddDays(t time.Time, days int) time.Time {
	return Day(t).AddDate(0, 0, days)
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MaxBookingDate is the latest date an appointment may target relative to the
// reference date: exactly one calendar year ahead, inclusive.
func MaxBookingDate(reference time.Time) time.Time {
	return Day(reference).AddDate(1, 0, 0)
}

// WithinBookingWindow reports whether date lies in [reference, reference+1y],
// both bounds inclusive.
func WithinBookingWindow(reference, date time.Time) bool {
	d := Day(date)
	ref := Day(reference)
	return !d.Before(ref) && !d.After(MaxBookingDate(ref))
}
