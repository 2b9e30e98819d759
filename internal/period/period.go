// Package period handles calendar days and the inclusive day ranges that
// leaderboards are computed over.
package period

import (
	"errors"
	"fmt"
	"time"
)

// DayLayout is the ISO-8601 calendar date layout used on the wire and as cache keys.
const DayLayout = "2006-01-02"

// ErrInvalidDay is returned when a day string cannot be parsed.
var ErrInvalidDay = errors.New("invalid day")

// ErrInvertedRange is returned when a range starts after it ends.
var ErrInvertedRange = errors.New("start date must not be after end date")

// ErrRangeTooLong is returned when a range spans more days than allowed.
var ErrRangeTooLong = errors.New("date range too long")

// ErrUnknownPreset is returned for an unrecognised period name.
var ErrUnknownPreset = errors.New("unknown period")

// Day truncates t to its calendar date in t's location and returns it as
// midnight UTC. All days in this module are represented this way.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses an ISO-8601 calendar date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return t, nil
}

// FormatDay renders a day as an ISO-8601 calendar date.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange builds a Range from two days, normalising both to midnight UTC.
func NewRange(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if r.Start.After(r.End) {
		return Range{}, ErrInvertedRange
	}
	return r, nil
}

// Single returns the one-day range containing day.
func Single(day time.Time) Range {
	d := Day(day)
	return Range{Start: d, End: d}
}

// Len returns the number of days in the range.
func (r Range) Len() int {
	if r.Start.After(r.End) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Days enumerates every day of the range in ascending order.
func (r Range) Days() []time.Time {
	days := make([]time.Time, 0, r.Len())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether day falls inside the range.
func (r Range) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Limit returns ErrRangeTooLong when the range exceeds maxDays. A
// non-positive maxDays disables the check.
func (r Range) Limit(maxDays int) error {
	if maxDays > 0 && r.Len() > maxDays {
		return fmt.Errorf("%w: %d days, maximum is %d", ErrRangeTooLong, r.Len(), maxDays)
	}
	return nil
}

func (r Range) String() string {
	if r.Start.Equal(r.End) {
		return FormatDay(r.Start)
	}
	return FormatDay(r.Start) + ".." + FormatDay(r.End)
}
