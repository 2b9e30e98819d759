package period

import (
	"fmt"
	"time"
)

// Preset names a UI date filter.
type Preset string

const (
	Today     Preset = "today"
	Yesterday Preset = "yesterday"
	Week      Preset = "week"
	Month     Preset = "month"
	Custom    Preset = "range"
)

// Resolver turns presets into concrete ranges relative to "now" in a fixed
// location.
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// NewResolver creates a Resolver for the given location. A nil location means UTC.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{loc: loc, now: time.Now}
}

// WithClock overrides the clock used to compute "today". Intended for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Today returns the current calendar day in the resolver's location.
func (r *Resolver) Today() time.Time {
	return Day(r.now().In(r.loc))
}

// Resolve converts a preset into a Range. For Custom, start and end must be
// ISO-8601 days. An empty preset is treated as Today.
func (r *Resolver) Resolve(p Preset, start, end string) (Range, error) {
	today := r.Today()

	switch p {
	case "", Today:
		return Single(today), nil
	case Yesterday:
		return Single(today.AddDate(0, 0, -1)), nil
	case Week:
		// Sunday through Saturday of the current week.
		first := today.AddDate(0, 0, -int(today.Weekday()))
		return Range{Start: first, End: first.AddDate(0, 0, 6)}, nil
	case Month:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: first, End: first.AddDate(0, 1, -1)}, nil
	case Custom:
		s, err := ParseDay(start)
		if err != nil {
			return Range{}, err
		}
		e, err := ParseDay(end)
		if err != nil {
			return Range{}, err
		}
		return NewRange(s, e)
	default:
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownPreset, string(p))
	}
}
