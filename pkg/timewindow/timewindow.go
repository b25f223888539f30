// Package timewindow contains the interval arithmetic shared by slot generation
// and slot validation: half-open intervals, open overlap, and conversion of a
// provider-local wall-clock time on a calendar date into an absolute instant.
package timewindow

import (
	"errors"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/pkg/types"
)

// ErrInvalidInterval is returned when an interval does not satisfy Start < End.
var ErrInvalidInterval = errors.New("timewindow: invalid interval")

// Interval is a half-open time interval [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// New returns the interval [start, start+minutes).
func New(start time.Time, minutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

// Between returns [start, end) or ErrInvalidInterval when start is not before end.
func Between(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// IsValid reports whether Start < End.
func (i Interval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether the intervals share at least one instant.
// Touching endpoints do not overlap: a.Start < b.End && b.Start < a.End.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies fully inside i.
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// DateOf returns the calendar date (year, month, day) of t interpreted as a
// provider-local date, at local midnight in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayBounds returns the provider-local day containing the calendar date of
// date: [local midnight, next local midnight). Around DST transitions the span
// is 23 or 25 hours long.
func DayBounds(date time.Time, loc *time.Location) Interval {
	start := DateOf(date, loc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// AtWallClock returns the instant at which the wall clock in loc shows
// clock on the calendar date of date. "24:00:00" maps to the next midnight.
// ok is false when that wall-clock time does not exist in loc, e.g. inside the
// hour skipped when clocks spring forward; the returned instant is then the
// normalized one chosen by time.Date.
func AtWallClock(date time.Time, clock types.TimeString, loc *time.Location) (t time.Time, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	h, min, sec := clock.Clock()
	if h == 24 {
		h, d = 0, d+1
	}
	t = time.Date(y, m, d, h, min, sec, 0, loc)

	gotH, gotMin, gotSec := t.Clock()
	return t, gotH == h && gotMin == min && gotSec == sec
}

// WallClockSpan converts a wall-clock range on the calendar date of date into
// an absolute interval.
func WallClockSpan(date time.Time, start, end types.TimeString, loc *time.Location) Interval {
	from, _ := AtWallClock(date, start, loc)
	to, _ := AtWallClock(date, end, loc)
	return Interval{Start: from, End: to}
}

// LocalWeekday returns the weekday of instant t in loc.
func LocalWeekday(t time.Time, loc *time.Location) time.Weekday {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Weekday()
}
