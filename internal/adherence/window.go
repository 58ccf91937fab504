// Package adherence holds the pure computations of the training adherence
// and metrics engine: calendar window resolution, schedule grid building,
// streak calculation and tonnage aggregation. Nothing in this package
// performs I/O; callers fetch the data and feed it in.
package adherence

import "time"

// Period selects the aggregation window for tonnage queries.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Window is an inclusive range of calendar dates. Start and End are UTC
// midnights standing in for plain dates; the timezone only matters for
// deciding which calendar date "now" falls on.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date d (UTC midnight) lies in the
// window.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// DateOf truncates an instant to its calendar date, represented as UTC
// midnight. The instant's own location decides the date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into its UTC-midnight calendar
// date representation.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// ResolveWindow computes the calendar-date window for the given IANA
// timezone and period, evaluated at the instant now. An empty or invalid
// timezone falls back to defaultTZ (and then to UTC); an unrecognized
// period falls back to a trailing 7-day window. The result depends only on
// (tz, period, now), never on the server's local timezone.
//
// Week windows start on the most recent Monday: Sunday counts as day 7 of
// the prior week. All windows are bounded by [start, today] inclusive.
func ResolveWindow(tz string, period Period, now time.Time, defaultTZ string) Window {
	loc := loadLocation(tz, defaultTZ)
	local := now.In(loc)
	today := DateOf(local)

	var start time.Time
	switch period {
	case PeriodDay:
		start = today
	case PeriodWeek:
		daysFromMonday := int(local.Weekday()) - 1
		if local.Weekday() == time.Sunday {
			daysFromMonday = 6
		}
		start = today.AddDate(0, 0, -daysFromMonday)
	case PeriodMonth:
		start = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodYear:
		start = time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		start = today.AddDate(0, 0, -6)
	}

	return Window{Start: start, End: today}
}

func loadLocation(tz, defaultTZ string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	if defaultTZ != "" {
		if loc, err := time.LoadLocation(defaultTZ); err == nil {
			return loc
		}
	}
	return time.UTC
}
