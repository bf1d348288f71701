package temporal

import "time"

// Timeframe names a calendar window for segment analysis, evaluated
// against a caller-supplied reference time.
type Timeframe int

const (
	All Timeframe = iota
	LastWeek
	ThisMonth
	LastMonth
	ThisQuarter
	LastQuarter
	LastYear
)

func (tf Timeframe) String() string {
	switch tf {
	case All:
		return "all"
	case LastWeek:
		return "last_week"
	case ThisMonth:
		return "this_month"
	case LastMonth:
		return "last_month"
	case ThisQuarter:
		return "this_quarter"
	case LastQuarter:
		return "last_quarter"
	case LastYear:
		return "last_year"
	}
	return "all"
}

// ParseTimeframe reads the snake_case form used in flags and query
// parameters. Blank means All.
func ParseTimeframe(s string) (Timeframe, bool) {
	switch s {
	case "", "all":
		return All, true
	case "last_week":
		return LastWeek, true
	case "this_month":
		return ThisMonth, true
	case "last_month":
		return LastMonth, true
	case "this_quarter":
		return ThisQuarter, true
	case "last_quarter":
		return LastQuarter, true
	case "last_year":
		return LastYear, true
	}
	return All, false
}

// Bounds resolves the timeframe to an inclusive window relative to now.
// Completed periods close at 23:59:59 on their final day; running
// periods close at now. Last week is the most recent complete Monday to
// Sunday week.
func (tf Timeframe) Bounds(now time.Time) Window {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch tf {
	case LastWeek:
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		thisMonday := today.AddDate(0, 0, -daysSinceMonday)
		start := thisMonday.AddDate(0, 0, -7)
		return Window{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	case ThisMonth:
		return Window{Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), End: now}
	case LastMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0)
		return Window{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}
	case ThisQuarter:
		return Window{Start: quarterStart(now), End: now}
	case LastQuarter:
		start := quarterStart(now).AddDate(0, -3, 0)
		return Window{Start: start, End: endOfDay(start.AddDate(0, 3, -1))}
	case LastYear:
		start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: endOfDay(time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, loc))}
	}
	return Window{}
}

func quarterStart(now time.Time) time.Time {
	qm := time.Month((int(now.Month())-1)/3*3 + 1)
	return time.Date(now.Year(), qm, 1, 0, 0, 0, 0, now.Location())
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())
}
