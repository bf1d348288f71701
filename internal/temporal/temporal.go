// Package temporal parses the date strings found in workbook exports and
// assigns them to calendar buckets. Parsing failures are ordinary data
// quality, reported as ok=false and skipped by callers.
package temporal

import (
	"strings"
	"time"
)

// DateKey is the canonical day form used to key every daily map.
const DateKey = "2006-01-02"

// layouts, tried in order. Exports mix ISO timestamps with day-first
// short dates; when a value fits more than one layout the earlier one
// wins, so keep ISO forms first.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006",
}

// Parse reads a raw cell value as a date or timestamp. ok is false for
// blanks and anything no layout accepts.
func Parse(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Key formats t as its daily map key.
func Key(t time.Time) string {
	return t.Format(DateKey)
}

// DayName returns the weekday name of t.
func DayName(t time.Time) string {
	return t.Weekday().String()
}

// Bucket is one named slice of the 24-hour day, [From,To) in whole hours.
type Bucket struct {
	Name string
	From int
	To   int
}

// Buckets is the fixed partition of the day used by time-of-day
// profiles. Boundaries are configuration, not derived from data.
var Buckets = []Bucket{
	{Name: "Early Morning", From: 0, To: 9},
	{Name: "Morning", From: 9, To: 12},
	{Name: "Afternoon", From: 12, To: 15},
	{Name: "Late Afternoon", From: 15, To: 18},
	{Name: "Evening", From: 18, To: 24},
}

// BucketName returns the bucket t's clock time falls in.
func BucketName(t time.Time) string {
	h := t.Hour()
	for _, b := range Buckets {
		if h >= b.From && h < b.To {
			return b.Name
		}
	}
	return Buckets[len(Buckets)-1].Name
}

// Midnight reports whether t carries no clock time. Date-only layouts
// parse to exactly midnight, so an all-midnight dataset has no genuine
// time-of-day information.
func Midnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0
}

// Window is an inclusive date range. A zero Start or End leaves that
// side unbounded; the zero Window contains everything.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// Bounded reports whether either side of the window is set.
func (w Window) Bounded() bool {
	return !w.Start.IsZero() || !w.End.IsZero()
}
