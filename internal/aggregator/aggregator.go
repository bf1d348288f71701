// Package aggregator folds raw record collections into per-agent,
// per-day activity counts. All functions are pure: inputs are never
// mutated and every call returns fresh maps.
package aggregator

import (
	"strconv"
	"strings"
	"time"

	"sales-insights-go/internal/temporal"
	"sales-insights-go/internal/types"
)

// Counts holds one agent-day's activity. Rates are derived on demand and
// never stored.
type Counts struct {
	Trips        int `json:"trips"`
	Quotes       int `json:"quotes"`
	Passthroughs int `json:"passthroughs"`
	HotPasses    int `json:"hot_passes"`
	Bookings     int `json:"bookings"`
	NonConverted int `json:"non_converted"`
}

// Count returns the stored value for a count metric, 0 for rate metrics.
func (c Counts) Count(m types.Metric) int {
	switch m {
	case types.MetricTrips:
		return c.Trips
	case types.MetricQuotes:
		return c.Quotes
	case types.MetricPassthroughs:
		return c.Passthroughs
	case types.MetricHotPasses:
		return c.HotPasses
	case types.MetricBookings:
		return c.Bookings
	case types.MetricNonConverted:
		return c.NonConverted
	}
	return 0
}

// Rate returns the derived percentage for a rate metric, 0 when the
// denominator is 0 and 0 for count metrics.
func (c Counts) Rate(m types.Metric) float64 {
	num, den, ok := m.Ratio()
	if !ok {
		return 0
	}
	d := c.Count(den)
	if d == 0 {
		return 0
	}
	return float64(c.Count(num)) / float64(d) * 100
}

// Value returns the count for count metrics and the rate for rate
// metrics, as a float for series use.
func (c Counts) Value(m types.Metric) float64 {
	if m.IsRate() {
		return c.Rate(m)
	}
	return float64(c.Count(m))
}

// Add returns the element-wise sum of two count sets.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Trips:        c.Trips + o.Trips,
		Quotes:       c.Quotes + o.Quotes,
		Passthroughs: c.Passthroughs + o.Passthroughs,
		HotPasses:    c.HotPasses + o.HotPasses,
		Bookings:     c.Bookings + o.Bookings,
		NonConverted: c.NonConverted + o.NonConverted,
	}
}

// Daily maps a date key (YYYY-MM-DD) to that day's counts.
type Daily map[string]Counts

// Total sums a daily map into one count set.
func (d Daily) Total() Counts {
	var t Counts
	for _, c := range d {
		t = t.Add(c)
	}
	return t
}

// SkipCounts records rows a fold could not attribute. They are data
// quality outcomes, logged by the orchestrator, never errors.
type SkipCounts struct {
	NoAgent     int `json:"no_agent"`
	BadDate     int `json:"bad_date"`
	NoOrigin    int `json:"no_origin"`
	OutOfWindow int `json:"out_of_window"`
}

// Tally is the outcome of folding one collection: totals per agent,
// counts per agent per day, and skip accounting.
type Tally struct {
	Totals  map[string]int
	Daily   map[string]map[string]int
	Skipped SkipCounts
}

// AgentResolver is the carry-forward state of a top-down scan. Grouped
// exports leave the agent cell blank on continuation rows, and sometimes
// hold a bare row number; neither replaces the carried name. Every fold
// that attributes rows to agents shares this rule.
type AgentResolver struct {
	agent string
}

// Resolve attributes one raw agent cell. ok is false only before the
// first usable agent value has been seen.
func (s *AgentResolver) Resolve(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v != "" && !numeric(v) {
		s.agent = v
		return v, true
	}
	if s.agent != "" {
		return s.agent, true
	}
	return "", false
}

func numeric(s string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return err == nil
}

// Count folds one collection into per-agent totals and per-agent daily
// counts. Rows are scanned top to bottom so blank agent cells inherit
// the nearest preceding agent. Rows whose date fails to parse, or that
// precede the first usable agent value, are skipped and counted.
func Count(rows []types.Record, agentKey, dateKey string, window temporal.Window) Tally {
	t := Tally{Totals: map[string]int{}, Daily: map[string]map[string]int{}}
	var st AgentResolver
	for _, row := range rows {
		agent, ok := st.Resolve(row[agentKey])
		if !ok {
			t.Skipped.NoAgent++
			continue
		}
		ts, ok := temporal.Parse(row[dateKey])
		if !ok {
			t.Skipped.BadDate++
			continue
		}
		if !window.Contains(ts) {
			t.Skipped.OutOfWindow++
			continue
		}
		t.add(agent, temporal.Key(ts))
	}
	return t
}

// CountByOrigin folds a collection whose own timestamps reflect a later
// lifecycle event, attributing each row to the creation date of the trip
// it names. origins maps normalized trip name to creation date; rows
// whose trip is not in the index are skipped and counted.
func CountByOrigin(rows []types.Record, agentKey, tripKey string, origins map[string]time.Time, window temporal.Window) Tally {
	t := Tally{Totals: map[string]int{}, Daily: map[string]map[string]int{}}
	var st AgentResolver
	for _, row := range rows {
		agent, ok := st.Resolve(row[agentKey])
		if !ok {
			t.Skipped.NoAgent++
			continue
		}
		ts, ok := origins[normalizeTrip(row[tripKey])]
		if !ok {
			t.Skipped.NoOrigin++
			continue
		}
		if !window.Contains(ts) {
			t.Skipped.OutOfWindow++
			continue
		}
		t.add(agent, temporal.Key(ts))
	}
	return t
}

func (t *Tally) add(agent, date string) {
	t.Totals[agent]++
	if t.Daily[agent] == nil {
		t.Daily[agent] = map[string]int{}
	}
	t.Daily[agent][date]++
}

// TripDates indexes a trips collection by normalized trip name, keeping
// the first parseable creation date per name.
func TripDates(rows []types.Record, tripKey, dateKey string) map[string]time.Time {
	idx := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		name := normalizeTrip(row[tripKey])
		if name == "" {
			continue
		}
		if _, seen := idx[name]; seen {
			continue
		}
		if ts, ok := temporal.Parse(row[dateKey]); ok {
			idx[name] = ts
		}
	}
	return idx
}

func normalizeTrip(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
