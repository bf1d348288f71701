package aggregator

import (
	"sales-insights-go/internal/temporal"
	"sales-insights-go/internal/types"
)

// TimeProfile is the weekday and time-of-day distribution of one
// collection's timestamps.
type TimeProfile struct {
	ByDay        map[string]int `json:"by_day"`
	ByBucket     map[string]int `json:"by_bucket,omitempty"`
	HasTimeOfDay bool           `json:"has_time_of_day"`
}

// Profile buckets one collection's parseable timestamps by weekday and
// time-of-day bucket. Date-only exports parse to midnight, so
// HasTimeOfDay stays false for them and callers suppress the bucket
// breakdown.
func Profile(rows []types.Record, dateKey string, window temporal.Window) TimeProfile {
	p := TimeProfile{ByDay: map[string]int{}, ByBucket: map[string]int{}}
	for _, row := range rows {
		ts, ok := temporal.Parse(row[dateKey])
		if !ok {
			continue
		}
		if !window.Contains(ts) {
			continue
		}
		p.ByDay[temporal.DayName(ts)]++
		p.ByBucket[temporal.BucketName(ts)]++
		if !temporal.Midnight(ts) {
			p.HasTimeOfDay = true
		}
	}
	return p
}
