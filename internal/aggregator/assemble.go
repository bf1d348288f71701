package aggregator

import (
	"math"
	"sort"

	"sales-insights-go/internal/types"
)

// Metrics joins per-collection tallies onto one shared date axis.
type Metrics struct {
	Agents  map[string]Daily
	Dates   []string // sorted union of active date keys
	Skipped map[string]SkipCounts
}

// Assemble merges one tally per count metric into per-agent daily
// counts. Only count metrics contribute; rate metrics are derived later
// from the assembled counts.
func Assemble(tallies map[types.Metric]Tally) *Metrics {
	m := &Metrics{
		Agents:  map[string]Daily{},
		Skipped: map[string]SkipCounts{},
	}
	dateSet := map[string]struct{}{}

	for metric, tally := range tallies {
		if metric.IsRate() {
			continue
		}
		m.Skipped[metric.String()] = tally.Skipped
		for agent, days := range tally.Daily {
			daily := m.Agents[agent]
			if daily == nil {
				daily = Daily{}
				m.Agents[agent] = daily
			}
			for date, n := range days {
				c := daily[date]
				bump(&c, metric, n)
				daily[date] = c
				dateSet[date] = struct{}{}
			}
		}
	}

	m.Dates = make([]string, 0, len(dateSet))
	for d := range dateSet {
		m.Dates = append(m.Dates, d)
	}
	sort.Strings(m.Dates)
	return m
}

func bump(c *Counts, m types.Metric, n int) {
	switch m {
	case types.MetricTrips:
		c.Trips += n
	case types.MetricQuotes:
		c.Quotes += n
	case types.MetricPassthroughs:
		c.Passthroughs += n
	case types.MetricHotPasses:
		c.HotPasses += n
	case types.MetricBookings:
		c.Bookings += n
	case types.MetricNonConverted:
		c.NonConverted += n
	}
}

// AgentNames returns the agents in sorted order for deterministic
// report assembly.
func (m *Metrics) AgentNames() []string {
	names := make([]string, 0, len(m.Agents))
	for a := range m.Agents {
		names = append(names, a)
	}
	sort.Strings(names)
	return names
}

// GroupDaily sums member agents' counts per date. Group rates must
// divide summed numerators by summed denominators, so the summing
// happens here and the division stays in Counts.Rate.
func (m *Metrics) GroupDaily(member func(agent string) bool) Daily {
	out := Daily{}
	for agent, daily := range m.Agents {
		if !member(agent) {
			continue
		}
		for date, c := range daily {
			out[date] = out[date].Add(c)
		}
	}
	return out
}

// Department sums every agent's counts per date.
func (m *Metrics) Department() Daily {
	return m.GroupDaily(func(string) bool { return true })
}

// Series returns the metric's value per date in axis order. Dates with
// no recorded activity yield NaN so regression can treat them as gaps
// rather than zero activity.
func Series(d Daily, dates []string, metric types.Metric) []float64 {
	out := make([]float64, len(dates))
	for i, date := range dates {
		c, ok := d[date]
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = c.Value(metric)
	}
	return out
}
