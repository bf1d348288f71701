package aggregator

import (
	"sales-insights-go/internal/temporal"
	"sales-insights-go/internal/types"
)

// Linkage counts hot passes and how many of them booked.
type Linkage struct {
	HotPasses int     `json:"hot_passes"`
	Booked    int     `json:"booked"`
	Rate      float64 `json:"rate"`
}

// BookingLinkage joins the hot-pass and bookings collections by trip
// name. Skipped counts hot-pass rows that could not take part, either
// because no agent was attributable yet or because the trip-name cell
// was blank.
type BookingLinkage struct {
	Overall Linkage            `json:"overall"`
	ByAgent map[string]Linkage `json:"by_agent,omitempty"`
	Skipped int                `json:"skipped,omitempty"`
}

// LinkInput names the resolved columns the linkage reads. AgentKey,
// TripKey and DateKey sit on the hot-pass rows; BookedTripKey sits on
// the bookings rows.
type LinkInput struct {
	HotPasses     []types.Record
	Bookings      []types.Record
	AgentKey      string
	TripKey       string
	DateKey       string
	BookedTripKey string
	Window        temporal.Window
}

// LinkBookings matches each hot pass against the bookings collection by
// normalized trip name. A hot pass converts when any booking names the
// same trip. With a bounded window, hot passes whose date cannot be
// parsed or falls outside are excluded.
func LinkBookings(in LinkInput) BookingLinkage {
	booked := make(map[string]struct{}, len(in.Bookings))
	for _, row := range in.Bookings {
		if name := normalizeTrip(row[in.BookedTripKey]); name != "" {
			booked[name] = struct{}{}
		}
	}

	out := BookingLinkage{ByAgent: map[string]Linkage{}}
	var st AgentResolver
	for _, row := range in.HotPasses {
		agent, ok := st.Resolve(row[in.AgentKey])
		if !ok {
			out.Skipped++
			continue
		}
		if in.Window.Bounded() {
			ts, ok := temporal.Parse(row[in.DateKey])
			if !ok || !in.Window.Contains(ts) {
				continue
			}
		}
		name := normalizeTrip(row[in.TripKey])
		if name == "" {
			out.Skipped++
			continue
		}
		_, hit := booked[name]
		out.Overall = out.Overall.tally(hit)
		out.ByAgent[agent] = out.ByAgent[agent].tally(hit)
	}

	out.Overall.Rate = linkRate(out.Overall)
	for agent, l := range out.ByAgent {
		l.Rate = linkRate(l)
		out.ByAgent[agent] = l
	}
	if len(out.ByAgent) == 0 {
		out.ByAgent = nil
	}
	return out
}

func (l Linkage) tally(booked bool) Linkage {
	l.HotPasses++
	if booked {
		l.Booked++
	}
	return l
}

func linkRate(l Linkage) float64 {
	if l.HotPasses == 0 {
		return 0
	}
	return float64(l.Booked) / float64(l.HotPasses) * 100
}
