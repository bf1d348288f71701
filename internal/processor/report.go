package processor

import (
	"time"

	"sales-insights-go/internal/actionable"
	"sales-insights-go/internal/aggregator"
	"sales-insights-go/internal/cohort"
	"sales-insights-go/internal/config"
	"sales-insights-go/internal/downsample"
	"sales-insights-go/internal/regression"
	"sales-insights-go/internal/segments"
	"sales-insights-go/internal/temporal"
	"sales-insights-go/internal/types"
)

// Report is the full structured result of one analysis run, shaped for
// direct JSON delivery to presentation collaborators. Sections whose
// inputs could not support them are omitted rather than nulled, so
// consumers render an explicit "not enough data" state.
type Report struct {
	RunID           string                                 `json:"run_id"`
	GeneratedAt     time.Time                              `json:"generated_at"`
	DurationMs      int64                                  `json:"duration_ms"`
	Params          config.Params                          `json:"params"`
	Window          Window                                 `json:"window"`
	Source          types.BundleStats                      `json:"source_rows"`
	Agents          []AgentSummary                         `json:"agents"`
	Department      Group                                  `json:"department"`
	Seniors         *Group                                 `json:"seniors,omitempty"`
	NonSeniors      *Group                                 `json:"non_seniors,omitempty"`
	Trends          map[string]Trend                       `json:"trends,omitempty"`
	Segments        []segments.Analysis                    `json:"segments,omitempty"`
	Deviations      []segments.AgentDeviations             `json:"agent_deviations,omitempty"`
	Recommendations map[string][]actionable.Recommendation `json:"recommendations,omitempty"`
	Cohorts         *cohort.Comparison                     `json:"cohorts,omitempty"`
	Bookings        aggregator.BookingLinkage              `json:"booking_linkage"`
	Profiles        map[string]aggregator.TimeProfile      `json:"profiles,omitempty"`
	Reasons         []aggregator.ReasonCount               `json:"non_converted_reasons,omitempty"`
	Skipped         map[string]aggregator.SkipCounts       `json:"skipped_rows"`
}

// Window echoes the resolved analysis window. A blank bound leaves that
// side open.
type Window struct {
	Timeframe string `json:"timeframe"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
}

// AgentSummary is one agent's totals, derived rates and daily activity
// over the window.
type AgentSummary struct {
	Agent  string             `json:"agent"`
	Senior bool               `json:"senior,omitempty"`
	Totals aggregator.Counts  `json:"totals"`
	Rates  map[string]float64 `json:"rates"`
	Daily  aggregator.Daily   `json:"daily"`
}

// Group is an aggregate view over a set of agents. Rates divide summed
// numerators by summed denominators, never averaging member rates.
type Group struct {
	Agents []string           `json:"agents"`
	Totals aggregator.Counts  `json:"totals"`
	Rates  map[string]float64 `json:"rates"`
	Chart  downsample.Frame   `json:"chart"`
}

// Trend is the accepted best fit for one department series. The fitted
// line itself travels in the department chart as a "<metric>_trend"
// series so it decimates on the same indices as the data.
type Trend struct {
	Kind       string  `json:"kind"`
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
	R2         float64 `json:"r2"`
	PointsUsed int     `json:"points_used"`
}

func trendOf(f regression.Fit) Trend {
	return Trend{
		Kind:       string(f.Kind),
		Slope:      f.Slope,
		Intercept:  f.Intercept,
		R2:         f.R2,
		PointsUsed: f.PointsUsed,
	}
}

func windowEcho(timeframe string, w temporal.Window) Window {
	out := Window{Timeframe: timeframe}
	if !w.Start.IsZero() {
		out.Start = w.Start.Format(time.RFC3339)
	}
	if !w.End.IsZero() {
		out.End = w.End.Format(time.RFC3339)
	}
	return out
}

func rateMap(c aggregator.Counts) map[string]float64 {
	out := make(map[string]float64, len(types.RateMetrics))
	for _, m := range types.RateMetrics {
		out[m.String()] = c.Rate(m)
	}
	return out
}

// allMetrics returns counts then rates, the display order of chart
// series. Trips stays first so decimation keys on it.
func allMetrics() []types.Metric {
	out := make([]types.Metric, 0, len(types.CountMetrics)+len(types.RateMetrics))
	out = append(out, types.CountMetrics...)
	out = append(out, types.RateMetrics...)
	return out
}

func buildFrame(daily aggregator.Daily, dates []string) downsample.Frame {
	f := downsample.Frame{
		Dates:  dates,
		Series: make(map[string][]float64),
	}
	for _, m := range allMetrics() {
		name := m.String()
		f.Order = append(f.Order, name)
		f.Series[name] = aggregator.Series(daily, dates, m)
	}
	return f
}

func buildGroup(m *aggregator.Metrics, member func(string) bool, chartPoints int) Group {
	daily := m.GroupDaily(member)
	total := daily.Total()
	g := Group{
		Totals: total,
		Rates:  rateMap(total),
		Chart:  downsample.Decimate(buildFrame(daily, m.Dates), chartPoints),
	}
	for _, a := range m.AgentNames() {
		if member(a) {
			g.Agents = append(g.Agents, a)
		}
	}
	return g
}
