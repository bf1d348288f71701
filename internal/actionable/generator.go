// Package actionable turns category shortfalls into prioritised
// improvement recommendations with deterministic wording.
package actionable

import (
	"fmt"
	"math"
	"sort"

	"sales-insights-go/internal/segments"
	"sales-insights-go/internal/types"
)

// Priority tiers, ordered.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Thresholds maps potential gain and volume onto a priority tier. Every
// condition is a lower bound, so raising gain or volume can only raise
// the tier.
type Thresholds struct {
	HighGain      float64
	HighComboGain float64
	HighComboVol  int
	MediumGain    float64
	MediumVol     int
}

// TripToPassthrough tunes priorities for first-stage conversion, where
// volumes run high and a few points of rate hide many trips.
var TripToPassthrough = Thresholds{
	HighGain:      5,
	HighComboGain: 3,
	HighComboVol:  20,
	MediumGain:    2,
	MediumVol:     15,
}

// PassthroughToQuote tunes priorities for the later stage, where volumes
// are smaller and each lost conversion matters more.
var PassthroughToQuote = Thresholds{
	HighGain:      3,
	HighComboGain: 2,
	HighComboVol:  12,
	MediumGain:    1,
	MediumVol:     8,
}

// ForMetric picks the threshold set tuned for a rate metric. Early
// funnel stages use the trip-to-passthrough set, later ones the
// passthrough-to-quote set.
func ForMetric(m types.Metric) Thresholds {
	switch m {
	case types.MetricTripToQuote, types.MetricTripToPassthrough, types.MetricNonConvertedRate:
		return TripToPassthrough
	}
	return PassthroughToQuote
}

// Priority classifies one shortfall. Tiers are monotone in both inputs.
func (t Thresholds) Priority(gain float64, volume int) string {
	if gain >= t.HighGain || (gain >= t.HighComboGain && volume >= t.HighComboVol) {
		return PriorityHigh
	}
	if gain >= t.MediumGain || volume >= t.MediumVol {
		return PriorityMedium
	}
	return PriorityLow
}

// Recommendation is one category's improvement case.
type Recommendation struct {
	Category      string  `json:"category"`
	Metric        string  `json:"metric"`
	Priority      string  `json:"priority"`
	Volume        int     `json:"volume"`
	Rate          float64 `json:"rate"`
	OverallRate   float64 `json:"overall_rate"`
	Deviation     float64 `json:"deviation"`
	PotentialGain float64 `json:"potential_gain"`
	ImpactScore   float64 `json:"impact_score"`
	Rationale     string  `json:"rationale"`
}

// Generate builds recommendations for the categories of an analysis that
// run under its overall rate, ordered by impact. Categories at or above
// the overall rate produce nothing.
func Generate(a segments.Analysis, metric types.Metric) []Recommendation {
	th := ForMetric(metric)
	num, den, ok := metric.Ratio()
	if !ok {
		return nil
	}

	var recs []Recommendation
	for _, c := range a.Categories {
		rate := c.Rate(metric)
		if rate >= a.Overall {
			continue
		}
		volume := c.Counts.Count(den)
		actual := float64(c.Counts.Count(num))
		expected := a.Overall / 100 * float64(volume)
		gain := math.Max(0, expected-actual)
		dev := rate - a.Overall

		recs = append(recs, Recommendation{
			Category:      c.Category,
			Metric:        metric.String(),
			Priority:      th.Priority(gain, volume),
			Volume:        volume,
			Rate:          rate,
			OverallRate:   a.Overall,
			Deviation:     dev,
			PotentialGain: gain,
			ImpactScore:   gain*10 + float64(volume)*math.Abs(dev)/100,
			Rationale:     rationaleFor(c.Category, volume, math.Abs(dev), gain),
		})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].ImpactScore != recs[j].ImpactScore {
			return recs[i].ImpactScore > recs[j].ImpactScore
		}
		return recs[i].Category < recs[j].Category
	})
	return recs
}

// rationaleRule is one row of the wording decision table. Bands are
// lower bounds; the first matching row wins. Each template takes the
// category, the gap in points, and the gain in conversions, in that
// order.
type rationaleRule struct {
	minVolume int
	minGap    float64
	minGain   float64
	text      string
}

var rationaleTable = []rationaleRule{
	{minVolume: 30, minGap: 10, minGain: 5,
		text: "%s is a high-volume category running %.1f points under the department; closing the gap is worth about %.0f conversions."},
	{minVolume: 30, minGap: 0, minGain: 0,
		text: "%s is close to the department pace, but at its volume the %.1f point shortfall still costs about %.0f conversions."},
	{minVolume: 0, minGap: 15, minGain: 0,
		text: "%s trails the department by %.1f points on modest volume, about %.0f conversions; coaching is the likely lever."},
	{minVolume: 0, minGap: 0, minGain: 3,
		text: "%s shows a %.1f point gap worth about %.0f conversions; a focused push should close it."},
	{minVolume: 0, minGap: 0, minGain: 0,
		text: "%s sits %.1f points under the department rate, about %.0f conversions; monitor the next cycle before intervening."},
}

// rationaleFor selects deterministic wording from the decision table.
func rationaleFor(category string, volume int, gap, gain float64) string {
	for _, r := range rationaleTable {
		if volume >= r.minVolume && gap >= r.minGap && gain >= r.minGain {
			return fmt.Sprintf(r.text, category, gap, gain)
		}
	}
	return ""
}
