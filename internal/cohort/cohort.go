// Package cohort splits qualifying agents into top and bottom
// performance quartiles and compares the two groups' daily conversion,
// always volume-weighted, never an average of member rates.
package cohort

import (
	"sort"

	"sales-insights-go/internal/aggregator"
	"sales-insights-go/internal/types"
)

// Cohort is one quartile's membership with its weighted hot-pass rate.
type Cohort struct {
	Agents []string `json:"agents"`
	Rate   float64  `json:"rate"`
}

// DayPoint compares the cohorts on one date. Rates are weighted
// trip-to-quote across members active that day; a member is active when
// it recorded trips or quotes.
type DayPoint struct {
	Date         string  `json:"date"`
	TopRate      float64 `json:"top_rate"`
	TopActive    int     `json:"top_active"`
	BottomRate   float64 `json:"bottom_rate"`
	BottomActive int     `json:"bottom_active"`
}

// Comparison is the full quartile view over the date axis.
type Comparison struct {
	Qualified int        `json:"qualified_agents"`
	Top       Cohort     `json:"top"`
	Bottom    Cohort     `json:"bottom"`
	Daily     []DayPoint `json:"daily"`
}

type ranked struct {
	agent string
	rate  float64
	total aggregator.Counts
}

// Compare ranks agents with at least minPassthroughs total passthroughs
// by their aggregate hot-pass rate and builds the quartile comparison.
// ok is false with fewer than 4 qualifying agents, where quartiles are
// meaningless.
func Compare(m *aggregator.Metrics, minPassthroughs int) (Comparison, bool) {
	var qualified []ranked
	for _, agent := range m.AgentNames() {
		total := m.Agents[agent].Total()
		if total.Passthroughs < minPassthroughs {
			continue
		}
		qualified = append(qualified, ranked{
			agent: agent,
			rate:  total.Rate(types.MetricHotPassRate),
			total: total,
		})
	}
	if len(qualified) < 4 {
		return Comparison{}, false
	}

	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].rate != qualified[j].rate {
			return qualified[i].rate > qualified[j].rate
		}
		return qualified[i].agent < qualified[j].agent
	})

	size := len(qualified) / 4
	top := qualified[:size]
	bottom := qualified[len(qualified)-size:]

	c := Comparison{
		Qualified: len(qualified),
		Top:       buildCohort(top),
		Bottom:    buildCohort(bottom),
	}

	for _, date := range m.Dates {
		p := DayPoint{Date: date}
		p.TopRate, p.TopActive = weightedDay(m, c.Top.Agents, date)
		p.BottomRate, p.BottomActive = weightedDay(m, c.Bottom.Agents, date)
		c.Daily = append(c.Daily, p)
	}
	return c, true
}

func buildCohort(members []ranked) Cohort {
	var sum aggregator.Counts
	c := Cohort{}
	for _, r := range members {
		c.Agents = append(c.Agents, r.agent)
		sum = sum.Add(r.total)
	}
	c.Rate = sum.Rate(types.MetricHotPassRate)
	return c
}

// weightedDay sums trips and quotes over the members active on date and
// divides once.
func weightedDay(m *aggregator.Metrics, members []string, date string) (rate float64, active int) {
	var day aggregator.Counts
	for _, agent := range members {
		c, ok := m.Agents[agent][date]
		if !ok || (c.Trips == 0 && c.Quotes == 0) {
			continue
		}
		day = day.Add(c)
		active++
	}
	return day.Rate(types.MetricTripToQuote), active
}
