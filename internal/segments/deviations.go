package segments

import (
	"fmt"
	"math"
	"sort"

	"sales-insights-go/internal/aggregator"
	"sales-insights-go/internal/types"
)

// Deviation compares one agent's rate in a category with the
// department's rate for the same category. Deviation and the rates are
// percentage points; ImpactScore weighs the gap by the category's share
// of department volume.
type Deviation struct {
	Category    string  `json:"category"`
	AgentRate   float64 `json:"agent_rate"`
	DeptRate    float64 `json:"department_rate"`
	Deviation   float64 `json:"deviation"`
	ImpactScore float64 `json:"impact_score"`
	AgentVolume int     `json:"agent_volume"`
	DeptVolume  int     `json:"department_volume"`
}

// AgentDeviations groups one agent's above and below average categories.
// A category with exactly zero deviation appears in neither list.
type AgentDeviations struct {
	Agent string      `json:"agent"`
	Above []Deviation `json:"above_average"`
	Below []Deviation `json:"below_average"`
}

// Deviations computes every agent's category deviations for one rate
// metric. Agents appear only when at least one category clears both
// volume floors; an empty result means not enough qualifying data.
func Deviations(in Input, metric types.Metric) ([]AgentDeviations, error) {
	if !metric.IsRate() {
		return nil, fmt.Errorf("segments: %s is not a rate metric", metric)
	}

	deptCats, overall := tallyCategories(in)
	if overall.Trips == 0 {
		return nil, nil
	}

	perAgent := tallyAgentCategories(in)

	agents := make([]string, 0, len(perAgent))
	for a := range perAgent {
		agents = append(agents, a)
	}
	sort.Strings(agents)

	var out []AgentDeviations
	for _, agent := range agents {
		ad := AgentDeviations{Agent: agent}
		for cat, ac := range perAgent[agent] {
			dc, ok := deptCats[cat]
			if !ok || dc.Trips < in.MinVolume || ac.Trips < in.AgentMin {
				continue
			}
			dev := ac.Rate(metric) - dc.Rate(metric)
			if dev == 0 {
				continue
			}
			d := Deviation{
				Category:    cat,
				AgentRate:   ac.Rate(metric),
				DeptRate:    dc.Rate(metric),
				Deviation:   dev,
				ImpactScore: math.Abs(dev) * math.Sqrt(float64(dc.Trips)/float64(overall.Trips)) * 100,
				AgentVolume: ac.Trips,
				DeptVolume:  dc.Trips,
			}
			if dev > 0 {
				ad.Above = append(ad.Above, d)
			} else {
				ad.Below = append(ad.Below, d)
			}
		}
		if len(ad.Above) == 0 && len(ad.Below) == 0 {
			continue
		}
		sortDeviations(ad.Above)
		sortDeviations(ad.Below)
		out = append(out, ad)
	}
	return out, nil
}

func sortDeviations(ds []Deviation) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].ImpactScore != ds[j].ImpactScore {
			return ds[i].ImpactScore > ds[j].ImpactScore
		}
		return ds[i].Category < ds[j].Category
	})
}

// tallyAgentCategories folds the trips rows into per-agent per-category
// counts. The carry-forward scan advances on every row, including rows
// the category filter later drops, because the spreadsheet's grouping
// structure spans all rows.
func tallyAgentCategories(in Input) map[string]map[string]aggregator.Counts {
	out := map[string]map[string]aggregator.Counts{}
	var st aggregator.AgentResolver
	for _, row := range in.Rows {
		agent, ok := st.Resolve(row[in.AgentKey])
		if !ok {
			continue
		}
		cat, ok := categoryOf(row, in)
		if !ok {
			continue
		}
		if out[agent] == nil {
			out[agent] = map[string]aggregator.Counts{}
		}
		out[agent][cat] = out[agent][cat].Add(rowCounts(row, in))
	}
	return out
}
