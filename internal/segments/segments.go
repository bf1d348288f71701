// Package segments ranks trip categories (region, repeat/new client,
// B2B/B2C channel) by conversion performance and compares individual
// agents against the department inside each category.
package segments

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"sales-insights-go/internal/aggregator"
	"sales-insights-go/internal/temporal"
	"sales-insights-go/internal/types"
)

// Dimension names one way of partitioning the trips dataset.
type Dimension int

const (
	Region Dimension = iota
	ClientType
	Channel
)

func (d Dimension) String() string {
	switch d {
	case Region:
		return "region"
	case ClientType:
		return "client_type"
	case Channel:
		return "channel"
	}
	return "region"
}

// Input is one resolved trips dataset plus the analysis settings. The
// lifecycle marker keys (passthrough, quote, hot pass) are columns on
// the trips rows themselves; a non-blank cell means the trip reached
// that stage.
type Input struct {
	Rows        []types.Record
	CategoryKey string
	AgentKey    string
	CreatedKey  string
	PassKey     string
	QuoteKey    string
	HotKey      string
	Window      temporal.Window
	MinVolume   int      // category floor for department-level views
	AgentMin    int      // category floor for per-agent views
	Excluded    []string // category values out of scope, substring match
}

// CategoryStats is one category's funnel volume.
type CategoryStats struct {
	Category string            `json:"category"`
	Counts   aggregator.Counts `json:"counts"`
}

// Rate derives a conversion rate from the category's counts.
func (c CategoryStats) Rate(m types.Metric) float64 {
	return c.Counts.Rate(m)
}

// Ranked is one category's position in a top or needs-improvement list.
type Ranked struct {
	Category string  `json:"category"`
	Rate     float64 `json:"rate"`
	Volume   int     `json:"volume"`
	Score    float64 `json:"score"`
}

// Analysis is the ranked view of one dimension at one rate metric.
// Empty slices mean not enough qualifying data, never an error.
type Analysis struct {
	Dimension  string          `json:"dimension"`
	Metric     string          `json:"metric"`
	Overall    float64         `json:"overall_rate"`
	Categories []CategoryStats `json:"categories"`
	Top        []Ranked        `json:"top"`
	NeedsWork  []Ranked        `json:"needs_improvement"`
}

// Analyze aggregates the trips dataset by category and ranks categories
// against the overall rate for the given rate metric. Count metrics are
// a contract violation.
func Analyze(in Input, dim Dimension, metric types.Metric) (Analysis, error) {
	if !metric.IsRate() {
		return Analysis{}, fmt.Errorf("segments: %s is not a rate metric", metric)
	}

	perCat, overall := tallyCategories(in)

	a := Analysis{
		Dimension: dim.String(),
		Metric:    metric.String(),
		Overall:   overall.Rate(metric),
	}
	for cat, counts := range perCat {
		if counts.Trips < in.MinVolume {
			continue
		}
		a.Categories = append(a.Categories, CategoryStats{Category: cat, Counts: counts})
	}
	sort.Slice(a.Categories, func(i, j int) bool {
		if a.Categories[i].Counts.Trips != a.Categories[j].Counts.Trips {
			return a.Categories[i].Counts.Trips > a.Categories[j].Counts.Trips
		}
		return a.Categories[i].Category < a.Categories[j].Category
	})

	for _, c := range a.Categories {
		rate := c.Rate(metric)
		vol := c.Counts.Trips
		if rate >= a.Overall {
			// Reward rate and volume together; log damps small samples.
			a.Top = append(a.Top, Ranked{
				Category: c.Category,
				Rate:     rate,
				Volume:   vol,
				Score:    rate * math.Log10(float64(vol)+1),
			})
		} else {
			// Big structural gaps outrank small noisy ones.
			a.NeedsWork = append(a.NeedsWork, Ranked{
				Category: c.Category,
				Rate:     rate,
				Volume:   vol,
				Score:    float64(vol) * math.Abs(rate-a.Overall),
			})
		}
	}
	sortRanked(a.Top)
	sortRanked(a.NeedsWork)
	return a, nil
}

func sortRanked(rs []Ranked) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		return rs[i].Category < rs[j].Category
	})
}

// tallyCategories folds the trips rows into per-category counts plus the
// overall totals. Rows with excluded or blank categories are dropped;
// when the window is bounded, rows whose created date cannot be parsed
// are dropped too, because membership cannot be shown.
func tallyCategories(in Input) (map[string]aggregator.Counts, aggregator.Counts) {
	perCat := map[string]aggregator.Counts{}
	var overall aggregator.Counts

	for _, row := range in.Rows {
		cat, ok := categoryOf(row, in)
		if !ok {
			continue
		}
		c := rowCounts(row, in)
		perCat[cat] = perCat[cat].Add(c)
		overall = overall.Add(c)
	}
	return perCat, overall
}

func categoryOf(row types.Record, in Input) (string, bool) {
	cat := row.Field(in.CategoryKey)
	if cat == "" || excluded(cat, in.Excluded) {
		return "", false
	}
	if in.Window.Bounded() {
		ts, ok := temporal.Parse(row[in.CreatedKey])
		if !ok || !in.Window.Contains(ts) {
			return "", false
		}
	}
	return cat, true
}

func rowCounts(row types.Record, in Input) aggregator.Counts {
	c := aggregator.Counts{Trips: 1}
	if row.Has(in.PassKey) {
		c.Passthroughs = 1
	}
	if row.Has(in.QuoteKey) {
		c.Quotes = 1
	}
	if row.Has(in.HotKey) {
		c.HotPasses = 1
	}
	return c
}

func excluded(category string, excludes []string) bool {
	lc := strings.ToLower(category)
	for _, e := range excludes {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && strings.Contains(lc, e) {
			return true
		}
	}
	return false
}
