package aggregator

import (
	"sort"
	"strings"

	"sales-insights-go/internal/types"
)

// ReasonCount is one non-conversion reason and its frequency.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// CountReasons tallies the reason column of the non-converted
// collection, grouping case-insensitively and keeping the first seen
// spelling. Blank cells are ignored. Results are ordered by frequency,
// then alphabetically.
func CountReasons(rows []types.Record, reasonKey string) []ReasonCount {
	counts := map[string]int{}
	display := map[string]string{}
	for _, row := range rows {
		reason := row.Field(reasonKey)
		if reason == "" {
			continue
		}
		key := strings.ToLower(reason)
		if _, seen := display[key]; !seen {
			display[key] = reason
		}
		counts[key]++
	}

	out := make([]ReasonCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, ReasonCount{Reason: display[key], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}
