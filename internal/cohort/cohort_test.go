package cohort

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-insights-go/internal/aggregator"
)

func TestCompare_TooFewAgents(t *testing.T) {
	m := &aggregator.Metrics{Agents: map[string]aggregator.Daily{}, Dates: []string{"2025-03-01"}}
	for i := 0; i < 3; i++ {
		m.Agents[fmt.Sprintf("A%d", i)] = aggregator.Daily{
			"2025-03-01": {Trips: 10, Passthroughs: 10, HotPasses: 5},
		}
	}

	_, ok := Compare(m, 5)
	assert.False(t, ok)
}

func TestCompare_VolumeFilter(t *testing.T) {
	m := &aggregator.Metrics{Agents: map[string]aggregator.Daily{}, Dates: []string{"2025-03-01"}}
	for i := 0; i < 4; i++ {
		m.Agents[fmt.Sprintf("A%d", i)] = aggregator.Daily{
			"2025-03-01": {Trips: 10, Passthroughs: 10, HotPasses: i + 1},
		}
	}
	// Below the passthrough floor; its presence must not change N.
	m.Agents["Casual"] = aggregator.Daily{
		"2025-03-01": {Trips: 2, Passthroughs: 2, HotPasses: 2},
	}

	c, ok := Compare(m, 5)
	require.True(t, ok)
	assert.Equal(t, 4, c.Qualified)
	assert.NotContains(t, c.Top.Agents, "Casual")
	assert.NotContains(t, c.Bottom.Agents, "Casual")
}

func TestCompare_EightAgentsQuartileSize(t *testing.T) {
	m := &aggregator.Metrics{
		Agents: map[string]aggregator.Daily{},
		Dates:  []string{"2025-03-01", "2025-03-02"},
	}
	// Hot-pass counts 9..2 over 10 passthroughs give rates 90%..20%.
	for i := 0; i < 8; i++ {
		m.Agents[fmt.Sprintf("A%d", i+1)] = aggregator.Daily{
			"2025-03-01": {Trips: 10, Passthroughs: 10, HotPasses: 9 - i},
		}
	}

	c, ok := Compare(m, 5)
	require.True(t, ok)
	assert.Equal(t, 8, c.Qualified)
	assert.Equal(t, []string{"A1", "A2"}, c.Top.Agents)
	assert.Equal(t, []string{"A7", "A8"}, c.Bottom.Agents)
	assert.InDelta(t, 85.0, c.Top.Rate, 1e-9)    // (9+8)/20
	assert.InDelta(t, 25.0, c.Bottom.Rate, 1e-9) // (3+2)/20
	assert.Len(t, c.Daily, 2)
}

func TestCompare_WeightedDailyRates(t *testing.T) {
	m := &aggregator.Metrics{
		Agents: map[string]aggregator.Daily{
			"A1": {
				"2025-03-01": {Trips: 10, Quotes: 5, Passthroughs: 10, HotPasses: 9},
				"2025-03-02": {Passthroughs: 3}, // no trips or quotes: inactive
			},
			"A2": {"2025-03-01": {Trips: 1, Passthroughs: 10, HotPasses: 8}},
			"A3": {"2025-03-01": {Trips: 1, Passthroughs: 10, HotPasses: 7}},
			"A4": {"2025-03-01": {Trips: 1, Passthroughs: 10, HotPasses: 6}},
			"A7": {"2025-03-01": {Trips: 4, Quotes: 1, Passthroughs: 10, HotPasses: 2}},
			"A8": {"2025-03-01": {Trips: 6, Quotes: 0, Passthroughs: 10, HotPasses: 1}},
			"A5": {"2025-03-01": {Trips: 1, Passthroughs: 10, HotPasses: 5}},
			"A6": {"2025-03-01": {Trips: 1, Passthroughs: 10, HotPasses: 4}},
		},
		Dates: []string{"2025-03-01", "2025-03-02"},
	}

	c, ok := Compare(m, 5)
	require.True(t, ok)
	assert.Equal(t, []string{"A1", "A2"}, c.Top.Agents)
	assert.Equal(t, []string{"A7", "A8"}, c.Bottom.Agents)

	day := c.Daily[0]
	// Top: (5+0)/(10+1), both active.
	assert.InDelta(t, 100*5.0/11.0, day.TopRate, 1e-9)
	assert.Equal(t, 2, day.TopActive)
	// Bottom: (1+0)/(4+6) = 10%, not the 12.5% mean of 25% and 0%.
	assert.InDelta(t, 10.0, day.BottomRate, 1e-9)
	assert.Equal(t, 2, day.BottomActive)

	// A1's passthrough-only day leaves it inactive for the comparison.
	day2 := c.Daily[1]
	assert.Equal(t, 0, day2.TopActive)
	assert.Equal(t, 0.0, day2.TopRate)
}

func TestCompare_IdenticalRatesStayEqual(t *testing.T) {
	daily := aggregator.Daily{
		"2025-03-01": {Trips: 8, Quotes: 2, Passthroughs: 10, HotPasses: 5},
		"2025-03-02": {Trips: 4, Quotes: 3, Passthroughs: 6, HotPasses: 3},
	}
	m := &aggregator.Metrics{
		Agents: map[string]aggregator.Daily{},
		Dates:  []string{"2025-03-01", "2025-03-02"},
	}
	for _, name := range []string{"A", "B", "C", "D"} {
		clone := aggregator.Daily{}
		for k, v := range daily {
			clone[k] = v
		}
		m.Agents[name] = clone
	}

	c, ok := Compare(m, 5)
	require.True(t, ok)
	require.Len(t, c.Top.Agents, 1)
	require.Len(t, c.Bottom.Agents, 1)
	for _, p := range c.Daily {
		assert.Equal(t, p.TopRate, p.BottomRate, p.Date)
	}
}
