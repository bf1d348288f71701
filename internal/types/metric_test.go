package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRate(t *testing.T) {
	for _, m := range CountMetrics {
		assert.False(t, m.IsRate(), m.String())
	}
	for _, m := range RateMetrics {
		assert.True(t, m.IsRate(), m.String())
	}
}

func TestRatio_PairsPerRate(t *testing.T) {
	cases := []struct {
		metric   Metric
		num, den Metric
	}{
		{MetricTripToQuote, MetricQuotes, MetricTrips},
		{MetricTripToPassthrough, MetricPassthroughs, MetricTrips},
		{MetricPassthroughToQuote, MetricQuotes, MetricPassthroughs},
		{MetricHotPassRate, MetricHotPasses, MetricPassthroughs},
		{MetricNonConvertedRate, MetricNonConverted, MetricTrips},
		{MetricBookingRate, MetricBookings, MetricHotPasses},
	}
	for _, tc := range cases {
		num, den, ok := tc.metric.Ratio()
		require.True(t, ok, tc.metric.String())
		assert.Equal(t, tc.num, num)
		assert.Equal(t, tc.den, den)
	}

	_, _, ok := MetricTrips.Ratio()
	assert.False(t, ok)
}

func TestMetricString_CoversEnum(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range append(append([]Metric{}, CountMetrics...), RateMetrics...) {
		s := m.String()
		assert.NotEqual(t, "unknown", s)
		assert.False(t, seen[s], "duplicate name %s", s)
		seen[s] = true
	}
	assert.Equal(t, "unknown", Metric(99).String())
}

func TestRecordFieldAndHas(t *testing.T) {
	r := Record{"agent": "  Alice  ", "reason": ""}

	assert.Equal(t, "Alice", r.Field("agent"))
	assert.Equal(t, "", r.Field("missing"))
	assert.True(t, r.Has("agent"))
	assert.False(t, r.Has("reason"))
	assert.False(t, r.Has("missing"))
}

func TestBundleEmpty(t *testing.T) {
	var b Bundle
	assert.True(t, b.Empty())

	b.Bookings = []Record{{"trip name": "Iceland"}}
	assert.False(t, b.Empty())
	assert.Equal(t, 1, b.Stats().Bookings)
}
