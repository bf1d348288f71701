package downsample

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampFrame(n int) Frame {
	f := Frame{
		Order:  []string{"trips", "trip_to_quote"},
		Series: map[string][]float64{},
	}
	trips := make([]float64, n)
	rate := make([]float64, n)
	for i := 0; i < n; i++ {
		f.Dates = append(f.Dates, fmt.Sprintf("2025-01-%02d", i%28+1))
		trips[i] = float64(i)
		rate[i] = 100 - float64(i)
	}
	f.Series["trips"] = trips
	f.Series["trip_to_quote"] = rate
	return f
}

func TestDecimate_IdentityWhenSmall(t *testing.T) {
	f := rampFrame(10)

	out := Decimate(f, 10)
	assert.Equal(t, f, out)

	out = Decimate(f, 50)
	assert.Equal(t, f, out)

	out = Decimate(f, 2) // targets below 3 are meaningless
	assert.Equal(t, f, out)
}

func TestDecimate_LengthAndEndpoints(t *testing.T) {
	f := rampFrame(100)

	out := Decimate(f, 12)
	assert.Equal(t, 12, out.Len())
	assert.Equal(t, f.Dates[0], out.Dates[0])
	assert.Equal(t, f.Dates[99], out.Dates[11])
	assert.Equal(t, 0.0, out.Series["trips"][0])
	assert.Equal(t, 99.0, out.Series["trips"][11])
}

func TestDecimate_AllSeriesShareIndices(t *testing.T) {
	f := rampFrame(80)

	out := Decimate(f, 15)
	require.Equal(t, 15, out.Len())
	require.Len(t, out.Series["trip_to_quote"], 15)

	// trips[i] + rate[i] == 100 in the input, so any consistently
	// subsetted pair must preserve that.
	for i := 0; i < out.Len(); i++ {
		sum := out.Series["trips"][i] + out.Series["trip_to_quote"][i]
		assert.InDelta(t, 100.0, sum, 1e-9, "index %d", i)
	}
}

func TestIndices_SpikeSurvives(t *testing.T) {
	values := make([]float64, 100)
	values[50] = 100

	idx := Indices(values, 10)
	require.Len(t, idx, 10)
	assert.Contains(t, idx, 50)
	assert.Equal(t, 0, idx[0])
	assert.Equal(t, 99, idx[9])
}

func TestIndices_SortedAndUnique(t *testing.T) {
	values := make([]float64, 57)
	for i := range values {
		values[i] = math.Sin(float64(i) / 5)
	}

	idx := Indices(values, 9)
	require.Len(t, idx, 9)
	for i := 1; i < len(idx); i++ {
		assert.Greater(t, idx[i], idx[i-1])
	}
}

func TestIndices_MissingValuesDoNotPanic(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		if i%3 == 0 {
			values[i] = math.NaN()
		} else {
			values[i] = float64(i)
		}
	}

	idx := Indices(values, 8)
	assert.Len(t, idx, 8)
}

func TestDecimate_NoMagnitudePassesThrough(t *testing.T) {
	f := Frame{Dates: []string{"a", "b", "c", "d", "e"}}

	out := Decimate(f, 3)
	assert.Equal(t, f, out)
}

func TestFrameMarshal_GapsBecomeNull(t *testing.T) {
	f := Frame{
		Dates: []string{"2025-01-01", "2025-01-02", "2025-01-03"},
		Order: []string{"trips"},
		Series: map[string][]float64{
			"trips": {4, math.NaN(), 2},
		},
	}

	buf, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(buf), `"trips":[4,null,2]`)
}
