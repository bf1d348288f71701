// Package downsample reduces daily series to a plottable point count
// with largest-triangle-three-buckets, keeping every series on a shared
// date axis decimated to the same indices.
package downsample

import (
	"encoding/json"
	"math"
)

// Frame is a set of named series over one date axis. Order lists the
// series in display order; its first entry is the magnitude series that
// guides point selection. Every series has exactly one value per date.
type Frame struct {
	Dates  []string             `json:"dates"`
	Order  []string             `json:"order"`
	Series map[string][]float64 `json:"series"`
}

// Len returns the number of points on the axis.
func (f Frame) Len() int {
	return len(f.Dates)
}

type frameJSON struct {
	Dates  []string              `json:"dates"`
	Order  []string              `json:"order"`
	Series map[string][]*float64 `json:"series"`
}

// MarshalJSON renders non-finite samples as null, so chart payloads
// stay valid JSON and renderers draw gaps rather than zeros.
func (f Frame) MarshalJSON() ([]byte, error) {
	series := make(map[string][]*float64, len(f.Series))
	for name, vals := range f.Series {
		pts := make([]*float64, len(vals))
		for i := range vals {
			if math.IsNaN(vals[i]) || math.IsInf(vals[i], 0) {
				continue
			}
			pts[i] = &vals[i]
		}
		series[name] = pts
	}
	return json.Marshal(frameJSON{Dates: f.Dates, Order: f.Order, Series: series})
}

// Decimate reduces the frame to at most target points. Frames already at
// or below target, and targets below 3, pass through unchanged. The
// first and last points always survive.
func Decimate(f Frame, target int) Frame {
	n := f.Len()
	if n <= target || target < 3 {
		return f
	}
	if len(f.Order) == 0 {
		return f
	}
	magnitude, ok := f.Series[f.Order[0]]
	if !ok {
		return f
	}

	idx := Indices(magnitude, target)

	out := Frame{
		Dates:  make([]string, len(idx)),
		Order:  append([]string(nil), f.Order...),
		Series: make(map[string][]float64, len(f.Series)),
	}
	for i, j := range idx {
		out.Dates[i] = f.Dates[j]
	}
	for name, s := range f.Series {
		sub := make([]float64, len(idx))
		for i, j := range idx {
			sub[i] = s[j]
		}
		out.Series[name] = sub
	}
	return out
}

// Indices selects the indices LTTB keeps when reducing values to target
// points. The first and last index are always kept; interior points are
// bucketed and the point forming the largest triangle with the previous
// selection and the next bucket's average wins its bucket. Missing
// values count as 0 for the area geometry only.
func Indices(values []float64, target int) []int {
	n := len(values)
	if n <= target || target < 3 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	val := func(i int) float64 {
		if math.IsNaN(values[i]) {
			return 0
		}
		return values[i]
	}

	idx := make([]int, 0, target)
	idx = append(idx, 0)
	every := float64(n-2) / float64(target-2)
	a := 0

	for bucket := 0; bucket < target-2; bucket++ {
		start := int(math.Floor(float64(bucket)*every)) + 1
		end := int(math.Floor(float64(bucket+1)*every)) + 1
		if end > n-1 {
			end = n - 1
		}

		// Average of the following bucket, the fixed third corner.
		nextStart := end
		nextEnd := int(math.Floor(float64(bucket+2)*every)) + 1
		if nextEnd > n {
			nextEnd = n
		}
		var avgX, avgY float64
		for j := nextStart; j < nextEnd; j++ {
			avgX += float64(j)
			avgY += val(j)
		}
		span := float64(nextEnd - nextStart)
		avgX /= span
		avgY /= span

		ax, ay := float64(a), val(a)
		best := start
		bestArea := -1.0
		for j := start; j < end; j++ {
			area := math.Abs((ax-avgX)*(val(j)-ay)-(ax-float64(j))*(avgY-ay)) / 2
			if area > bestArea {
				bestArea = area
				best = j
			}
		}
		idx = append(idx, best)
		a = best
	}

	idx = append(idx, n-1)
	return idx
}
