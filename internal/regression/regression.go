// Package regression fits trend lines over daily metric series. Series
// use NaN for dates with no data; fits span the gaps and predict a value
// for every index so a continuous line can be drawn edge to edge.
package regression

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Kind tags which curve a fit used.
type Kind string

const (
	Linear    Kind = "linear"
	LogLinear Kind = "log_linear"
)

// minPoints is the fewest valid observations a fit accepts.
const minPoints = 3

// varianceFloor rejects degenerate x spreads instead of dividing by
// near-zero.
const varianceFloor = 1e-10

// Fit is one fitted trend. For Linear the model is y = Intercept +
// Slope*x; for LogLinear it is y = Intercept * e^(Slope*x) with
// Intercept already back-transformed to the original scale. R2 is always
// on the original scale so the two kinds compare directly. Predicted has
// one value per input index, including indices whose input was missing.
type Fit struct {
	Kind       Kind      `json:"kind"`
	Slope      float64   `json:"slope"`
	Intercept  float64   `json:"intercept"`
	R2         float64   `json:"r2"`
	Predicted  []float64 `json:"predicted"`
	PointsUsed int       `json:"points_used"`
}

func valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// observations extracts the usable (index, value) pairs of a series.
func observations(series []float64, keep func(float64) bool) (xs, ys []float64) {
	for i, v := range series {
		if keep(v) {
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
	}
	return xs, ys
}

// FitLinear fits y = a + b*x by ordinary least squares. ok is false with
// fewer than 3 valid points or a degenerate x spread.
func FitLinear(series []float64) (Fit, bool) {
	xs, ys := observations(series, valid)
	if len(xs) < minPoints {
		return Fit{}, false
	}
	if stat.Variance(xs, nil) < varianceFloor {
		return Fit{}, false
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) {
		// Constant series: the fit is exact but explains no variance.
		r2 = 0
	}

	pred := make([]float64, len(series))
	for i := range pred {
		pred[i] = alpha + beta*float64(i)
	}
	return Fit{
		Kind:       Linear,
		Slope:      beta,
		Intercept:  alpha,
		R2:         r2,
		Predicted:  pred,
		PointsUsed: len(xs),
	}, true
}

// FitLogLinear fits ln(y) = ln(a) + b*x over the strictly positive
// points, then reports intercept and R2 back on the original scale so
// the result ranks against a linear fit of the same series.
func FitLogLinear(series []float64) (Fit, bool) {
	xs, ys := observations(series, func(v float64) bool {
		return valid(v) && v > 0
	})
	if len(xs) < minPoints {
		return Fit{}, false
	}
	if stat.Variance(xs, nil) < varianceFloor {
		return Fit{}, false
	}

	logs := make([]float64, len(ys))
	for i, y := range ys {
		logs[i] = math.Log(y)
	}
	alpha, beta := stat.LinearRegression(xs, logs, nil, false)

	pred := make([]float64, len(series))
	for i := range pred {
		pred[i] = math.Exp(alpha + beta*float64(i))
	}

	// R2 against the original values, using the back-transformed curve.
	mean := stat.Mean(ys, nil)
	var ssRes, ssTot float64
	for i, y := range ys {
		fitted := math.Exp(alpha + beta*xs[i])
		ssRes += (y - fitted) * (y - fitted)
		ssTot += (y - mean) * (y - mean)
	}
	r2 := 0.0
	if ssTot > varianceFloor {
		r2 = 1 - ssRes/ssTot
	}

	return Fit{
		Kind:       LogLinear,
		Slope:      beta,
		Intercept:  math.Exp(alpha),
		R2:         r2,
		Predicted:  pred,
		PointsUsed: len(xs),
	}, true
}

// Best fits both forms and returns the stronger one among those meeting
// the R2 threshold. A linear fit wins ties. ok is false when neither
// qualifies.
func Best(series []float64, minR2 float64) (Fit, bool) {
	lin, linOK := FitLinear(series)
	log, logOK := FitLogLinear(series)

	linOK = linOK && lin.R2 >= minR2
	logOK = logOK && log.R2 >= minR2

	switch {
	case linOK && logOK:
		if log.R2 > lin.R2 {
			return log, true
		}
		return lin, true
	case linOK:
		return lin, true
	case logOK:
		return log, true
	}
	return Fit{}, false
}
