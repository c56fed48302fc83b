package perf

import (
	"gonum.org/v1/gonum/floats"
)

// DefaultIdealSamples is the number of points on an ideal time curve.
const DefaultIdealSamples = 100

// IdealSpeedup is the linear speedup line S(p) = p over the units.
func IdealSpeedup(units []int) (xs, ys []float64) {
	for _, u := range units {
		xs = append(xs, float64(u))
		ys = append(ys, float64(u))
	}
	return xs, ys
}

// IdealEfficiency is the constant line E(p) = 1 over the units.
func IdealEfficiency(units []int) (xs, ys []float64) {
	for _, u := range units {
		xs = append(xs, float64(u))
		ys = append(ys, 1)
	}
	return xs, ys
}

// IdealTimes samples T(p) = base/p at n evenly spaced unit counts
// between 1 and maxUnits inclusive.
func IdealTimes(base float64, maxUnits int, n int) (xs, ys []float64) {
	if n < 2 {
		n = 2
	}
	if maxUnits < 1 {
		maxUnits = 1
	}

	xs = floats.Span(make([]float64, n), 1, float64(maxUnits))
	ys = make([]float64, n)
	for i, x := range xs {
		ys[i] = base / x
	}
	return xs, ys
}
