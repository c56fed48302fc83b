package perf

import (
	"sort"

	"github.com/evergreen-ci/speedup/results"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"gonum.org/v1/gonum/stat"
)

// DefaultUnits are the unit counts analyzed when none are requested.
var DefaultUnits = []int{1, 2, 4, 8, 12, 16}

// ScalingPoint is the speedup and efficiency of one unit count
// relative to the single unit run of the same size.
type ScalingPoint struct {
	Units      int
	Time       float64
	Speedup    float64
	Efficiency float64
}

// ScalingSeries holds the scaling points of one workload size.
type ScalingSeries struct {
	Size     int
	Label    string
	Baseline float64
	Points   []ScalingPoint
}

// ScalingReport is the result of Scaling.
type ScalingReport struct {
	Units  []int
	Series []ScalingSeries
	// Skipped lists sizes with no single unit baseline.
	Skipped []int
}

// Scaling computes speedup S(p) = T(1)/T(p) and efficiency S(p)/p for
// every workload size. Only the listed unit counts are considered, so a
// list without 1 yields no series at all. Repeated measurements of the
// same size and unit count are averaged.
func Scaling(ms []results.Measurement, units []int) *ScalingReport {
	if len(units) == 0 {
		units = DefaultUnits
	}

	ms = results.FilterUnits(ms, units)
	report := &ScalingReport{Units: units}
	minSize := results.MinSize(ms)

	for _, size := range results.Sizes(ms) {
		times := meanTimeByUnits(results.FilterSize(ms, size))
		base, ok := times[1]
		if !ok {
			grip.Warning(message.Fields{
				"message": "size has no single-unit baseline, skipping",
				"size":    size,
			})
			report.Skipped = append(report.Skipped, size)
			continue
		}

		series := ScalingSeries{
			Size:     size,
			Label:    SizeLabel(size, minSize),
			Baseline: base,
		}
		for _, u := range units {
			t, ok := times[u]
			if !ok {
				continue
			}
			speedup := base / t
			series.Points = append(series.Points, ScalingPoint{
				Units:      u,
				Time:       t,
				Speedup:    speedup,
				Efficiency: speedup / float64(u),
			})
		}
		report.Series = append(report.Series, series)
	}

	return report
}

// TimePoint is the mean execution time of one unit count.
type TimePoint struct {
	Units int
	Time  float64
}

// TimeSeries holds the mean times of one workload size ordered by units.
type TimeSeries struct {
	Size   int
	Label  string
	Points []TimePoint
}

// AverageTimes groups measurements by size, then by unit count, and
// averages the execution time of each group.
func AverageTimes(ms []results.Measurement) []TimeSeries {
	minSize := results.MinSize(ms)
	out := []TimeSeries{}

	for _, size := range results.Sizes(ms) {
		times := meanTimeByUnits(results.FilterSize(ms, size))
		series := TimeSeries{Size: size, Label: SizeLabel(size, minSize)}
		for u, t := range times {
			series.Points = append(series.Points, TimePoint{Units: u, Time: t})
		}
		sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Units < series.Points[j].Units })
		out = append(out, series)
	}

	return out
}

// meanTimeByUnits averages the times of each unit count over all rows.
func meanTimeByUnits(ms []results.Measurement) map[int]float64 {
	grouped := map[int][]float64{}
	for _, m := range ms {
		grouped[m.Units] = append(grouped[m.Units], m.Time)
	}

	out := make(map[int]float64, len(grouped))
	for u, times := range grouped {
		out[u] = stat.Mean(times, nil)
	}
	return out
}
