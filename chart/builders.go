package chart

import (
	"fmt"
	"sort"

	"github.com/evergreen-ci/speedup/perf"
	"gonum.org/v1/plot/vg"
)

const (
	speedupAxis           = "Speedup S(p) = T(1)/T(p)"
	efficiencyAxis        = "Efficiency S(p)/p"
	comparisonEfficiency  = "Efficiency E(p) = S(p)/p"
	timeAxis              = "Execution time [s]"
	processingUnitsAxis   = "Number of Processing Units"
	problemSizeLegend     = "Problem size"
	comparisonChartWidth  = 12 * vg.Inch
	comparisonChartHeight = 6 * vg.Inch
)

// Labels are the user supplied texts of the per-file charts.
type Labels struct {
	XLabel          string
	SpeedupTitle    string
	EfficiencyTitle string
	TimeTitle       string
}

func unitValues(units []int) []float64 {
	out := make([]float64, len(units))
	for i, u := range units {
		out[i] = float64(u)
	}
	return out
}

// ScalingCharts returns the speedup and efficiency charts of a scaling
// report, one line per problem size.
func ScalingCharts(report *perf.ScalingReport, labels Labels) (*Chart, *Chart) {
	colors := SeriesColors(len(report.Series))
	speedup := &Chart{
		Title:       labels.SpeedupTitle,
		XLabel:      labels.XLabel,
		YLabel:      speedupAxis,
		LegendTitle: problemSizeLegend,
		XTicks:      unitValues(report.Units),
	}
	efficiency := &Chart{
		Title:       labels.EfficiencyTitle,
		XLabel:      labels.XLabel,
		YLabel:      efficiencyAxis,
		LegendTitle: problemSizeLegend,
		XTicks:      unitValues(report.Units),
	}

	for idx, series := range report.Series {
		var xs, speedups, efficiencies []float64
		for _, p := range series.Points {
			xs = append(xs, float64(p.Units))
			speedups = append(speedups, p.Speedup)
			efficiencies = append(efficiencies, p.Efficiency)
		}
		speedup.Series = append(speedup.Series, Series{Label: series.Label, X: xs, Y: speedups, Color: colors[idx], Markers: true})
		efficiency.Series = append(efficiency.Series, Series{Label: series.Label, X: xs, Y: efficiencies, Color: colors[idx], Markers: true})
	}

	perfect := Reference("perfect", nil, nil)
	perfect.Color = LightBlue
	perfect.X, perfect.Y = perf.IdealSpeedup(report.Units)
	speedup.References = append(speedup.References, perfect)

	perfect.X, perfect.Y = perf.IdealEfficiency(report.Units)
	efficiency.References = append(efficiency.References, perfect)

	return speedup, efficiency
}

// TimeChart plots the mean execution time of every problem size.
func TimeChart(series []perf.TimeSeries, labels Labels) *Chart {
	colors := SeriesColors(len(series))
	out := &Chart{
		Title:       labels.TimeTitle,
		XLabel:      labels.XLabel,
		YLabel:      timeAxis,
		LegendTitle: problemSizeLegend,
	}

	ticks := map[int]struct{}{}
	for idx, s := range series {
		var xs, ys []float64
		for _, p := range s.Points {
			xs = append(xs, float64(p.Units))
			ys = append(ys, p.Time)
			ticks[p.Units] = struct{}{}
		}
		out.Series = append(out.Series, Series{Label: s.Label, X: xs, Y: ys, Color: colors[idx], Markers: true})
	}

	for u := range ticks {
		out.XTicks = append(out.XTicks, float64(u))
	}
	sort.Float64s(out.XTicks)

	return out
}

func kindSeries(c *perf.Comparison, scaledOnly bool, value func(perf.Entry) float64) []Series {
	out := []Series{}
	for _, kind := range c.Kinds {
		entries := c.ByKind(kind, scaledOnly)
		if len(entries) == 0 {
			continue
		}

		style := KindStyle(string(kind))
		s := Series{Label: string(kind), Color: style.Color, Glyph: style.Glyph}
		for _, e := range entries {
			s.X = append(s.X, float64(e.Units))
			s.Y = append(s.Y, value(e))
		}
		out = append(out, s)
	}
	return out
}

// ComparisonCharts returns the speedup and efficiency charts comparing
// implementations at one workload size.
func ComparisonCharts(c *perf.Comparison) (*Chart, *Chart) {
	maxUnits := float64(c.MaxUnits())

	speedup := &Chart{
		Title:  fmt.Sprintf("Speedup Comparison for %s Workload", c.Label),
		XLabel: processingUnitsAxis,
		YLabel: speedupAxis,
		Series: kindSeries(c, true, func(e perf.Entry) float64 { return e.Speedup }),
		References: []Series{
			Reference("Ideal", []float64{1, maxUnits}, []float64{1, maxUnits}),
		},
		Width:  comparisonChartWidth,
		Height: comparisonChartHeight,
	}

	efficiency := &Chart{
		Title:  fmt.Sprintf("Efficiency Comparison for %s Workload", c.Label),
		XLabel: processingUnitsAxis,
		YLabel: comparisonEfficiency,
		Series: kindSeries(c, true, func(e perf.Entry) float64 { return e.Efficiency }),
		References: []Series{
			Reference("Ideal", []float64{1, maxUnits}, []float64{1, 1}),
		},
		Width:  comparisonChartWidth,
		Height: comparisonChartHeight,
	}

	return speedup, efficiency
}

// ComparisonTimeChart plots execution times of every implementation
// with the ideal T(1)/p curve when a single unit time is known.
func ComparisonTimeChart(c *perf.Comparison) *Chart {
	out := &Chart{
		Title:  fmt.Sprintf("Execution Time vs Processing Units for %s Workload", c.Label),
		XLabel: processingUnitsAxis,
		YLabel: timeAxis,
		Series: kindSeries(c, false, func(e perf.Entry) float64 { return e.Time }),
		Width:  comparisonChartWidth,
		Height: comparisonChartHeight,
	}

	if base, ok := c.IdealTimeBase(); ok {
		xs, ys := perf.IdealTimes(base, c.MaxUnits(), perf.DefaultIdealSamples)
		out.References = append(out.References, Reference("Ideal", xs, ys))
	}

	return out
}

// ComparisonFileName names a comparison chart, e.g. speedup_16W.png.
func ComparisonFileName(base string, c *perf.Comparison, format string) string {
	return FileName("", base, "_"+c.Label, format)
}
