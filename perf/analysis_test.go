package perf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/evergreen-ci/speedup/results"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, data string, layout results.Layout, kind results.Kind) []results.Measurement {
	ms, err := results.Read(strings.NewReader(data), layout, kind, results.ReadOptions{})
	require.NoError(t, err)
	return ms
}

func TestSizeLabel(t *testing.T) {
	for _, test := range []struct {
		size, min int
		expected  string
	}{
		{size: 100, min: 100, expected: "W"},
		{size: 400, min: 100, expected: "4W"},
		{size: 1600000, min: 100000, expected: "16W"},
		{size: 149, min: 100, expected: "W"},
		{size: 250, min: 100, expected: "2W"},
		{size: 350, min: 100, expected: "4W"},
		{size: 10, min: 0, expected: "W"},
	} {
		assert.Equal(t, test.expected, SizeLabel(test.size, test.min), "%d/%d", test.size, test.min)
	}
}

func TestScaling(t *testing.T) {
	ms := readFixture(t, `1,100,8.0
2,100,4.0
4,100,2.5
8,100,1.0
2,400,16.0
4,400,8.0
1,200,16.0
1,200,20.0
2,200,9.0
`, results.LayoutFlat, results.KindOpenMP)

	report := Scaling(ms, []int{1, 2, 4})
	assert.Equal(t, []int{400}, report.Skipped)
	require.Len(t, report.Series, 2)

	small := report.Series[0]
	assert.Equal(t, "W", small.Label)
	assert.Equal(t, 8.0, small.Baseline)
	require.Len(t, small.Points, 3)
	assert.Equal(t, ScalingPoint{Units: 4, Time: 2.5, Speedup: 3.2, Efficiency: 0.8}, small.Points[2])

	medium := report.Series[1]
	assert.Equal(t, "2W", medium.Label)
	assert.Equal(t, 18.0, medium.Baseline)
	require.Len(t, medium.Points, 2)
	assert.Equal(t, 2.0, medium.Points[1].Speedup)
	assert.Equal(t, 1.0, medium.Points[1].Efficiency)

	t.Run("DefaultUnits", func(t *testing.T) {
		report := Scaling(ms, nil)
		assert.Equal(t, DefaultUnits, report.Units)
		assert.Len(t, report.Series[0].Points, 4)
	})
	t.Run("NoBaselineUnit", func(t *testing.T) {
		report := Scaling(ms, []int{2, 4})
		assert.Empty(t, report.Series)
		assert.Equal(t, []int{100, 200, 400}, report.Skipped)
	})
}

func TestScalingRepeatedRuns(t *testing.T) {
	rows := []string{
		"1,100,8.0",
		"1,100,10.0",
		"2,100,4.0",
		"2,100,5.0",
		"4,100,3.0",
		"4,100,2.0",
		"4,100,1.0",
	}
	ms := readFixture(t, strings.Join(rows, "\n")+"\n", results.LayoutFlat, results.KindMPI)

	if diff := cmp.Diff(map[int]float64{1: 9, 2: 4.5, 4: 2}, meanTimeByUnits(ms)); diff != "" {
		t.Errorf("unexpected means (-want +got):\n%s", diff)
	}

	expected := []ScalingPoint{
		{Units: 1, Time: 9, Speedup: 1, Efficiency: 1},
		{Units: 2, Time: 4.5, Speedup: 2, Efficiency: 1},
		{Units: 4, Time: 2, Speedup: 4.5, Efficiency: 1.125},
	}
	report := Scaling(ms, []int{1, 2, 4})
	require.Len(t, report.Series, 1)
	assert.Equal(t, 9.0, report.Series[0].Baseline)
	if diff := cmp.Diff(expected, report.Series[0].Points); diff != "" {
		t.Errorf("unexpected scaling (-want +got):\n%s", diff)
	}

	t.Run("RowOrderDoesNotMatter", func(t *testing.T) {
		reversed := make([]string, len(rows))
		for i, row := range rows {
			reversed[len(rows)-1-i] = row
		}
		ms := readFixture(t, strings.Join(reversed, "\n")+"\n", results.LayoutFlat, results.KindMPI)
		report := Scaling(ms, []int{1, 2, 4})
		require.Len(t, report.Series, 1)
		if diff := cmp.Diff(expected, report.Series[0].Points); diff != "" {
			t.Errorf("unexpected scaling (-want +got):\n%s", diff)
		}
	})
}

func TestAverageTimes(t *testing.T) {
	ms := readFixture(t, `4,100,2.0
1,100,9.0
1,100,11.0
2,300,7.0
`, results.LayoutFlat, results.KindMPI)

	expected := []TimeSeries{
		{Size: 100, Label: "W", Points: []TimePoint{{Units: 1, Time: 10}, {Units: 4, Time: 2}}},
		{Size: 300, Label: "3W", Points: []TimePoint{{Units: 2, Time: 7}}},
	}
	if diff := cmp.Diff(expected, AverageTimes(ms)); diff != "" {
		t.Errorf("unexpected averages (-want +got):\n%s", diff)
	}
	assert.Empty(t, AverageTimes(nil))
}

func TestIdeal(t *testing.T) {
	xs, ys := IdealSpeedup([]int{1, 2, 4})
	assert.Equal(t, []float64{1, 2, 4}, xs)
	assert.Equal(t, xs, ys)

	xs, ys = IdealEfficiency([]int{1, 8})
	assert.Equal(t, []float64{1, 8}, xs)
	assert.Equal(t, []float64{1, 1}, ys)

	xs, ys = IdealTimes(16, 16, 16)
	require.Len(t, xs, 16)
	assert.Equal(t, 1.0, xs[0])
	assert.Equal(t, 16.0, xs[15])
	assert.Equal(t, 16.0, ys[0])
	assert.InDelta(t, 1.0, ys[15], 1e-12)

	xs, _ = IdealTimes(1, 0, 0)
	assert.Len(t, xs, 2)
}

const (
	mpiFixture = `1,1600000,40.0
2,1600000,20.0
4,1600000,10.0
1,100000,2.5
`
	ompFixture = `1,1600000,32.0
4,1600000,16.0
`
	hybridFixture = `1,1,1600000,36.0
1,2,1600000,19.0
2,1,1600000,18.0
2,2,1600000,12.0
4,1,1600000,9.0
`
)

func TestCompare(t *testing.T) {
	mpi := readFixture(t, mpiFixture, results.LayoutFlat, results.KindMPI)
	omp := readFixture(t, ompFixture, results.LayoutFlat, results.KindOpenMP)
	hybrid := readFixture(t, hybridFixture, results.LayoutHybrid, results.KindHybrid)

	c, err := Compare(1600000, 100000, mpi, omp, hybrid)
	require.NoError(t, err)

	assert.Equal(t, "16W", c.Label)
	assert.Equal(t, []results.Kind{results.KindMPI, results.KindOpenMP, results.KindHybrid}, c.Kinds)
	assert.Equal(t, map[results.Kind]int{results.KindMPI: 3, results.KindOpenMP: 2, results.KindHybrid: 5}, c.Counts)
	assert.Equal(t, map[results.Kind]float64{results.KindMPI: 40, results.KindOpenMP: 32, results.KindHybrid: 36}, c.Baselines)

	units := []int{}
	kinds := []results.Kind{}
	for _, e := range c.Entries {
		units = append(units, e.Units)
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []int{1, 1, 1, 2, 2, 4, 4, 4}, units)
	assert.Equal(t, []results.Kind{
		results.KindMPI, results.KindOpenMP, results.KindHybrid,
		results.KindMPI, results.KindHybrid,
		results.KindMPI, results.KindOpenMP, results.KindHybrid,
	}, kinds)

	hybridEntries := c.ByKind(results.KindHybrid, true)
	require.Len(t, hybridEntries, 3)
	assert.Equal(t, "2p×1t", hybridEntries[1].Config)
	assert.Equal(t, 18.0, hybridEntries[1].Time)
	assert.Equal(t, 2.0, hybridEntries[1].Speedup)
	assert.Equal(t, "4p×1t", hybridEntries[2].Config)
	assert.Equal(t, 4.0, hybridEntries[2].Speedup)
	assert.Equal(t, 1.0, hybridEntries[2].Efficiency)

	assert.Equal(t, 4, c.MaxUnits())

	best, ok := c.BestSpeedup()
	require.True(t, ok)
	assert.Equal(t, results.KindMPI, best.Kind)
	assert.Equal(t, 4, best.Units)

	best, ok = c.BestEfficiency()
	require.True(t, ok)
	assert.Equal(t, results.KindMPI, best.Kind)
	assert.Equal(t, 1, best.Units)

	best, ok = c.BestTime()
	require.True(t, ok)
	assert.Equal(t, results.KindHybrid, best.Kind)
	assert.Equal(t, 9.0, best.Time)

	base, ok := c.IdealTimeBase()
	require.True(t, ok)
	assert.Equal(t, 40.0, base)

	t.Run("MissingBaseline", func(t *testing.T) {
		noBase := readFixture(t, "2,1600000,20.0\n", results.LayoutFlat, results.KindMPI)
		c, err := Compare(1600000, 100000, noBase, omp)
		require.NoError(t, err)
		assert.Len(t, c.Entries, 3)
		assert.Len(t, c.Scaled(), 2)
		assert.Empty(t, c.ByKind(results.KindMPI, true))
		assert.Len(t, c.ByKind(results.KindMPI, false), 1)
		_, ok := c.Baselines[results.KindMPI]
		assert.False(t, ok)
	})
	t.Run("NoData", func(t *testing.T) {
		_, err := Compare(42, 100000, mpi, omp, hybrid)
		require.Error(t, err)
		assert.Equal(t, ErrNoData, errors.Cause(err))
	})
	t.Run("Summary", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, c.WriteSummary(buf))
		out := buf.String()
		assert.Contains(t, out, "=== PERFORMANCE SUMMARY for 16W workload ===")
		assert.Contains(t, out, "Best speedup: MPI with 4 units -> 4.00x")
		assert.Contains(t, out, "Best efficiency: MPI with 1 units -> 1.000")

		lines := strings.Split(out, "\n")
		var rows []string
		for _, l := range lines {
			if strings.HasPrefix(l, "Hybrid") || strings.HasPrefix(l, "MPI") || strings.HasPrefix(l, "OpenMP") {
				rows = append(rows, l)
			}
		}
		require.Len(t, rows, 8)
		assert.True(t, strings.HasPrefix(rows[0], "Hybrid       1p×1t        1      36.000000  1.00     1.000"), rows[0])
		assert.True(t, strings.HasPrefix(rows[3], "MPI          N/A          1"), rows[3])
		assert.True(t, strings.HasPrefix(rows[6], "OpenMP"), rows[6])
	})
	t.Run("TimeSummary", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, c.WriteTimeSummary(buf))
		assert.Contains(t, buf.String(), "=== TIME SUMMARY for 16W workload ===")
		assert.Contains(t, buf.String(), "Best time: Hybrid with 4 units -> 9.000000s")
	})
}
