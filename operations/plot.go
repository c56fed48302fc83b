package operations

import (
	"context"
	"fmt"
	"io"

	"github.com/evergreen-ci/speedup"
	"github.com/evergreen-ci/speedup/chart"
	"github.com/evergreen-ci/speedup/perf"
	"github.com/evergreen-ci/speedup/results"
	"github.com/evergreen-ci/speedup/storage"
	"github.com/evergreen-ci/speedup/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"
)

// Plot renders scaling charts from benchmark results.
func Plot() cli.Command {
	return cli.Command{
		Name:  "plot",
		Usage: "render speedup, efficiency and execution time charts",
		Subcommands: []cli.Command{
			plotScaling(),
			plotTime(),
			plotCompare(),
			plotCompareTime(),
		},
	}
}

// chartJob is one chart to render under a key of the output sink.
type chartJob struct {
	key   string
	chart *chart.Chart
}

func plotScaling() cli.Command {
	return cli.Command{
		Name:  "scaling",
		Usage: "plot speedup and efficiency per problem size",
		Flags: mergeFlags(
			addConfigFlag(),
			addPathFlag(),
			addFormatFlag(),
			addOutputDirFlag("", "directory for the charts, defaults to the directory of the results file"),
			scalingFlags()),
		Before: mergeBeforeFuncs(
			setFlagOrFirstPositional(pathFlagName),
			requireResultsFile(pathFlagName)),
		Action: func(c *cli.Context) error {
			conf, err := loadConfig(c)
			if err != nil {
				return errors.WithStack(err)
			}
			path := c.String(pathFlagName)

			unitCounts := conf.Plot.Units
			if c.IsSet(unitsFlag) {
				if unitCounts, err = parseIntList(c.StringSlice(unitsFlag)); err != nil {
					return errors.Wrapf(err, "invalid --%s", unitsFlag)
				}
			}

			ms, err := readResults(path, results.LayoutFlat, "", c.Bool(lenientFlag))
			if err != nil {
				return errors.WithStack(err)
			}

			report := perf.Scaling(ms, unitCounts)
			if len(report.Series) == 0 {
				return errors.Wrapf(perf.ErrNoData, "'%s' has no single unit baseline for units %v", path, unitCounts)
			}

			speedupChart, efficiencyChart := chart.ScalingCharts(report, chart.Labels{
				XLabel:          conf.Plot.Label,
				SpeedupTitle:    c.String(titleSpeedupFlag),
				EfficiencyTitle: c.String(titleEfficiencyFlag),
			})

			prefix, suffix := c.String(prefixFlag), c.String(suffixFlag)
			return errors.WithStack(renderCharts(context.Background(), conf, chartDir(c, path), []chartJob{
				{key: chart.FileName(prefix, "speedup", suffix, conf.Plot.Format), chart: speedupChart},
				{key: chart.FileName(prefix, "efficiency", suffix, conf.Plot.Format), chart: efficiencyChart},
			}))
		},
	}
}

func plotTime() cli.Command {
	return cli.Command{
		Name:  "time",
		Usage: "plot mean execution time per problem size",
		Flags: mergeFlags(
			addConfigFlag(),
			addPathFlag(),
			addFormatFlag(),
			addOutputDirFlag("", "directory for the chart, defaults to the directory of the results file"),
			timeFlags()),
		Before: mergeBeforeFuncs(
			setFlagOrFirstPositional(pathFlagName),
			requireResultsFile(pathFlagName)),
		Action: func(c *cli.Context) error {
			conf, err := loadConfig(c)
			if err != nil {
				return errors.WithStack(err)
			}
			path := c.String(pathFlagName)

			ms, err := readResults(path, results.LayoutFlat, "", c.BoolT(lenientFlag))
			if err != nil {
				return errors.WithStack(err)
			}

			series := perf.AverageTimes(ms)
			if len(series) == 0 {
				return errors.Wrapf(perf.ErrNoData, "'%s' has no valid measurements", path)
			}

			timeChart := chart.TimeChart(series, chart.Labels{
				XLabel:    conf.Plot.Label,
				TimeTitle: c.String(titleFlag),
			})

			key := chart.FileName(c.String(prefixFlag), "time_vs_units", c.String(suffixFlag), conf.Plot.Format)
			return errors.WithStack(renderCharts(context.Background(), conf, chartDir(c, path), []chartJob{{key: key, chart: timeChart}}))
		},
	}
}

func plotCompare() cli.Command {
	return cli.Command{
		Name:  "compare",
		Usage: "compare speedup and efficiency of the MPI, OpenMP and hybrid implementations",
		Flags: mergeFlags(
			addConfigFlag(),
			addFormatFlag(),
			addOutputDirFlag(defaultCompareDir, "directory for the charts"),
			compareFlags()),
		Before: compareBefore(),
		Action: func(c *cli.Context) error {
			conf, cmp, err := loadComparison(c)
			if err != nil {
				return errors.WithStack(err)
			}
			if len(cmp.Scaled()) == 0 {
				return errors.Wrap(perf.ErrNoData, "no implementation has a single unit baseline")
			}

			if err = writeComparisonHeader(c.App.Writer, cmp, true); err != nil {
				return errors.WithStack(err)
			}

			speedupChart, efficiencyChart := chart.ComparisonCharts(cmp)
			err = renderCharts(context.Background(), conf, c.String(outputFlagName), []chartJob{
				{key: chart.ComparisonFileName("speedup", cmp, conf.Plot.Format), chart: speedupChart},
				{key: chart.ComparisonFileName("efficiency", cmp, conf.Plot.Format), chart: efficiencyChart},
			})
			if err != nil {
				return errors.WithStack(err)
			}

			return errors.WithStack(cmp.WriteSummary(c.App.Writer))
		},
	}
}

func plotCompareTime() cli.Command {
	return cli.Command{
		Name:  "compare-time",
		Usage: "compare execution time of the MPI, OpenMP and hybrid implementations",
		Flags: mergeFlags(
			addConfigFlag(),
			addFormatFlag(),
			addOutputDirFlag(defaultCompareDir, "directory for the chart"),
			compareFlags()),
		Before: compareBefore(),
		Action: func(c *cli.Context) error {
			conf, cmp, err := loadComparison(c)
			if err != nil {
				return errors.WithStack(err)
			}

			if err = writeComparisonHeader(c.App.Writer, cmp, false); err != nil {
				return errors.WithStack(err)
			}

			err = renderCharts(context.Background(), conf, c.String(outputFlagName), []chartJob{
				{key: chart.ComparisonFileName("time", cmp, conf.Plot.Format), chart: chart.ComparisonTimeChart(cmp)},
			})
			if err != nil {
				return errors.WithStack(err)
			}

			return errors.WithStack(cmp.WriteTimeSummary(c.App.Writer))
		},
	}
}

func compareBefore() cli.BeforeFunc {
	return mergeBeforeFuncs(
		requireResultsFile(mpiFileFlag),
		requireResultsFile(ompFileFlag),
		requireResultsFile(hybridFileFlag),
		requirePositiveInt(sizeFlag),
		requirePositiveInt(baseSizeFlag))
}

func loadComparison(c *cli.Context) (*speedup.Configuration, *perf.Comparison, error) {
	conf, err := loadConfig(c)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	size, baseSize := conf.Plot.TargetSize, conf.Plot.BaseSize
	if c.IsSet(sizeFlag) || size <= 0 {
		size = c.Int(sizeFlag)
	}
	if c.IsSet(baseSizeFlag) || baseSize <= 0 {
		baseSize = c.Int(baseSizeFlag)
	}

	grip.Info(message.Fields{
		"message":   "analyzing results",
		"size":      size,
		"label":     perf.SizeLabel(size, baseSize),
		"base_size": baseSize,
	})

	sets, err := readComparisonSets(context.Background(), []resultsSource{
		{path: c.String(mpiFileFlag), layout: results.LayoutFlat, kind: results.KindMPI},
		{path: c.String(ompFileFlag), layout: results.LayoutFlat, kind: results.KindOpenMP},
		{path: c.String(hybridFileFlag), layout: results.LayoutHybrid, kind: results.KindHybrid},
	})
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	cmp, err := perf.Compare(size, baseSize, sets...)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return conf, cmp, nil
}

// resultsSource names one results file and how to parse it.
type resultsSource struct {
	path   string
	layout results.Layout
	kind   results.Kind
}

// readComparisonSets loads every source concurrently, preserving the
// order of the sources in the output.
func readComparisonSets(ctx context.Context, sources []resultsSource) ([][]results.Measurement, error) {
	sets := make([][]results.Measurement, len(sources))
	g, _ := errgroup.WithContext(ctx)
	for idx := range sources {
		idx := idx
		g.Go(func() error {
			src := sources[idx]
			ms, err := readResults(src.path, src.layout, src.kind, false)
			if err != nil {
				return errors.WithStack(err)
			}
			sets[idx] = ms
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}

func readResults(path string, layout results.Layout, kind results.Kind, lenient bool) ([]results.Measurement, error) {
	ms, err := results.ReadFile(path, layout, kind, results.ReadOptions{SkipInvalid: lenient})
	if results.IsNotFound(err) {
		return nil, errors.Errorf("could not find results file '%s'", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "problem reading results file '%s'", path)
	}

	grip.Debug(message.Fields{
		"message":      "read results",
		"path":         path,
		"kind":         kind,
		"measurements": len(ms),
	})

	return ms, nil
}

func writeComparisonHeader(w io.Writer, cmp *perf.Comparison, baselines bool) error {
	catcher := grip.NewBasicCatcher()
	catcher.Add(util.Fprintln(w, fmt.Sprintf("Analyzing results for workload size: %d (%s)", cmp.Size, cmp.Label)))
	for _, kind := range []results.Kind{results.KindMPI, results.KindOpenMP, results.KindHybrid} {
		catcher.Add(util.Fprintln(w, fmt.Sprintf("%s data points for %s: %d", kind, cmp.Label, cmp.Counts[kind])))
	}

	if baselines {
		line := "Baselines -"
		for idx, kind := range []results.Kind{results.KindMPI, results.KindOpenMP, results.KindHybrid} {
			sep := ","
			if idx == 0 {
				sep = ""
			}
			if base, ok := cmp.Baselines[kind]; ok {
				line += fmt.Sprintf("%s %s: %.6fs", sep, kind, base)
			} else {
				line += fmt.Sprintf("%s %s: N/A", sep, kind)
			}
		}
		catcher.Add(util.Fprintln(w, line))
	}

	catcher.Add(util.Fprintln(w, fmt.Sprintf("Total data points to plot: %d", len(cmp.Entries))))
	return catcher.Resolve()
}

// chartDir is the --output directory, or the directory holding the
// results file.
func chartDir(c *cli.Context, resultsPath string) string {
	if dir := c.String(outputFlagName); dir != "" {
		return dir
	}
	return util.OutputDir(resultsPath)
}

// renderCharts writes the charts into a local bucket rooted at dir,
// rendering them concurrently.
func renderCharts(ctx context.Context, conf *speedup.Configuration, dir string, jobs []chartJob) error {
	sink, err := storage.NewSink(ctx, storage.BucketOptions{Type: storage.PailLocal, Name: dir})
	if err != nil {
		return errors.Wrap(err, "problem resolving chart directory")
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		if j.chart.Width == 0 && j.chart.Height == 0 {
			j.chart.Width = vg.Length(conf.Plot.WidthInches) * vg.Inch
			j.chart.Height = vg.Length(conf.Plot.HeightInches) * vg.Inch
		}

		g.Go(func() error {
			err := sink.WriteTo(ctx, j.key, storage.WriterFunc(func(w io.Writer) error {
				return j.chart.Render(w, conf.Plot.Format)
			}))
			if err != nil {
				return errors.WithStack(err)
			}

			grip.Info(message.Fields{
				"message": "saved plot",
				"title":   j.chart.Title,
				"path":    sink.Location(j.key),
			})
			return nil
		})
	}

	return g.Wait()
}
