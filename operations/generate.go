package operations

import (
	"context"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/evergreen-ci/speedup"
	"github.com/evergreen-ci/speedup/points"
	"github.com/evergreen-ci/speedup/storage"
	"github.com/evergreen-ci/speedup/units"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Generate produces the synthetic datasets consumed by the benchmarked
// programs.
func Generate() cli.Command {
	return cli.Command{
		Name:  "generate",
		Usage: "generate synthetic datasets",
		Subcommands: []cli.Command{
			generatePoints(),
		},
	}
}

func generatePoints() cli.Command {
	return cli.Command{
		Name:  "points",
		Usage: "write point lists scattered around a polynomial",
		Flags: mergeFlags(
			baseFlags(),
			generateFlags(),
			addOutputDirFlag(speedup.DefaultOutputDir, "directory or bucket name for the point lists")),
		Action: func(c *cli.Context) error {
			conf, err := loadConfig(c)
			if err != nil {
				return errors.WithStack(err)
			}
			if err = applyGenerateFlags(c, conf); err != nil {
				return errors.WithStack(err)
			}
			if conf.Points.Generator.Seed == 0 {
				conf.Points.Generator.Seed = timeSeed()
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := configure(ctx, conf)
			if err != nil {
				return errors.WithStack(err)
			}
			defer func() { grip.Warning(env.Close(ctx)) }()

			return errors.WithStack(generatePointLists(ctx, env, conf))
		},
	}
}

// applyGenerateFlags overrides the point generation settings with the
// flags that were set and validates the result.
func applyGenerateFlags(c *cli.Context, conf *speedup.Configuration) error {
	if c.IsSet(outputFlagName) {
		conf.Output.Name = c.String(outputFlagName)
	}
	if c.IsSet(sizesFlag) {
		sizes, err := parseIntList(c.StringSlice(sizesFlag))
		if err != nil {
			return errors.Wrapf(err, "invalid --%s", sizesFlag)
		}
		conf.Points.Sizes = sizes
	}
	if c.IsSet(presetFlag) {
		conf.Points.Function.Preset = c.String(presetFlag)
		conf.Points.Function.Coefficients = nil
	}
	if c.IsSet(coefficientsFlag) {
		coefficients, err := parseFloatList(c.StringSlice(coefficientsFlag))
		if err != nil {
			return errors.Wrapf(err, "invalid --%s", coefficientsFlag)
		}
		conf.Points.Function.Coefficients = coefficients
	}

	gen := &conf.Points.Generator
	if c.IsSet(seedFlag) {
		gen.Seed = c.Int64(seedFlag)
	}
	if c.IsSet(noiseFlag) {
		gen.Noise = c.Float64(noiseFlag)
	}
	if c.IsSet(matchRatioFlag) {
		gen.MatchRatio = c.Float64(matchRatioFlag)
	}
	if c.IsSet(xMinFlag) {
		gen.XMin = c.Float64(xMinFlag)
	}
	if c.IsSet(xMaxFlag) {
		gen.XMax = c.Float64(xMaxFlag)
	}

	return errors.WithStack(conf.Validate())
}

// generatePointLists writes the coefficients file, one point list per
// size on the environment's queue, and finally the sizes file.
func generatePointLists(ctx context.Context, env speedup.Environment, conf *speedup.Configuration) error {
	fn, err := conf.Points.Function.Function()
	if err != nil {
		return errors.WithStack(err)
	}

	q, err := env.GetQueue()
	if err != nil {
		return errors.WithStack(err)
	}

	sink, err := storage.NewSink(ctx, conf.Output)
	if err != nil {
		return errors.Wrap(err, "problem resolving output")
	}

	err = sink.WriteTo(ctx, points.CoefficientsFileName, storage.WriterFunc(func(w io.Writer) error {
		return points.WriteCoefficients(w, fn)
	}))
	if err != nil {
		return errors.WithStack(err)
	}

	grip.Info(message.Fields{
		"message":  "generating point lists",
		"function": fn,
		"sizes":    conf.Points.Sizes,
		"seed":     conf.Points.Generator.Seed,
		"output":   sink.Location(""),
	})

	if err = units.GeneratePointLists(ctx, q, conf.Points.Sizes, conf.Points.Function, conf.Points.Generator, sink.Options()); err != nil {
		return errors.Wrap(err, "problem generating point lists")
	}

	err = sink.WriteTo(ctx, points.SizesFileName, storage.WriterFunc(func(w io.Writer) error {
		return points.WriteSizes(w, conf.Points.Sizes)
	}))
	if err != nil {
		return errors.WithStack(err)
	}

	total := 0
	for _, size := range conf.Points.Sizes {
		total += size
	}
	grip.Info(message.Fields{
		"message": "generated point lists",
		"lists":   len(conf.Points.Sizes),
		"points":  humanize.Comma(int64(total)),
		"sizes":   sink.Location(points.SizesFileName),
	})

	return nil
}
