package operations

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/evergreen-ci/speedup"
	"github.com/evergreen-ci/speedup/results"
	"github.com/evergreen-ci/speedup/storage"
	"github.com/evergreen-ci/speedup/units"
	"github.com/mongodb/amboy"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Export converts results files into archive formats.
func Export() cli.Command {
	return cli.Command{
		Name:  "export",
		Usage: "convert benchmark results into FTDC or parquet archives",
		Subcommands: []cli.Command{
			exportResults(units.ExportFTDC),
			exportResults(units.ExportParquet),
		},
	}
}

func exportResults(format units.ExportFormat) cli.Command {
	return cli.Command{
		Name:  string(format),
		Usage: "write the results file as " + string(format),
		Flags: mergeFlags(
			baseFlags(),
			addPathFlag(),
			layoutFlags(),
			addOutputDirFlag("", "directory or bucket name, defaults to the directory of the results file"),
			[]cli.Flag{cli.BoolFlag{
				Name:  lenientFlag,
				Usage: "skip rows that cannot be parsed",
			}}),
		Before: mergeBeforeFuncs(
			setFlagOrFirstPositional(pathFlagName),
			requireResultsFile(pathFlagName)),
		Action: func(c *cli.Context) error {
			conf, err := loadConfig(c)
			if err != nil {
				return errors.WithStack(err)
			}

			path := c.String(pathFlagName)
			if c.IsSet(outputFlagName) {
				conf.Output.Name = c.String(outputFlagName)
			} else if !c.IsSet(bucketNameFlag) && conf.Output.Type == storage.PailLocal {
				conf.Output.Name = chartDir(c, path)
			}

			layout := results.LayoutFlat
			kind := results.Kind(c.String(kindFlag))
			if c.Bool(hybridLayoutFlag) {
				layout = results.LayoutHybrid
				if kind == "" {
					kind = results.KindHybrid
				}
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := configure(ctx, conf)
			if err != nil {
				return errors.WithStack(err)
			}
			defer func() { grip.Warning(env.Close(ctx)) }()

			return errors.WithStack(exportResultsFile(ctx, env, units.ExportResultsOptions{
				Path:    path,
				Layout:  layout,
				Kind:    kind,
				Format:  format,
				Key:     ExportKey(path, format),
				Bucket:  conf.Output,
				Lenient: c.Bool(lenientFlag),
			}))
		},
	}
}

// ExportKey names the archive of a results file, e.g. results.mpi.ftdc
// for results.mpi.csv.
func ExportKey(path string, format units.ExportFormat) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + string(format)
}

func exportResultsFile(ctx context.Context, env speedup.Environment, opts units.ExportResultsOptions) error {
	q, err := env.GetQueue()
	if err != nil {
		return errors.WithStack(err)
	}

	j, err := units.NewExportResultsJob(opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(units.RunJobs(ctx, q, []amboy.Job{j}))
}
