package operations

import (
	"strconv"
	"strings"

	"github.com/evergreen-ci/speedup"
	"github.com/evergreen-ci/speedup/points"
	"github.com/evergreen-ci/speedup/storage"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Name Constants

const (
	configFlag     = "config"
	pathFlagName   = "path"
	outputFlagName = "output"
	formatFlagName = "format"

	numWorkersFlag   = "workers"
	bucketTypeFlag   = "bucket-type"
	bucketNameFlag   = "bucket"
	bucketPrefixFlag = "bucket-prefix"
	bucketRegionFlag = "region"

	sizesFlag        = "sizes"
	presetFlag       = "preset"
	coefficientsFlag = "coefficients"
	seedFlag         = "seed"
	noiseFlag        = "noise"
	matchRatioFlag   = "match-ratio"
	xMinFlag         = "x-min"
	xMaxFlag         = "x-max"

	unitsFlag           = "units"
	prefixFlag          = "prefix"
	suffixFlag          = "suffix"
	labelFlag           = "label"
	titleFlag           = "title"
	titleSpeedupFlag    = "title-speedup"
	titleEfficiencyFlag = "title-efficiency"
	lenientFlag         = "lenient"
	hybridLayoutFlag    = "hybrid-layout"
	kindFlag            = "kind"

	mpiFileFlag    = "mpi"
	ompFileFlag    = "omp"
	hybridFileFlag = "hybrid"
	sizeFlag       = "size"
	baseSizeFlag   = "base-size"

	defaultSpeedupTitle    = "Speedup relative to parallel unit count"
	defaultEfficiencyTitle = "Efficiency relative to parallel unit count"
	defaultTimeTitle       = "Execution time vs parallel units"
	defaultCompareDir      = "out"
)

////////////////////////////////////////////////////////////////////////
//
// Utility Functions

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func mergeFlags(in ...[]cli.Flag) []cli.Flag {
	out := []cli.Flag{}

	for idx := range in {
		out = append(out, in[idx]...)
	}

	return out
}

// splitList flattens repeated and comma separated flag values.
func splitList(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, field := range strings.Split(v, ",") {
			field = strings.TrimSpace(field)
			if field != "" {
				out = append(out, field)
			}
		}
	}
	return out
}

func parseIntList(values []string) ([]int, error) {
	out := []int{}
	for _, v := range splitList(values) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Errorf("'%s' is not an integer", v)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseFloatList(values []string) ([]float64, error) {
	out := []float64{}
	for _, v := range splitList(values) {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Errorf("'%s' is not a number", v)
		}
		out = append(out, n)
	}
	return out, nil
}

////////////////////////////////////////////////////////////////////////
//
// Flag Groups

func addConfigFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:   configFlag,
		Usage:  "path to a speedup YAML configuration file",
		EnvVar: "SPEEDUP_CONFIG",
	})
}

func addPathFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(pathFlagName, "filename", "file", "f"),
		Usage: "path to the results CSV file",
	})
}

func addOutputDirFlag(value, usage string, flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(outputFlagName, "o"),
		Usage: usage,
		Value: value,
	})
}

func addFormatFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  formatFlagName,
		Usage: "image format of the charts (png, svg, pdf, ...)",
	})
}

func baseFlags(flags ...cli.Flag) []cli.Flag {
	return append(addConfigFlag(flags...),
		cli.IntFlag{
			Name:  numWorkersFlag,
			Usage: "specify the number of worker jobs this process will have",
			Value: 2,
		},
		cli.StringFlag{
			Name:  bucketTypeFlag,
			Usage: "specify the storage backing the output ('local' or 's3')",
			Value: string(storage.PailLocal),
		},
		cli.StringFlag{
			Name:   bucketNameFlag,
			Usage:  "specify a bucket name to use for storing data in s3",
			EnvVar: "SPEEDUP_BUCKET_NAME",
		},
		cli.StringFlag{
			Name:  bucketPrefixFlag,
			Usage: "specify a key prefix within the bucket",
		},
		cli.StringFlag{
			Name:  bucketRegionFlag,
			Usage: "specify the s3 region of the bucket",
		})
}

func generateFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringSliceFlag{
			Name:  sizesFlag,
			Usage: "number of points of each list, repeatable or comma separated",
		},
		cli.StringFlag{
			Name:  presetFlag,
			Usage: "reference polynomial ('cubic' or 'quintic')",
		},
		cli.StringSliceFlag{
			Name:  coefficientsFlag,
			Usage: "polynomial coefficients from the highest degree down; overrides the preset",
		},
		cli.Int64Flag{
			Name:  seedFlag,
			Usage: "random seed; a time based seed is used when zero",
		},
		cli.Float64Flag{
			Name:  noiseFlag,
			Usage: "maximum offset of noisy points from the function",
			Value: points.DefaultNoise,
		},
		cli.Float64Flag{
			Name:  matchRatioFlag,
			Usage: "fraction of points lying exactly on the function",
			Value: points.DefaultMatchRatio,
		},
		cli.Float64Flag{
			Name:  xMinFlag,
			Usage: "lower bound of the sampled x range",
			Value: points.DefaultXMin,
		},
		cli.Float64Flag{
			Name:  xMaxFlag,
			Usage: "upper bound of the sampled x range",
			Value: points.DefaultXMax,
		})
}

func chartNameFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  prefixFlag,
			Usage: "prefix for output filenames",
		},
		cli.StringFlag{
			Name:  suffixFlag,
			Usage: "suffix for output filenames",
		},
		cli.StringFlag{
			Name:  labelFlag,
			Usage: "label for the x-axis (e.g., 'Threads', 'Processes', 'Units')",
		})
}

func scalingFlags(flags ...cli.Flag) []cli.Flag {
	return append(chartNameFlags(flags...),
		cli.StringSliceFlag{
			Name:  joinFlagNames(unitsFlag, "u"),
			Usage: "unit counts to analyze, repeatable or comma separated",
		},
		cli.StringFlag{
			Name:  titleSpeedupFlag,
			Usage: "title for the speedup plot",
			Value: defaultSpeedupTitle,
		},
		cli.StringFlag{
			Name:  titleEfficiencyFlag,
			Usage: "title for the efficiency plot",
			Value: defaultEfficiencyTitle,
		},
		cli.BoolFlag{
			Name:  lenientFlag,
			Usage: "skip rows that cannot be parsed",
		})
}

func timeFlags(flags ...cli.Flag) []cli.Flag {
	return append(chartNameFlags(flags...),
		cli.StringFlag{
			Name:  titleFlag,
			Usage: "plot title",
			Value: defaultTimeTitle,
		},
		cli.BoolTFlag{
			Name:  lenientFlag,
			Usage: "skip rows that cannot be parsed",
		})
}

func compareFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  mpiFileFlag,
			Usage: "results of the MPI implementation",
			Value: "out/results.mpi.csv",
		},
		cli.StringFlag{
			Name:  ompFileFlag,
			Usage: "results of the OpenMP implementation",
			Value: "out/results.opm.csv",
		},
		cli.StringFlag{
			Name:  hybridFileFlag,
			Usage: "results of the hybrid implementation (procs,threads,size,time)",
			Value: "out/results.hybrid.csv",
		},
		cli.IntFlag{
			Name:  sizeFlag,
			Usage: "workload size to compare",
			Value: speedup.DefaultTargetSize,
		},
		cli.IntFlag{
			Name:  baseSizeFlag,
			Usage: "workload size labelled W",
			Value: speedup.DefaultBaseSize,
		})
}

func layoutFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.BoolFlag{
			Name:  hybridLayoutFlag,
			Usage: "rows are procs,threads,size,time instead of units,size,time",
		},
		cli.StringFlag{
			Name:  kindFlag,
			Usage: "implementation the results belong to (MPI, OpenMP, Hybrid)",
		})
}

func setFlagOrFirstPositional(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		val := c.String(name)
		if val == "" {
			if c.NArg() != 1 {
				return errors.Errorf("must specify exactly one positional argument for '%s'", name)
			}

			val = c.Args().Get(0)
		}

		return c.Set(name, val)
	}
}
