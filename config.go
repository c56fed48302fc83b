package speedup

import (
	"github.com/evergreen-ci/speedup/points"
	"github.com/evergreen-ci/speedup/storage"
	"github.com/evergreen-ci/speedup/util"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// Configuration defines the settings shared by all commands. Zero
// values are replaced with defaults by Validate.
type Configuration struct {
	NumWorkers int                   `yaml:"workers"`
	Output     storage.BucketOptions `yaml:"output"`
	Points     PointsConfig          `yaml:"points"`
	Plot       PlotConfig            `yaml:"plot"`
}

type PointsConfig struct {
	Sizes     []int                   `yaml:"sizes"`
	Function  points.Spec             `yaml:"function"`
	Generator points.GeneratorOptions `yaml:"generator"`
}

type PlotConfig struct {
	Units        []int   `yaml:"units"`
	TargetSize   int     `yaml:"target_size"`
	BaseSize     int     `yaml:"base_size"`
	Format       string  `yaml:"format"`
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
	Label        string  `yaml:"label"`
}

var supportedFormats = []string{"png", "svg", "pdf", "jpg", "jpeg", "eps", "tif", "tiff"}

// DefaultConfiguration returns the settings used when no configuration
// file is given.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		NumWorkers: 2,
		Output: storage.BucketOptions{
			Type: storage.PailLocal,
			Name: DefaultOutputDir,
		},
		Points: PointsConfig{
			Sizes:    append([]int{}, points.DefaultSizes...),
			Function: points.Spec{Preset: points.PresetCubic},
			Generator: points.GeneratorOptions{
				XMin:       points.DefaultXMin,
				XMax:       points.DefaultXMax,
				Noise:      points.DefaultNoise,
				MatchRatio: points.DefaultMatchRatio,
			},
		},
		Plot: PlotConfig{
			Units:        []int{1, 2, 4, 8, 12, 16},
			TargetSize:   DefaultTargetSize,
			BaseSize:     DefaultBaseSize,
			Format:       "png",
			WidthInches:  10,
			HeightInches: 6,
			Label:        "Parallel units",
		},
	}
}

// LoadConfiguration reads a YAML file on top of the defaults.
func LoadConfiguration(path string) (*Configuration, error) {
	conf := DefaultConfiguration()
	if path == "" {
		return conf, errors.WithStack(conf.Validate())
	}

	if err := util.ReadFileYAML(path, conf); err != nil {
		return nil, errors.Wrap(err, "problem loading configuration")
	}

	return conf, errors.Wrapf(conf.Validate(), "invalid configuration in '%s'", path)
}

func (c *Configuration) Validate() error {
	catcher := grip.NewBasicCatcher()

	if c.NumWorkers == 0 {
		c.NumWorkers = 2
	}
	if c.Plot.Format == "" {
		c.Plot.Format = "png"
	}
	if c.Plot.BaseSize <= 0 {
		c.Plot.BaseSize = DefaultBaseSize
	}
	if c.Plot.TargetSize <= 0 {
		c.Plot.TargetSize = DefaultTargetSize
	}
	if c.Plot.WidthInches <= 0 {
		c.Plot.WidthInches = 10
	}
	if c.Plot.HeightInches <= 0 {
		c.Plot.HeightInches = 6
	}

	catcher.NewWhen(c.NumWorkers < 1, "must specify a valid number of workers")
	catcher.NewWhen(len(c.Points.Sizes) == 0, "must specify at least one point list size")
	for _, size := range c.Points.Sizes {
		catcher.ErrorfWhen(size <= 0, "invalid point list size %d", size)
	}
	for _, u := range c.Plot.Units {
		catcher.ErrorfWhen(u <= 0, "invalid unit count %d", u)
	}
	catcher.ErrorfWhen(!utility.StringSliceContains(supportedFormats, c.Plot.Format), "unsupported image format '%s'", c.Plot.Format)

	_, err := c.Points.Function.Function()
	catcher.Wrap(err, "invalid function")
	catcher.Wrap(c.Points.Generator.Validate(), "invalid generator options")
	catcher.Wrap(c.Output.Validate(), "invalid output")

	return catcher.Resolve()
}
