package points

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"strconv"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const (
	DefaultXMin       = -1000.0
	DefaultXMax       = 1000.0
	DefaultNoise      = 50.0
	DefaultMatchRatio = 0.5

	// progressInterval controls how often WriteTo logs.
	progressInterval = 1000 * 1000
)

// DefaultSizes are the list sizes generated when none are requested.
var DefaultSizes = []int{4000000, 8000000, 16000000, 32000000, 64000000}

// Point is a single sample.
type Point struct {
	X float64
	Y float64
}

// GeneratorOptions configure the sampling interval and noise.
type GeneratorOptions struct {
	XMin       float64 `bson:"x_min" json:"x_min" yaml:"x_min"`
	XMax       float64 `bson:"x_max" json:"x_max" yaml:"x_max"`
	Noise      float64 `bson:"noise" json:"noise" yaml:"noise"`
	MatchRatio float64 `bson:"match_ratio" json:"match_ratio" yaml:"match_ratio"`
	Seed       int64   `bson:"seed" json:"seed" yaml:"seed"`
}

// IsZero reports whether no sampling setting was given; the seed is
// not a sampling setting.
func (opts GeneratorOptions) IsZero() bool {
	return opts.XMin == 0 && opts.XMax == 0 && opts.Noise == 0 && opts.MatchRatio == 0
}

// Validate fills in defaults and checks the ranges. Options without any
// sampling setting take every default; otherwise only an unset x range
// is defaulted, so an explicit zero noise or match ratio is kept.
func (opts *GeneratorOptions) Validate() error {
	catcher := grip.NewBasicCatcher()

	if opts.IsZero() {
		opts.Noise, opts.MatchRatio = DefaultNoise, DefaultMatchRatio
	}
	if opts.XMin == 0 && opts.XMax == 0 {
		opts.XMin, opts.XMax = DefaultXMin, DefaultXMax
	}
	catcher.NewWhen(opts.XMax <= opts.XMin, "x range must be non-empty")
	catcher.NewWhen(opts.Noise < 0, "noise must not be negative")
	catcher.NewWhen(opts.MatchRatio < 0 || opts.MatchRatio > 1, "match ratio must be between 0 and 1")

	return catcher.Resolve()
}

// Generator produces points scattered around a function. Each point
// either lies exactly on the function or is offset by uniform noise.
// A Generator is not safe for concurrent use.
type Generator struct {
	fn   Function
	opts GeneratorOptions
	rng  *rand.Rand
}

func NewGenerator(fn Function, opts GeneratorOptions) (*Generator, error) {
	if fn == nil {
		return nil, errors.New("must specify a function")
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid generator options")
	}

	return &Generator{
		fn:   fn,
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

func (g *Generator) uniform(low, high float64) float64 {
	return low + (high-low)*g.rng.Float64()
}

// Next draws a single point.
func (g *Generator) Next() Point {
	x := g.uniform(g.opts.XMin, g.opts.XMax)
	y := g.fn.Eval(x)
	if g.rng.Float64() >= g.opts.MatchRatio {
		y += g.uniform(-g.opts.Noise, g.opts.Noise)
	}

	return Point{X: x, Y: y}
}

// WriteTo streams n points to w, one "x,y" pair per line.
func (g *Generator) WriteTo(ctx context.Context, w io.Writer, n int) error {
	buf := bufio.NewWriter(w)
	line := make([]byte, 0, 64)

	for i := 1; i <= n; i++ {
		if i%progressInterval == 0 {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, "operation canceled")
			}
			grip.Debug(message.Fields{
				"message": "generating points",
				"n":       i,
				"total":   n,
			})
		}

		line = appendPoint(line[:0], g.Next())
		if _, err := buf.Write(line); err != nil {
			return errors.Wrap(err, "writing point")
		}
	}

	return errors.Wrap(buf.Flush(), "flushing points")
}

func appendPoint(dst []byte, p Point) []byte {
	dst = strconv.AppendFloat(dst, p.X, 'g', -1, 64)
	dst = append(dst, ',')
	dst = strconv.AppendFloat(dst, p.Y, 'g', -1, 64)
	return append(dst, '\n')
}
