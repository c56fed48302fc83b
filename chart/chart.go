// Package chart renders line charts of scaling measurements.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch
	DefaultFormat = "png"
)

// Series is a line with markers at every point.
type Series struct {
	Label  string
	X      []float64
	Y      []float64
	Color  color.Color
	Glyph  draw.GlyphDrawer
	Dashed bool
	// Markers draws circles at the points when Glyph is nil.
	Markers bool
	Width   vg.Length
}

// Reference returns a dashed gray series without markers, used for
// ideal scaling lines.
func Reference(label string, xs, ys []float64) Series {
	return Series{
		Label:  label,
		X:      xs,
		Y:      ys,
		Color:  color.Gray{Y: 160},
		Dashed: true,
	}
}

// Chart describes a single line chart.
type Chart struct {
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	Series      []Series
	References  []Series
	// XTicks, when set, places one labeled tick at each value.
	XTicks []float64
	Width  vg.Length
	Height vg.Length
}

func (c *Chart) size() (vg.Length, vg.Length) {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Plot builds the gonum plot for the chart.
func (c *Chart) Plot() (*plot.Plot, error) {
	if len(c.Series) == 0 {
		return nil, errors.New("chart has no series")
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.Title.Padding = vg.Points(10)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.X.Label.Padding = vg.Points(5)
	p.Y.Label.Padding = vg.Points(5)
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = 1 * vg.Millimeter

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 220}
	grid.Horizontal.Color = color.Gray{Y: 220}
	p.Add(grid)

	if c.LegendTitle != "" {
		p.Legend.Add(c.LegendTitle)
	}

	for idx, s := range c.Series {
		if err := addSeries(p, s, idx); err != nil {
			return nil, errors.Wrapf(err, "adding series '%s'", s.Label)
		}
	}
	for idx, s := range c.References {
		if err := addSeries(p, s, idx); err != nil {
			return nil, errors.Wrapf(err, "adding reference '%s'", s.Label)
		}
	}

	if len(c.XTicks) > 0 {
		p.X.Tick.Marker = unitTicks(c.XTicks)
	}

	return p, nil
}

func addSeries(p *plot.Plot, s Series, idx int) error {
	if len(s.X) != len(s.Y) {
		return errors.Errorf("series has %d x values and %d y values", len(s.X), len(s.Y))
	}
	if len(s.X) == 0 {
		return errors.New("series is empty")
	}

	xys := make(plotter.XYs, len(s.X))
	for i := range s.X {
		xys[i].X = s.X[i]
		xys[i].Y = s.Y[i]
	}

	lineColor := s.Color
	if lineColor == nil {
		lineColor = SeriesColors(idx + 1)[idx]
	}
	width := s.Width
	if width <= 0 {
		width = vg.Points(2)
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return errors.WithStack(err)
	}
	line.LineStyle.Width = width
	line.LineStyle.Color = lineColor
	if s.Dashed {
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		line.LineStyle.Width = vg.Points(1.5)
	}
	p.Add(line)

	if s.Glyph == nil && !s.Markers {
		p.Legend.Add(s.Label, line)
		return nil
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return errors.WithStack(err)
	}
	scatter.GlyphStyle.Color = lineColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = s.Glyph
	if s.Glyph == nil {
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	}
	p.Add(scatter)
	p.Legend.Add(s.Label, line, scatter)

	return nil
}

func unitTicks(values []float64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return ticks
}

// Render writes the chart to w in the given image format (png, svg,
// pdf, jpg, eps or tiff).
func (c *Chart) Render(w io.Writer, format string) error {
	p, err := c.Plot()
	if err != nil {
		return errors.WithStack(err)
	}

	width, height := c.size()
	wt, err := p.WriterTo(width, height, strings.ToLower(format))
	if err != nil {
		return errors.Wrapf(err, "preparing %s canvas", format)
	}

	_, err = wt.WriteTo(w)
	return errors.Wrap(err, "rendering chart")
}

// Save renders the chart to path, inferring the format from the file
// extension.
func (c *Chart) Save(path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return errors.Errorf("cannot infer image format of '%s'", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}

	catchErr := c.Render(f, format)
	if err = f.Close(); catchErr == nil {
		catchErr = errors.WithStack(err)
	}
	return catchErr
}

// FileName builds an output name of the form <prefix><base><suffix>.<format>.
func FileName(prefix, base, suffix, format string) string {
	if format == "" {
		format = DefaultFormat
	}
	return fmt.Sprintf("%s%s%s.%s", prefix, base, suffix, format)
}
