package chart

import (
	"image/color"

	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/vg/draw"
)

var (
	blue  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	red   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	green = color.RGBA{R: 44, G: 160, B: 44, A: 255}

	// LightBlue is used for the "perfect" scaling references.
	LightBlue = color.RGBA{R: 173, G: 216, B: 230, A: 255}
)

// Style is the color and marker of an implementation.
type Style struct {
	Color color.Color
	Glyph draw.GlyphDrawer
}

// KindStyle returns the style used for a parallel implementation name.
// Unknown names get a gray circle.
func KindStyle(kind string) Style {
	switch kind {
	case "MPI":
		return Style{Color: blue, Glyph: draw.CircleGlyph{}}
	case "OpenMP":
		return Style{Color: red, Glyph: draw.SquareGlyph{}}
	case "Hybrid":
		return Style{Color: green, Glyph: draw.CircleGlyph{}}
	default:
		return Style{Color: color.Gray{Y: 96}, Glyph: draw.CircleGlyph{}}
	}
}

// SeriesColors returns n distinguishable colors, cycling through a
// qualitative palette when n exceeds its size.
func SeriesColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	size := n
	if size < 3 {
		size = 3
	}
	if size > 9 {
		size = 9
	}

	palette, err := brewer.GetPalette(brewer.TypeQualitative, "Set1", size)
	if err != nil {
		return fallbackColors(n)
	}

	base := palette.Colors()
	out := make([]color.Color, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}

func fallbackColors(n int) []color.Color {
	base := []color.Color{blue, red, green}
	out := make([]color.Color, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}
