// Package style redraws the dark modules of a QR raster with a different
// pixel shape.
package style

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/cristianadrielbraun/qrstyle/internal/canvas"
	"github.com/cristianadrielbraun/qrstyle/internal/grid"
)

// PixelStyle selects the shape used for dark modules.
type PixelStyle string

const (
	Square  PixelStyle = "square"
	Rounded PixelStyle = "rounded"
	Dots    PixelStyle = "dots"
)

const (
	dotRadius     = 0.4
	roundedSide   = 0.85
	roundedRadius = 0.25
)

// ErrUnknownStyle is returned for a pixel style Render cannot draw.
var ErrUnknownStyle = errors.New("unknown pixel style")

// Render returns raw redrawn in the requested style together with the grid
// it used. Square (and the empty style) is returned untouched with a zero
// grid. Rounded and dots infer the module grid with est and paint a fresh
// canvas of the same size. Any other style is an error.
func Render(raw *image.RGBA, ps PixelStyle, dark, light color.RGBA, est grid.Estimator) (*image.RGBA, grid.Grid, error) {
	switch ps {
	case Square, "":
		return raw, grid.Grid{}, nil
	case Rounded, Dots:
	default:
		return nil, grid.Grid{}, fmt.Errorf("%w %q", ErrUnknownStyle, ps)
	}

	g := est.Estimate(raw)
	modules := grid.Sample(raw, g)

	b := raw.Bounds()
	c := canvas.New(b.Dx(), b.Dy())
	c.Fill(light)

	m := float64(g.ModuleSize)
	for row := 0; row < modules.Rows; row++ {
		for col := 0; col < modules.Cols; col++ {
			if !modules.Dark(col, row) {
				continue
			}
			// The canvas starts at 0, 0 whatever the raster bounds are.
			cell := modules.Cell(col, row).Sub(b.Min)
			cx := float64(cell.Min.X) + m/2
			cy := float64(cell.Min.Y) + m/2

			switch ps {
			case Dots:
				c.FillCircle(cx, cy, m*dotRadius, dark)
			case Rounded:
				side := m * roundedSide
				c.FillRoundedRect(cx-side/2, cy-side/2, side, side, m*roundedRadius, dark)
			}
		}
	}
	return c.Image(), g, nil
}
