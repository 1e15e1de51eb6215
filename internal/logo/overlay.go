package logo

import (
	"image"
	"image/color"

	"github.com/cristianadrielbraun/qrstyle/internal/canvas"
)

// backingMargin is how far the light disc behind the logo extends past it.
const backingMargin = 10

// Overlay draws src at center, sized to percent of codeWidth, on top of a
// light disc that clears the modules underneath.
func Overlay(c *canvas.Canvas, src Source, center image.Point, codeWidth, percent int, light color.RGBA) {
	dim := codeWidth * percent / 100
	if dim <= 0 {
		return
	}
	c.FillCircle(float64(center.X), float64(center.Y), float64(dim)/2+backingMargin, light)
	c.DrawImage(src.Render(dim), center.X-dim/2, center.Y-dim/2)
}
