// Package frame composites a finished code image into its final canvas,
// optionally surrounded by a decorative frame.
package frame

import (
	"image"
	"image/color"

	"github.com/cristianadrielbraun/qrstyle/internal/canvas"
)

// Style selects the frame drawn around the code.
type Style string

const (
	None    Style = "none"
	Rounded Style = "rounded"
	Square  Style = "square"
	Circle  Style = "circle"
)

const (
	// Padding is added on every side of the code when a frame is drawn.
	Padding = 40
	// Width is the thickness of the frame ring.
	Width        = 8
	CornerRadius = 20
)

// PaddingFor returns the padding s adds on each side of the code.
func PaddingFor(s Style) int {
	if s == None || s == "" {
		return 0
	}
	return Padding
}

// Compose returns a fresh canvas with code drawn on it, framed according to s.
// Without a frame the canvas is a copy of code; with one it is Padding pixels
// larger on every side.
func Compose(code *image.RGBA, s Style, dark, light color.RGBA) *canvas.Canvas {
	pad := PaddingFor(s)
	if pad == 0 {
		return canvas.FromImage(code)
	}

	side := code.Bounds().Dx() + 2*pad
	c := canvas.New(side, side)
	c.Fill(light)

	full := float64(side)
	switch s {
	case Circle:
		r := full / 2
		c.FillCircle(r, r, r, dark)
		c.PunchCircle(r, r, r-Width)
	case Square:
		ring(c, full, 0, dark, light)
	default:
		ring(c, full, CornerRadius, dark, light)
	}

	c.DrawImage(code, pad, pad)
	return c
}

// ring paints a dark rounded rectangle over the whole canvas and a light one
// inset by Width on top of it. The inner radius shrinks by Width so the ring
// keeps a constant thickness around the corners.
func ring(c *canvas.Canvas, side, radius float64, dark, light color.RGBA) {
	c.FillRoundedRect(0, 0, side, side, radius, dark)
	c.FillRoundedRect(Width, Width, side-2*Width, side-2*Width, max(radius-Width, 0), light)
}
