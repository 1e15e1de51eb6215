// Package canvas is the 2D drawing surface used by the render pipeline: filled
// paths, image blits and a punch-through composite. Shapes are rasterized by
// github.com/fogleman/gg.
package canvas

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Canvas is a mutable RGBA surface. It is not safe for concurrent use.
type Canvas struct {
	im *image.RGBA
	dc *gg.Context
}

// New allocates a transparent w×h canvas.
func New(w, h int) *Canvas {
	return wrap(image.NewRGBA(image.Rect(0, 0, w, h)))
}

// FromImage returns a canvas holding a copy of img.
func FromImage(img image.Image) *Canvas {
	b := img.Bounds()
	c := New(b.Dx(), b.Dy())
	draw.Draw(c.im, c.im.Bounds(), img, b.Min, draw.Src)
	return c
}

func wrap(im *image.RGBA) *Canvas {
	return &Canvas{im: im, dc: gg.NewContextForRGBA(im)}
}

func (c *Canvas) Width() int  { return c.im.Bounds().Dx() }
func (c *Canvas) Height() int { return c.im.Bounds().Dy() }

// Image returns the backing image. Later drawing on c shows through it.
func (c *Canvas) Image() *image.RGBA { return c.im }

// Fill replaces every pixel with col.
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.im, c.im.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillRect paints an axis-aligned rectangle.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	c.dc.DrawRectangle(x, y, w, h)
	c.fill(col)
}

// FillRoundedRect paints a rectangle with circular corners of radius r. A
// radius of zero or less paints a plain rectangle.
func (c *Canvas) FillRoundedRect(x, y, w, h, r float64, col color.Color) {
	if r <= 0 {
		c.FillRect(x, y, w, h, col)
		return
	}
	if m := min(w, h) / 2; r > m {
		r = m
	}
	c.dc.DrawRoundedRectangle(x, y, w, h, r)
	c.fill(col)
}

// FillCircle paints a disc.
func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	c.dc.DrawCircle(cx, cy, r)
	c.fill(col)
}

// DrawImage composites img over the canvas with its top-left corner at x, y.
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	b := img.Bounds()
	draw.Draw(c.im, image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min, draw.Over)
}

func (c *Canvas) fill(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Fill()
}
