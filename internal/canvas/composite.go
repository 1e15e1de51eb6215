package canvas

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// PunchCircle erases a disc to transparent using destination-out compositing:
// every pixel keeps (1 - coverage) of its color and alpha, so pixels outside
// the disc are untouched.
func (c *Canvas) PunchCircle(cx, cy, r float64) {
	mc := gg.NewContext(c.Width(), c.Height())
	mc.DrawCircle(cx, cy, r)
	mc.SetColor(color.Black)
	mc.Fill()
	destinationOut(c.im, mc.AsMask())
}

func destinationOut(dst *image.RGBA, mask *image.Alpha) {
	b := dst.Bounds().Intersect(mask.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := uint32(mask.AlphaAt(x, y).A)
			if a == 0 {
				continue
			}
			keep := 0xff - a
			i := dst.PixOffset(x, y)
			for k := 0; k < 4; k++ {
				dst.Pix[i+k] = uint8(uint32(dst.Pix[i+k]) * keep / 0xff)
			}
		}
	}
}
