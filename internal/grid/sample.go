package grid

import "image"

const (
	// A sampled point is dark when its red channel is below this value.
	sampleThreshold = 200
	// A cell is dark when more than this share of its samples are dark.
	darkRatio = 0.3
)

// Modules is the dark/light classification of every grid cell in a raster.
type Modules struct {
	Grid       Grid
	Cols, Rows int
	// start is the absolute pixel position of cell 0, 0.
	start image.Point
	dark  []bool
}

// Dark reports whether the cell at col, row was classified dark.
func (m Modules) Dark(col, row int) bool {
	if col < 0 || row < 0 || col >= m.Cols || row >= m.Rows {
		return false
	}
	return m.dark[row*m.Cols+col]
}

// Cell returns the pixel rectangle covered by the cell at col, row, in the
// coordinates of the sampled raster. It is not clipped to the raster.
func (m Modules) Cell(col, row int) image.Rectangle {
	s := m.Grid.ModuleSize
	x := m.start.X + col*s
	y := m.start.Y + row*s
	return image.Rect(x, y, x+s, y+s)
}

// Sample classifies each cell of g by majority vote over a sparse set of
// points inside it. Cells on the raster edge are sampled over their visible
// part only.
func Sample(img *image.RGBA, g Grid) Modules {
	b := img.Bounds()
	size := g.ModuleSize
	if size < 1 {
		size = 1
		g.ModuleSize = 1
	}
	x0 := b.Min.X + g.Origin.X
	y0 := b.Min.Y + g.Origin.Y
	m := Modules{
		Grid:  g,
		Cols:  ceilDiv(b.Max.X-x0, size),
		Rows:  ceilDiv(b.Max.Y-y0, size),
		start: image.Pt(x0, y0),
	}
	m.dark = make([]bool, m.Cols*m.Rows)

	stride := size / 3
	if stride < 1 {
		stride = 1
	}
	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			cell := m.Cell(col, row).Intersect(b)
			x, xEnd := cell.Min.X, cell.Max.X
			y, yEnd := cell.Min.Y, cell.Max.Y

			darkPoints, total := 0, 0
			for sy := y; sy < yEnd; sy += stride {
				for sx := x; sx < xEnd; sx += stride {
					if red(img, sx, sy) < sampleThreshold {
						darkPoints++
					}
					total++
				}
			}
			if total > 0 && float64(darkPoints)/float64(total) > darkRatio {
				m.dark[row*m.Cols+col] = true
			}
		}
	}
	return m
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
