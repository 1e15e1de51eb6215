package grid

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/cristianadrielbraun/qrstyle/internal/encoder"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// testPattern returns an n×n module pattern whose first row alternates
// dark/light like a timing pattern and whose remaining rows are random.
func testPattern(n int, seed int64) [][]bool {
	rnd := rand.New(rand.NewSource(seed))
	p := make([][]bool, n)
	for y := range p {
		p[y] = make([]bool, n)
		for x := range p[y] {
			if y == 0 {
				p[y][x] = x%2 == 0
				continue
			}
			p[y][x] = rnd.Intn(2) == 0
		}
	}
	return p
}

// paint draws pattern onto a light raster with the given pitch, placing the
// first module at (off, off).
func paint(pattern [][]bool, pitch, off, side int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], []uint8{255, 255, 255, 255})
	}
	for y, row := range pattern {
		for x, dark := range row {
			if !dark {
				continue
			}
			for py := off + y*pitch; py < off+(y+1)*pitch; py++ {
				for px := off + x*pitch; px < off+(x+1)*pitch; px++ {
					img.SetRGBA(px, py, black)
				}
			}
		}
	}
	return img
}

func TestRunLengthEstimatorRecoversPitch(t *testing.T) {
	tests := []struct {
		pitch, off int
		origin     image.Point
	}{
		{pitch: 8, off: 0, origin: image.Pt(0, 0)},
		{pitch: 9, off: 4, origin: image.Pt(4, 4)},
		{pitch: 12, off: 30, origin: image.Pt(6, 6)},
		{pitch: 20, off: 20, origin: image.Pt(0, 0)},
		{pitch: 33, off: 5, origin: image.Pt(5, 5)},
		{pitch: 50, off: 50, origin: image.Pt(0, 0)},
	}

	for _, test := range tests {
		pattern := testPattern(21, int64(test.pitch))
		side := test.off + 23*test.pitch
		img := paint(pattern, test.pitch, test.off, side)

		g := RunLengthEstimator{}.Estimate(img)
		if d := g.ModuleSize - test.pitch; d < -1 || d > 1 {
			t.Errorf("pitch %d: estimated module size %d", test.pitch, g.ModuleSize)
		}
		if g.Origin != test.origin {
			t.Errorf("pitch %d: origin mismatch: got=%v want=%v", test.pitch, g.Origin, test.origin)
		}
	}
}

func TestRunLengthEstimatorBlankRaster(t *testing.T) {
	img := paint(nil, 10, 0, 500)
	if g := (RunLengthEstimator{}).Estimate(img); g.ModuleSize != DefaultModuleSize {
		t.Fatalf("blank raster should fall back to the default: got=%d", g.ModuleSize)
	}
}

func TestRunLengthEstimatorClampsOversizedPitch(t *testing.T) {
	img := paint(testPattern(21, 1), 60, 0, 23*60)
	if g := (RunLengthEstimator{}).Estimate(img); g.ModuleSize != MaxModuleSize {
		t.Fatalf("expected clamp to %d, got=%d", MaxModuleSize, g.ModuleSize)
	}
}

func TestTransitionEstimatorFormula(t *testing.T) {
	// Every row in the 10..49 band alternates with a 10 pixel pitch across a
	// 1000 pixel raster: 99 transitions, so 1000 / 49.5 = 20.
	n := 100
	pattern := make([][]bool, n)
	for y := range pattern {
		pattern[y] = make([]bool, n)
		for x := range pattern[y] {
			pattern[y][x] = x%2 == 0
		}
	}
	img := paint(pattern, 10, 0, 1000)

	if g := (TransitionEstimator{}).Estimate(img); g.ModuleSize != 20 {
		t.Fatalf("module size mismatch: got=%d want=20", g.ModuleSize)
	}
	if g := (TransitionEstimator{}).Estimate(paint(nil, 10, 0, 1000)); g.ModuleSize != DefaultModuleSize {
		t.Fatalf("blank raster should fall back to the default: got=%d", g.ModuleSize)
	}
}

func TestNewEstimator(t *testing.T) {
	if e, err := NewEstimator(""); err != nil || e == nil {
		t.Fatalf("default estimator: %v", err)
	}
	if _, ok := mustEstimator(t, EstimatorTransition).(TransitionEstimator); !ok {
		t.Fatalf("expected TransitionEstimator")
	}
	if _, err := NewEstimator("fourier"); err == nil {
		t.Fatalf("expected error for unknown estimator")
	}
}

func mustEstimator(t *testing.T, name string) Estimator {
	t.Helper()
	e, err := NewEstimator(name)
	if err != nil {
		t.Fatalf("new estimator %q: %v", name, err)
	}
	return e
}

func TestSampleReproducesPattern(t *testing.T) {
	const pitch, off = 15, 6
	pattern := testPattern(25, 7)
	img := paint(pattern, pitch, off, off+27*pitch)

	m := Sample(img, Grid{ModuleSize: pitch, Origin: image.Pt(off, off)})
	for y, row := range pattern {
		for x, want := range row {
			if got := m.Dark(x, y); got != want {
				t.Fatalf("cell %d,%d: got=%v want=%v", x, y, got, want)
			}
		}
	}
	// The trailing quiet zone stays light.
	if m.Dark(26, 26) {
		t.Fatalf("quiet zone cell classified dark")
	}
	if r := m.Cell(1, 2); r != image.Rect(off+pitch, off+2*pitch, off+2*pitch, off+3*pitch) {
		t.Fatalf("cell rectangle mismatch: got=%v", r)
	}
}

func TestSampleCellsUseRasterBounds(t *testing.T) {
	const pitch, off = 10, 4
	pattern := testPattern(8, 3)
	base := paint(pattern, pitch, off, off+9*pitch)

	corner := image.Pt(200, 300)
	shifted := &image.RGBA{
		Pix:    base.Pix,
		Stride: base.Stride,
		Rect:   base.Rect.Add(corner),
	}

	m := Sample(shifted, Grid{ModuleSize: pitch, Origin: image.Pt(off, off)})
	for y, row := range pattern {
		for x, want := range row {
			if got := m.Dark(x, y); got != want {
				t.Fatalf("cell %d,%d: got=%v want=%v", x, y, got, want)
			}
			cell := m.Cell(x, y)
			if want != (shifted.RGBAAt(cell.Min.X+pitch/2, cell.Min.Y+pitch/2) == black) {
				t.Fatalf("cell %d,%d rectangle %v does not cover its module", x, y, cell)
			}
		}
	}
	if r := m.Cell(0, 0); r.Min != corner.Add(image.Pt(off, off)) {
		t.Fatalf("cell origin mismatch: got=%v", r.Min)
	}
}

func TestSampleMajorityThreshold(t *testing.T) {
	// One 30x30 cell, stride 10 gives a 3x3 sample grid. Darkening the first
	// sample column marks 3 of 9 samples, 33% > 30%.
	img := paint(nil, 30, 0, 30)
	for y := 0; y < 30; y++ {
		for x := 0; x < 5; x++ {
			img.SetRGBA(x, y, color.RGBA{199, 199, 199, 255})
		}
	}
	if m := Sample(img, Grid{ModuleSize: 30}); !m.Dark(0, 0) {
		t.Fatalf("cell with 3/9 dark samples should be dark")
	}

	// A red channel of exactly 200 is not dark.
	for y := 0; y < 30; y++ {
		for x := 0; x < 5; x++ {
			img.SetRGBA(x, y, color.RGBA{200, 0, 0, 255})
		}
	}
	if m := Sample(img, Grid{ModuleSize: 30}); m.Dark(0, 0) {
		t.Fatalf("red channel 200 must count as light")
	}
}

func TestSampleClipsEdgeCells(t *testing.T) {
	img := paint([][]bool{{true}}, 10, 0, 25)
	m := Sample(img, Grid{ModuleSize: 10})
	if m.Cols != 3 || m.Rows != 3 {
		t.Fatalf("expected 3x3 cells, got %dx%d", m.Cols, m.Rows)
	}
	if !m.Dark(0, 0) || m.Dark(2, 2) {
		t.Fatalf("unexpected classification of edge cells")
	}
}

func TestEstimateAndSampleEncoderRaster(t *testing.T) {
	for _, enc := range []encoder.Encoder{encoder.Yeqown{}, encoder.Skip2{}} {
		img, err := enc.Encode("https://example.com", encoder.Options{
			Level: encoder.LevelHighest, Margin: 1, Width: 1000, Dark: black, Light: white,
		})
		if err != nil {
			t.Fatalf("%T encode: %v", enc, err)
		}

		g := RunLengthEstimator{}.Estimate(img)
		m := Sample(img, g)
		for row := 0; row < m.Rows; row++ {
			for col := 0; col < m.Cols; col++ {
				cell := m.Cell(col, row)
				if !cell.In(img.Bounds()) {
					continue
				}
				cx, cy := (cell.Min.X+cell.Max.X)/2, (cell.Min.Y+cell.Max.Y)/2
				want := red(img, cx, cy) < scanThreshold
				if got := m.Dark(col, row); got != want {
					t.Fatalf("%T: cell %d,%d (grid %+v) got=%v want=%v", enc, col, row, g, got, want)
				}
			}
		}
	}
}
