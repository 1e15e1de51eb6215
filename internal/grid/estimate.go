package grid

import "image"

// scanBand is how many rows below the top edge of the symbol are searched. It
// covers the finder patterns at the largest allowed module size.
const scanBand = 7 * MaxModuleSize

// RunLengthEstimator anchors its scan at the first row holding a dark pixel,
// which for a QR symbol is the top edge of the finder patterns. Every row in
// the band that crosses enough edges contributes its interior run lengths; the
// shortest run is one module.
type RunLengthEstimator struct{}

func (RunLengthEstimator) Estimate(img *image.RGBA) Grid {
	top, left, ok := firstDark(img)
	if !ok {
		return Grid{ModuleSize: DefaultModuleSize}
	}

	b := img.Bounds()
	end := top + scanBand
	if end > b.Max.Y {
		end = b.Max.Y
	}

	shortest := 0
	for y := top; y < end; y++ {
		run, ok := shortestInteriorRun(img, y)
		if !ok {
			continue
		}
		if shortest == 0 || run < shortest {
			shortest = run
		}
	}
	if shortest == 0 {
		return Grid{ModuleSize: DefaultModuleSize}
	}

	size := clampModuleSize(shortest)
	return Grid{
		ModuleSize: size,
		Origin:     image.Pt((left-b.Min.X)%size, (top-b.Min.Y)%size),
	}
}

// firstDark returns the first row containing a dark pixel and the column of
// the first dark pixel in that row.
func firstDark(img *image.RGBA) (row, col int, ok bool) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if red(img, x, y) < scanThreshold {
				return y, x, true
			}
		}
	}
	return 0, 0, false
}

// shortestInteriorRun reports the shortest run on row y that is bounded by a
// transition on both sides. Rows with too few transitions are rejected, as
// are single-pixel runs which come from edge smoothing rather than modules.
func shortestInteriorRun(img *image.RGBA, y int) (int, bool) {
	b := img.Bounds()
	crossings := 0
	shortest := 0
	start := -1
	last := red(img, b.Min.X, y) < scanThreshold
	for x := b.Min.X + 1; x < b.Max.X; x++ {
		dark := red(img, x, y) < scanThreshold
		if dark == last {
			continue
		}
		crossings++
		if start >= 0 {
			if run := x - start; run > 1 && (shortest == 0 || run < shortest) {
				shortest = run
			}
		}
		start = x
		last = dark
	}
	if crossings <= minTransitions || shortest == 0 {
		return 0, false
	}
	return shortest, true
}

// TransitionEstimator is the transition-count heuristic: in a band near the
// top of the raster, the first row with more than ten transitions gives
// moduleSize = width / (transitions / 2). The band is rows 10-49 at a width of
// 1000 and scales with the raster.
type TransitionEstimator struct{}

func (TransitionEstimator) Estimate(img *image.RGBA) Grid {
	b := img.Bounds()
	width := b.Dx()
	from, to := b.Min.Y+width/100, b.Min.Y+width/20
	if to > b.Max.Y {
		to = b.Max.Y
	}
	for y := from; y < to; y++ {
		n := transitions(img, y)
		if n > minTransitions {
			return Grid{ModuleSize: clampModuleSize(int(float64(width) / (float64(n) / 2)))}
		}
	}
	return Grid{ModuleSize: DefaultModuleSize}
}
