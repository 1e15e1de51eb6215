// Package grid recovers the QR module grid from a rendered raster. The encoder
// only hands back pixels, so module pitch and origin are estimated from the
// dark/light transitions in the image and each cell is then classified by
// sampling.
package grid

import (
	"fmt"
	"image"
)

const (
	MinModuleSize     = 8
	MaxModuleSize     = 50
	DefaultModuleSize = 20

	// Rows are binarized on the red channel at this value while estimating.
	scanThreshold = 128
	// A scanline must cross more than this many edges to be trusted.
	minTransitions = 10
)

// Grid describes where modules sit in a raster.
type Grid struct {
	ModuleSize int
	// Origin is the pixel position of a module boundary, reduced modulo
	// ModuleSize on both axes.
	Origin image.Point
}

// Estimator infers the module grid of a QR raster.
type Estimator interface {
	Estimate(img *image.RGBA) Grid
}

// Estimator names accepted by NewEstimator.
const (
	EstimatorRunLength  = "runlength"
	EstimatorTransition = "transition"
)

// NewEstimator returns the estimator registered under name. An empty name
// selects the run-length estimator.
func NewEstimator(name string) (Estimator, error) {
	switch name {
	case "", EstimatorRunLength:
		return RunLengthEstimator{}, nil
	case EstimatorTransition:
		return TransitionEstimator{}, nil
	default:
		return nil, fmt.Errorf("unknown grid estimator %q", name)
	}
}

func clampModuleSize(n int) int {
	if n < MinModuleSize {
		return MinModuleSize
	}
	if n > MaxModuleSize {
		return MaxModuleSize
	}
	return n
}

func red(img *image.RGBA, x, y int) uint8 {
	return img.Pix[img.PixOffset(x, y)]
}

// transitions counts dark/light changes along row y.
func transitions(img *image.RGBA, y int) int {
	b := img.Bounds()
	n := 0
	last := red(img, b.Min.X, y) < scanThreshold
	for x := b.Min.X + 1; x < b.Max.X; x++ {
		dark := red(img, x, y) < scanThreshold
		if dark != last {
			n++
			last = dark
		}
	}
	return n
}
