// Package encoder adapts third-party QR encoders to a common raster contract:
// given a payload and styling options it returns a width×width RGBA image whose
// module boundaries fall on whole pixels.
package encoder

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Level is a QR error correction level.
type Level string

const (
	LevelLow     Level = "L"
	LevelMedium  Level = "M"
	LevelQuart   Level = "Q"
	LevelHighest Level = "H"
)

// MaxMargin is the widest quiet zone, in modules, an encoder accepts.
const MaxMargin = 50

var (
	// ErrEmptyData is returned when there is nothing to encode.
	ErrEmptyData = errors.New("data is empty")
	ErrMargin    = fmt.Errorf("margin must be between 0 and %d modules", MaxMargin)
)

// Options controls how a payload is turned into a raster.
type Options struct {
	Level  Level
	Margin int // quiet zone, in modules
	Width  int // side of the produced raster, in pixels
	Dark   color.RGBA
	Light  color.RGBA
}

// Encoder turns data into a raster image of a QR symbol.
type Encoder interface {
	Encode(data string, opts Options) (*image.RGBA, error)
}

// Backend names accepted by New.
const (
	BackendYeqown = "yeqown"
	BackendSkip2  = "skip2"
)

// New returns the encoder registered under name. An empty name selects yeqown.
func New(name string) (Encoder, error) {
	switch name {
	case "", BackendYeqown:
		return Yeqown{}, nil
	case BackendSkip2:
		return Skip2{}, nil
	default:
		return nil, fmt.Errorf("unknown encoder backend %q", name)
	}
}

func checkOptions(data string, opts Options) error {
	if data == "" {
		return ErrEmptyData
	}
	if opts.Margin < 0 || opts.Margin > MaxMargin {
		return ErrMargin
	}
	return nil
}

// rasterize scales a one-pixel-per-module image up to a width×width raster.
// The pitch is the largest whole number of pixels that fits, and any leftover
// pixels are split around the symbol as extra light margin.
func rasterize(modules image.Image, width int, light color.RGBA) *image.RGBA {
	b := modules.Bounds()
	n := b.Dx()
	pitch := 1
	if n > 0 && width/n > 1 {
		pitch = width / n
	}
	side := pitch * n
	off := (width - side) / 2

	dst := image.NewRGBA(image.Rect(0, 0, width, width))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(light), image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(dst, image.Rect(off, off, off+side, off+side), modules, b, draw.Src, nil)
	return dst
}
