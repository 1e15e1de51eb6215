// Package logo decodes brand logos and draws them over the center of a code.
package logo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	// Raster formats accepted for logos.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// MaxDimension bounds the width and height a raster logo may declare.
const MaxDimension = 4096

var (
	ErrEmpty             = errors.New("logo is empty")
	ErrUnsupportedFormat = errors.New("unsupported logo format")
	ErrDimensions        = errors.New("logo dimensions out of range")
)

// Source is a decoded logo that can be drawn at any square size.
type Source interface {
	Render(size int) image.Image
}

// Decode sniffs data and decodes it as an SVG document or a raster image.
func Decode(data []byte) (Source, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	mt := mimetype.Detect(data)
	switch {
	case mt.Is("image/svg+xml"):
		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse svg logo: %w", err)
		}
		return svgSource{icon: icon}, nil
	case strings.HasPrefix(mt.String(), "image/"):
		// The header is checked first so a forged size cannot force a huge
		// allocation in image.Decode.
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode %s logo header: %w", mt.String(), err)
		}
		if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxDimension || cfg.Height > MaxDimension {
			return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, cfg.Width, cfg.Height)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode %s logo: %w", mt.String(), err)
		}
		return rasterSource{img: img}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mt.String())
	}
}

type rasterSource struct {
	img image.Image
}

func (s rasterSource) Render(size int) image.Image {
	return imaging.Resize(s.img, size, size, imaging.Lanczos)
}

// svgSource rasterizes the vector logo straight at the requested size.
type svgSource struct {
	icon *oksvg.SvgIcon
}

func (s svgSource) Render(size int) image.Image {
	s.icon.SetTarget(0, 0, float64(size), float64(size))
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	s.icon.Draw(rasterx.NewDasher(size, size, scanner), 1)
	return img
}
