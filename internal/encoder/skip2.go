package encoder

import (
	"fmt"
	"image"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// Skip2 encodes with github.com/skip2/go-qrcode.
type Skip2 struct{}

func (Skip2) Encode(data string, opts Options) (*image.RGBA, error) {
	if err := checkOptions(data, opts); err != nil {
		return nil, err
	}

	code, err := qrcode.New(data, skip2Level(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("create QR code: %w", err)
	}
	code.DisableBorder = true

	bitmap := code.Bitmap()
	side := len(bitmap) + 2*opts.Margin
	modules := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{opts.Light, opts.Dark})
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				modules.SetColorIndex(x+opts.Margin, y+opts.Margin, 1)
			}
		}
	}
	return rasterize(modules, opts.Width, opts.Light), nil
}

func skip2Level(l Level) qrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return qrcode.Low
	case LevelMedium:
		return qrcode.Medium
	case LevelQuart:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}
