package encoder

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// Yeqown encodes with github.com/yeqown/go-qrcode. The standard writer renders
// one pixel per module into an in-memory PNG which is then decoded and scaled.
type Yeqown struct{}

func (Yeqown) Encode(data string, opts Options) (*image.RGBA, error) {
	if err := checkOptions(data, opts); err != nil {
		return nil, err
	}

	qrc, err := qrcode.NewWith(data, yeqownLevel(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("create QR code: %w", err)
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopCloser{&buf},
		standard.WithQRWidth(1),
		standard.WithBorderWidth(opts.Margin),
		standard.WithBgColor(opts.Light),
		standard.WithFgColor(opts.Dark),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("write QR code image: %w", err)
	}

	modules, _, err := image.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode QR code image: %w", err)
	}
	return rasterize(modules, opts.Width, opts.Light), nil
}

func yeqownLevel(l Level) qrcode.EncodeOption {
	switch l {
	case LevelLow:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case LevelMedium:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	case LevelQuart:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	}
}

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }
