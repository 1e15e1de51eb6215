// Package render runs the styled QR pipeline: encode, restyle modules,
// frame, overlay a logo and serialize to PNG.
package render

import (
	"context"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/cristianadrielbraun/qrstyle/internal/encoder"
	"github.com/cristianadrielbraun/qrstyle/internal/frame"
	"github.com/cristianadrielbraun/qrstyle/internal/grid"
	"github.com/cristianadrielbraun/qrstyle/internal/logo"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
	"github.com/cristianadrielbraun/qrstyle/internal/verify"
)

// Renderer holds the collaborators shared by every render. It has no mutable
// state and is safe for concurrent use.
type Renderer struct {
	Encoder   encoder.Encoder
	Estimator grid.Estimator
	Logos     *logo.Loader
	Log       logrus.FieldLogger
	MaxWidth  int
	// Verify decodes every render back and records whether it scans.
	Verify bool
}

// Result is a finished render.
type Result struct {
	PNG   []byte
	Image *image.RGBA
	// Width is the clamped code width, excluding frame padding.
	Width int
	// Grid is the inferred module grid; zero for the square pixel style.
	Grid        grid.Grid
	LogoApplied bool
	// Scannable is only meaningful when Verified is set.
	Verified  bool
	Scannable bool
}

// Render validates req and runs the whole pipeline. Errors are
// *ValidationError, *EncodingError or *SerializationError, or the context's
// error if ctx is done before encoding starts.
func (r *Renderer) Render(ctx context.Context, req Request) (*Result, error) {
	req.Normalize(r.MaxWidth)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	dark, _ := ParseHexColor(req.DarkColor)
	light, _ := ParseHexColor(req.LightColor)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := r.Encoder.Encode(req.Data, encoder.Options{
		Level:  encoder.Level(req.ErrorCorrectionLevel),
		Margin: req.Margin,
		Width:  req.Width,
		Dark:   dark,
		Light:  light,
	})
	if err != nil {
		return nil, &EncodingError{Err: err}
	}

	est := r.Estimator
	if est == nil {
		est = grid.RunLengthEstimator{}
	}
	code, g, err := style.Render(raw, style.PixelStyle(req.PixelStyle), dark, light, est)
	if err != nil {
		return nil, err
	}

	fs := frame.Style(req.FrameStyle)
	c := frame.Compose(code, fs, dark, light)

	res := &Result{Width: req.Width, Grid: g}
	if req.HasLogo() {
		src, err := r.loadLogo(ctx, req)
		if err != nil {
			r.log().WithError(err).Warn("skipping logo overlay")
		} else {
			pad := frame.PaddingFor(fs)
			center := image.Pt(pad+req.Width/2, pad+req.Width/2)
			logo.Overlay(c, src, center, req.Width, req.LogoSize, light)
			res.LogoApplied = true
		}
	}

	res.Image = c.Image()
	res.PNG, err = EncodePNG(res.Image)
	if err != nil {
		return nil, err
	}

	if r.Verify {
		check := verify.Check(res.Image, req.Data)
		res.Verified = true
		res.Scannable = check.OK
		r.log().WithFields(logrus.Fields{
			"scannable": check.OK,
			"decoder":   check.Decoder,
		}).Debug("verified render")
	}
	return res, nil
}

func (r *Renderer) loadLogo(ctx context.Context, req Request) (logo.Source, error) {
	data := req.LogoBytes
	if len(data) == 0 {
		loader := r.Logos
		if loader == nil {
			loader = logo.NewLoader(false, 0, 0)
		}
		var err error
		data, err = loader.Load(ctx, req.Logo)
		if err != nil {
			return nil, &LogoLoadError{Err: err}
		}
	}
	src, err := logo.Decode(data)
	if err != nil {
		return nil, &LogoLoadError{Err: err}
	}
	return src, nil
}

func (r *Renderer) log() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}
