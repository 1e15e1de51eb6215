package render

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cristianadrielbraun/qrstyle/internal/encoder"
	"github.com/cristianadrielbraun/qrstyle/internal/frame"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
)

const (
	DefaultWidth      = 1000
	MinWidth          = 1000
	DefaultMaxWidth   = 5000
	DefaultMargin     = 1
	DefaultLogoSize   = 20
	DefaultLevel      = encoder.LevelHighest
	DefaultDarkColor  = "#000000"
	DefaultLightColor = "#FFFFFF"
)

// Request holds every styling parameter of a single render.
type Request struct {
	Data                 string `validate:"required"`
	Width                int
	ErrorCorrectionLevel string `validate:"oneof=L M Q H"`
	Margin               int    `validate:"min=1,max=50"`
	DarkColor            string `validate:"qrhex"`
	LightColor           string `validate:"qrhex"`
	FrameStyle           string `validate:"oneof=none rounded square circle"`
	PixelStyle           string `validate:"oneof=square rounded dots"`
	// Logo is a data URL, bare base64 or http(s) URL. LogoBytes wins when
	// both are set.
	Logo      string
	LogoBytes []byte
	LogoSize  int `validate:"min=1,max=100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("qrhex", func(fl validator.FieldLevel) bool {
		_, err := ParseHexColor(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

var fieldMessages = map[string]string{
	"Data":                 "Please provide data, url, or text parameter",
	"ErrorCorrectionLevel": "Invalid error correction level. Use L, M, Q, or H",
	"Margin":               "Margin must be between 1 and 50",
	"DarkColor":            "Invalid color format. Use hex colors (e.g., #000000)",
	"LightColor":           "Invalid color format. Use hex colors (e.g., #000000)",
	"FrameStyle":           "Invalid frame style. Use none, rounded, square, or circle",
	"PixelStyle":           "Invalid pixel style. Use square, rounded, or dots",
	"LogoSize":             "Logo size must be between 1 and 100",
}

// Normalize fills unset fields with their defaults and clamps Width into
// [MinWidth, maxWidth]. Values that are set but invalid are left for
// Validate to reject.
func (r *Request) Normalize(maxWidth int) {
	if maxWidth < MinWidth {
		maxWidth = DefaultMaxWidth
	}
	switch {
	case r.Width <= 0:
		r.Width = DefaultWidth
	case r.Width < MinWidth:
		r.Width = MinWidth
	case r.Width > maxWidth:
		r.Width = maxWidth
	}
	r.ErrorCorrectionLevel = strings.ToUpper(strings.TrimSpace(r.ErrorCorrectionLevel))
	if r.ErrorCorrectionLevel == "" {
		r.ErrorCorrectionLevel = string(DefaultLevel)
	}
	if r.Margin == 0 {
		r.Margin = DefaultMargin
	}
	if r.DarkColor == "" {
		r.DarkColor = DefaultDarkColor
	}
	if r.LightColor == "" {
		r.LightColor = DefaultLightColor
	}
	r.FrameStyle = strings.ToLower(r.FrameStyle)
	if r.FrameStyle == "" {
		r.FrameStyle = string(frame.None)
	}
	r.PixelStyle = strings.ToLower(r.PixelStyle)
	if r.PixelStyle == "" {
		r.PixelStyle = string(style.Square)
	}
	if r.LogoSize == 0 {
		r.LogoSize = DefaultLogoSize
	}
}

// Validate checks a normalized request. The returned error is a
// *ValidationError naming the first offending field.
func (r *Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Msg: err.Error()}
	}
	field := verrs[0].Field()
	msg, ok := fieldMessages[field]
	if !ok {
		msg = fmt.Sprintf("Invalid value for %s", field)
	}
	return &ValidationError{Field: field, Msg: msg}
}

// HasLogo reports whether the request carries a logo reference.
func (r *Request) HasLogo() bool {
	return len(r.LogoBytes) > 0 || strings.TrimSpace(r.Logo) != ""
}

// ParseHexColor parses "#RRGGBB" or "#RGB", with or without the leading '#'.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
