package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/cristianadrielbraun/qrstyle/internal/render"
)

// generateParams is the wire form of a render request. Numbers arrive as
// json.Number so query strings, forms and JSON bodies bind the same way.
type generateParams struct {
	Data                 string      `form:"data" json:"data"`
	URL                  string      `form:"url" json:"url"`
	Text                 string      `form:"text" json:"text"`
	Width                json.Number `form:"width" json:"width"`
	ErrorCorrectionLevel string      `form:"errorCorrectionLevel" json:"errorCorrectionLevel"`
	Margin               json.Number `form:"margin" json:"margin"`
	DarkColor            string      `form:"darkColor" json:"darkColor"`
	LightColor           string      `form:"lightColor" json:"lightColor"`
	FrameStyle           string      `form:"frameStyle" json:"frameStyle"`
	PixelStyle           string      `form:"pixelStyle" json:"pixelStyle"`
	Logo                 string      `form:"logo" json:"logo"`
	LogoSize             json.Number `form:"logoSize" json:"logoSize"`
}

func (p generateParams) request() render.Request {
	data := p.Data
	if data == "" {
		data = p.URL
	}
	if data == "" {
		data = p.Text
	}
	return render.Request{
		Data:                 data,
		Width:                atoi(p.Width),
		ErrorCorrectionLevel: p.ErrorCorrectionLevel,
		Margin:               atoi(p.Margin),
		DarkColor:            p.DarkColor,
		LightColor:           p.LightColor,
		FrameStyle:           p.FrameStyle,
		PixelStyle:           p.PixelStyle,
		Logo:                 p.Logo,
		LogoSize:             atoi(p.LogoSize),
	}
}

// atoi returns 0 for anything that is not an integer; the renderer treats 0
// as "use the default".
func atoi(n json.Number) int {
	v, err := strconv.Atoi(strings.TrimSpace(string(n)))
	if err != nil {
		return 0
	}
	return v
}

// QRCodeHandler renders a styled QR code PNG from query, form, multipart or
// JSON parameters.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	var p generateParams
	bind := binding.Default(c.Request.Method, c.ContentType())
	if bind == binding.FormMultipart {
		// The logo file part is read below; bind only the text fields here.
		bind = binding.Form
	}
	if err := c.ShouldBindWith(&p, bind); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}
	req := p.request()

	if fh, err := c.FormFile("logo"); err == nil {
		b, err := readUpload(fh, h.maxLogoBytes)
		if err != nil {
			h.log.WithError(err).Warn("ignoring uploaded logo")
		} else {
			req.LogoBytes = b
		}
	}

	res, err := h.renderInSlot(c.Request.Context(), req)
	if errors.Is(err, errBusy) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server is busy, try again"})
		return
	}
	if err != nil {
		status, msg := errorResponse(err)
		entry := h.log.WithError(err).WithField("status", status)
		if status >= http.StatusInternalServerError {
			entry.Error("render failed")
		} else {
			entry.Debug("render rejected")
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.Header("Content-Disposition", `inline; filename="qrcode.png"`)
	c.Header("Cache-Control", "no-store")
	if res.Grid.ModuleSize > 0 {
		c.Header("X-QR-Module-Size", strconv.Itoa(res.Grid.ModuleSize))
	}
	if res.Verified {
		c.Header("X-QR-Scannable", strconv.FormatBool(res.Scannable))
	}
	h.log.WithFields(logrus.Fields{
		"width":      res.Width,
		"pixelStyle": req.PixelStyle,
		"frameStyle": req.FrameStyle,
		"logo":       res.LogoApplied,
		"bytes":      len(res.PNG),
	}).Debug("rendered qr code")
	c.Data(http.StatusOK, "image/png", res.PNG)
}

var errBusy = errors.New("no render slot available")

// renderInSlot runs req while holding a render slot. The slot is released even if
// the pipeline panics.
func (h *Handler) renderInSlot(ctx context.Context, req render.Request) (*render.Result, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return nil, errBusy
	}
	defer h.slots.Release(1)
	return h.renderer.Render(ctx, req)
}

func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded logo: %w", err)
	}
	defer f.Close()
	b, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded logo: %w", err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("uploaded logo exceeds %d bytes", limit)
	}
	return b, nil
}

// errorResponse maps a render error to a status code and client message.
func errorResponse(err error) (int, string) {
	var (
		verr *render.ValidationError
		eerr *render.EncodingError
		serr *render.SerializationError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Msg
	case errors.As(err, &eerr):
		return http.StatusInternalServerError, "Failed to generate QR code: " + eerr.Err.Error()
	case errors.As(err, &serr):
		return http.StatusInternalServerError, "Failed to generate QR code: " + serr.Err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Request cancelled"
	default:
		return http.StatusInternalServerError, "Failed to generate QR code"
	}
}
