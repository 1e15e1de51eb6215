package logo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cristianadrielbraun/qrstyle/internal/canvas"
)

var (
	red   = color.RGBA{0xff, 0, 0, 0xff}
	black = color.RGBA{0, 0, 0, 0xff}
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

const svgLogo = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">` +
	`<rect x="0" y="0" width="10" height="10" fill="#ff0000"/></svg>`

func pngLogo(t *testing.T, side int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png fixture: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeRaster(t *testing.T) {
	src, err := Decode(pngLogo(t, 16, red))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	img := src.Render(40)
	if got := img.Bounds(); got.Dx() != 40 || got.Dy() != 40 {
		t.Fatalf("render size mismatch: got=%v", got)
	}
	r, g, b, _ := img.At(20, 20).RGBA()
	if r>>8 != 0xff || g>>8 != 0 || b>>8 != 0 {
		t.Fatalf("logo color mismatch: got=%d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestDecodeSVG(t *testing.T) {
	src, err := Decode([]byte(svgLogo))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	img := src.Render(50)
	r, _, _, a := img.At(25, 25).RGBA()
	if r>>8 != 0xff || a>>8 != 0xff {
		t.Fatalf("svg logo should be opaque red at its center: r=%d a=%d", r>>8, a>>8)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := Decode([]byte("definitely not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	// PNG signature followed by junk sniffs as PNG but fails to decode.
	broken := append([]byte("\x89PNG\r\n\x1a\n"), []byte("junk")...)
	if _, err := Decode(broken); err == nil {
		t.Fatalf("expected an error for a truncated png")
	}
}

// withPNGSize rewrites the IHDR width and height of an encoded PNG.
func withPNGSize(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := append([]byte(nil), data...)
	if string(out[12:16]) != "IHDR" {
		t.Fatalf("fixture does not start with IHDR")
	}
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	small := pngLogo(t, 4, red)
	for _, size := range [][2]uint32{{40000, 40000}, {MaxDimension + 1, 8}, {8, MaxDimension + 1}} {
		forged := withPNGSize(t, small, size[0], size[1])
		if _, err := Decode(forged); !errors.Is(err, ErrDimensions) {
			t.Fatalf("%dx%d: expected ErrDimensions, got %v", size[0], size[1], err)
		}
	}
}

func TestOverlay(t *testing.T) {
	c := canvas.New(200, 200)
	c.Fill(black)
	src, err := Decode(pngLogo(t, 8, red))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	// 20% of 200 is 40: logo spans 80..120, backing disc radius 30.
	Overlay(c, src, image.Pt(100, 100), 200, 20, white)
	im := c.Image()

	if got := im.RGBAAt(100, 100); got != red {
		t.Fatalf("logo center: got=%v", got)
	}
	if got := im.RGBAAt(100, 75); got != white {
		t.Fatalf("backing disc above the logo: got=%v", got)
	}
	if got := im.RGBAAt(100, 60); got != black {
		t.Fatalf("outside the backing disc: got=%v", got)
	}
}

func TestLoaderReferences(t *testing.T) {
	raw := pngLogo(t, 4, red)
	enc := base64.StdEncoding.EncodeToString(raw)
	l := NewLoader(false, 0, 0)
	ctx := context.Background()

	for _, ref := range []string{"data:image/png;base64," + enc, enc} {
		got, err := l.Load(ctx, ref)
		if err != nil {
			t.Fatalf("load %.20q: %v", ref, err)
		}
		if !bytes.Equal(got, raw) {
			t.Fatalf("load %.20q: bytes mismatch", ref)
		}
	}

	got, err := l.Load(ctx, "data:image/svg+xml;utf8,"+svgLogo)
	if err != nil || string(got) != svgLogo {
		t.Fatalf("plain data URL: got=%q err=%v", got, err)
	}

	if _, err := l.Load(ctx, "https://example.com/logo.png"); !errors.Is(err, ErrRemoteDisabled) {
		t.Fatalf("expected ErrRemoteDisabled, got %v", err)
	}
	if _, err := l.Load(ctx, "%%%"); err == nil {
		t.Fatalf("expected an error for invalid base64")
	}

	small := NewLoader(false, 0, 8)
	if _, err := small.Load(ctx, enc); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestLoaderFetchesRemote(t *testing.T) {
	raw := pngLogo(t, 4, red)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(raw)
	}))
	defer srv.Close()

	l := NewLoader(true, 0, 0)
	got, err := l.Load(context.Background(), srv.URL+"/logo.png")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("fetched bytes mismatch")
	}
	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Fatalf("expected an error for a 404")
	}
}
