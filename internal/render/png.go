package render

import (
	"bytes"
	"image"
	"image/png"
)

// EncodePNG serializes img. Any failure is a *SerializationError.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &SerializationError{Err: err}
	}
	return buf.Bytes(), nil
}
