// Package verify decodes rendered codes back to text to check that styling
// left them scannable.
package verify

import (
	"image"

	"github.com/liyue201/goqr"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Decoder names reported in Result.
const (
	DecoderZXingHybrid = "zxing-hybrid"
	DecoderZXingGlobal = "zxing-global"
	DecoderGoqr        = "goqr"
)

// Result is the outcome of a scan.
type Result struct {
	OK bool
	// Text is the first payload any decoder found, even if it differs
	// from the expected one.
	Text    string
	Decoder string
}

// Check reports whether img decodes to want. gozxing is tried with the hybrid
// and then the global histogram binarizer; goqr is the last resort.
func Check(img image.Image, want string) Result {
	var res Result
	for _, d := range []struct {
		name   string
		decode func(image.Image) (string, bool)
	}{
		{DecoderZXingHybrid, zxingHybrid},
		{DecoderZXingGlobal, zxingGlobal},
		{DecoderGoqr, recognize},
	} {
		text, ok := d.decode(img)
		if !ok {
			continue
		}
		if text == want {
			return Result{OK: true, Text: text, Decoder: d.name}
		}
		if res.Decoder == "" {
			res = Result{Text: text, Decoder: d.name}
		}
	}
	return res
}

func zxingHybrid(img image.Image) (string, bool) {
	src := gozxing.NewLuminanceSourceFromImage(img)
	return zxing(gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(src)))
}

func zxingGlobal(img image.Image) (string, bool) {
	src := gozxing.NewLuminanceSourceFromImage(img)
	return zxing(gozxing.NewBinaryBitmap(gozxing.NewGlobalHistgramBinarizer(src)))
}

func zxing(bmp *gozxing.BinaryBitmap, err error) (string, bool) {
	if err != nil {
		return "", false
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", false
	}
	return result.GetText(), true
}

func recognize(img image.Image) (string, bool) {
	codes, err := goqr.Recognize(img)
	if err != nil || len(codes) == 0 {
		return "", false
	}
	payload := make([]byte, 0, len(codes[0].Payload))
	for _, b := range codes[0].Payload {
		payload = append(payload, byte(b))
	}
	return string(payload), true
}
