package render

import "fmt"

// ValidationError reports a request that was rejected before rendering began.
// Msg is safe to show to clients.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

// EncodingError wraps a failure of the QR encoder backend.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string { return fmt.Sprintf("encode qr: %v", e.Err) }
func (e *EncodingError) Unwrap() error { return e.Err }

// LogoLoadError wraps a logo that could not be fetched or decoded. It is only
// ever logged; the render continues without the overlay.
type LogoLoadError struct {
	Err error
}

func (e *LogoLoadError) Error() string { return fmt.Sprintf("load logo: %v", e.Err) }
func (e *LogoLoadError) Unwrap() error { return e.Err }

// SerializationError wraps a failure to encode the finished canvas.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string { return fmt.Sprintf("encode png: %v", e.Err) }
func (e *SerializationError) Unwrap() error { return e.Err }
