package logo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultMaxBytes = 2 << 20
	DefaultTimeout  = 5 * time.Second
)

var (
	ErrRemoteDisabled = errors.New("remote logos are disabled")
	ErrTooLarge       = errors.New("logo exceeds size limit")
)

// Loader turns a logo reference from a request into raw image bytes. A
// reference is a data URL, an http(s) URL, or bare base64.
type Loader struct {
	AllowRemote bool
	Client      *http.Client
	MaxBytes    int64
}

// NewLoader returns a Loader with the default size limit and an HTTP client
// bounded by timeout.
func NewLoader(allowRemote bool, timeout time.Duration, maxBytes int64) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Loader{
		AllowRemote: allowRemote,
		Client:      &http.Client{Timeout: timeout},
		MaxBytes:    maxBytes,
	}
}

// Load resolves ref into image bytes.
func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, ErrEmpty
	case strings.HasPrefix(ref, "data:"):
		return l.decodeDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.fetch(ctx, ref)
	default:
		return l.decodeBase64(ref)
	}
}

func (l *Loader) decodeDataURL(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL")
	}
	if !strings.HasSuffix(meta, ";base64") {
		raw, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data URL: %w", err)
		}
		return l.limit([]byte(raw))
	}
	return l.decodeBase64(payload)
}

func (l *Loader) decodeBase64(s string) ([]byte, error) {
	// Query strings turn '+' into spaces.
	s = strings.ReplaceAll(s, " ", "+")
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	if err != nil {
		return nil, fmt.Errorf("decode base64 logo: %w", err)
	}
	return l.limit(b)
}

func (l *Loader) fetch(ctx context.Context, target string) ([]byte, error) {
	if !l.AllowRemote {
		return nil, ErrRemoteDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build logo request: %w", err)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch logo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch logo: unexpected status %s", resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes()+1))
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	return l.limit(b)
}

func (l *Loader) limit(b []byte) ([]byte, error) {
	if int64(len(b)) > l.maxBytes() {
		return nil, ErrTooLarge
	}
	return b, nil
}

func (l *Loader) maxBytes() int64 {
	if l.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return l.MaxBytes
}
