// Package links renders QR codes for arbitrary URLs and wraps them into
// downloadable PNG/PDF artifacts. Rendering is pure: the same URL always
// produces the same bytes, and nothing is persisted.
package links

import (
	"errors"
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// Fixed encoding parameters. Changing either changes every rendered
// artifact, so they are constants rather than configuration.
const (
	qrSize     = 256
	qrRecovery = qrcode.Medium
)

// ErrInvalidURL means the input failed validation before any encoding work.
var ErrInvalidURL = errors.New("please provide a valid url")

// ValidateURL rejects strings that don't parse as absolute URLs.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// RenderQR encodes a URL into PNG bytes. Validation failures surface as
// ErrInvalidURL; encoding failures (payload too large for the symbol) are
// reported separately.
func RenderQR(raw string) ([]byte, error) {
	if err := ValidateURL(raw); err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(raw, qrRecovery, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
