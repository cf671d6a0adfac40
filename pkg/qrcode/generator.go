package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when content string is empty or only whitespace
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrFailedToGenerate is returned when the QR code generation fails.
	ErrFailedToGenerate = errors.New("failed to generate QR code")
	// ErrNotOTPAuthURI is returned when an enrollment image is requested for anything but an otpauth://totp URI.
	ErrNotOTPAuthURI = errors.New("content is not an otpauth://totp URI")
)

const (
	defaultSize   = 256 // pixels, used when no size is specified
	dataURLPrefix = "data:image/png;base64,"
	otpauthPrefix = "otpauth://totp/"
)

// Generate creates a QR code image in PNG format with the given content.
func Generate(content string, size int) ([]byte, error) {
	return generate(content, size, skipqrcode.Medium)
}

// GenerateBase64Image returns the QR code for content as a PNG data URL,
// ready for an <img src> attribute.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return DataURL(png), nil
}

// GenerateOTPAuthImage renders an authenticator enrollment URI as a PNG data URL.
// Enrollment URIs are scanned from screens, often at an angle, so the image
// uses the High error correction level.
func GenerateOTPAuthImage(uri string, size int) (string, error) {
	if strings.TrimSpace(uri) == "" {
		return "", ErrEmptyContent
	}
	if !strings.HasPrefix(uri, otpauthPrefix) {
		return "", ErrNotOTPAuthURI
	}

	png, err := generate(uri, size, skipqrcode.High)
	if err != nil {
		return "", err
	}
	return DataURL(png), nil
}

// DataURL wraps PNG bytes into a data URL.
func DataURL(png []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png)
}

func generate(content string, size int, level skipqrcode.RecoveryLevel) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := skipqrcode.Encode(content, level, size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerate, err)
	}
	return png, nil
}
