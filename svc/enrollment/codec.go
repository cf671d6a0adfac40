package enrollment

import (
	"errors"

	"github.com/dmitrymomot/totpauth/pkg/qrcode"
	"github.com/dmitrymomot/totpauth/pkg/totp"
)

// Codec issues TOTP secrets for a fixed issuer and renders enrollment images.
type Codec struct {
	issuer string
	qrSize int
}

// NewCodec creates a codec. A non-positive qrSize selects the qrcode package default.
func NewCodec(issuer string, qrSize int) *Codec {
	return &Codec{issuer: issuer, qrSize: qrSize}
}

// Generate draws a fresh secret bound to label.
func (c *Codec) Generate(label string) (totp.Key, error) {
	key, err := totp.GenerateKey(totp.KeyParams{Issuer: c.issuer, AccountName: label})
	if err != nil {
		return totp.Key{}, errors.Join(ErrGeneration, err)
	}
	return key, nil
}

// RenderEnrollmentImage returns the otpauth URI as a PNG data URL.
func (c *Codec) RenderEnrollmentImage(uri string) (string, error) {
	img, err := qrcode.GenerateOTPAuthImage(uri, c.qrSize)
	if err != nil {
		return "", errors.Join(ErrGeneration, err)
	}
	return img, nil
}
