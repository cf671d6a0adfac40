package totp

import (
	"encoding/base32"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	DefaultDigits     = otp.DigitsSix      // Standard 6-digit TOTP codes
	DefaultPeriod     = 30                 // 30-second validity window (RFC 6238 standard)
	DefaultAlgorithm  = otp.AlgorithmSHA1  // HMAC-SHA1 algorithm (RFC 6238 standard)
	DefaultSecretSize = 20                 // 160-bit secret (RFC 4226 recommendation)
	Skew              = 1                  // Steps accepted on each side of the current one
)

var (
	// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding
	ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

	otpRegex = regexp.MustCompile(`^\d{6}$`)

	b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

	validateOpts = totp.ValidateOpts{
		Period:    DefaultPeriod,
		Skew:      Skew,
		Digits:    DefaultDigits,
		Algorithm: DefaultAlgorithm,
	}
)

// KeyParams contains the labels embedded into an enrollment URI.
type KeyParams struct {
	Issuer      string // Service name displayed in authenticator apps (required)
	AccountName string // Client label like an email (required)
}

// Validate ensures all required key parameters are present
func (p KeyParams) Validate() error {
	if strings.TrimSpace(p.Issuer) == "" {
		return ErrMissingIssuer
	}
	if strings.TrimSpace(p.AccountName) == "" {
		return ErrMissingAccountName
	}
	return nil
}

// Key is a generated shared secret together with its enrollment URI.
type Key struct {
	Secret string // Base32-encoded secret without padding
	URI    string // otpauth://totp/... URI for QR rendering
}

// GenerateKey creates a fresh 160-bit secret and the matching otpauth URI.
func GenerateKey(params KeyParams) (Key, error) {
	if err := params.Validate(); err != nil {
		return Key{}, err
	}

	k, err := totp.Generate(generateOpts(params, nil))
	if err != nil {
		return Key{}, errors.Join(ErrFailedToGenerateSecretKey, err)
	}

	return Key{Secret: k.Secret(), URI: k.URL()}, nil
}

// NewKeyFromSecret builds the key for already generated raw secret bytes.
// The result depends only on its inputs.
func NewKeyFromSecret(raw []byte, params KeyParams) (Key, error) {
	if len(raw) == 0 {
		return Key{}, ErrMissingSecret
	}
	if err := params.Validate(); err != nil {
		return Key{}, err
	}

	k, err := totp.Generate(generateOpts(params, raw))
	if err != nil {
		return Key{}, errors.Join(ErrFailedToGenerateSecretKey, err)
	}

	return Key{Secret: k.Secret(), URI: k.URL()}, nil
}

func generateOpts(params KeyParams, raw []byte) totp.GenerateOpts {
	return totp.GenerateOpts{
		Issuer:      params.Issuer,
		AccountName: params.AccountName,
		Period:      DefaultPeriod,
		SecretSize:  DefaultSecretSize,
		Secret:      raw,
		Digits:      DefaultDigits,
		Algorithm:   DefaultAlgorithm,
	}
}

// EncodeSecret returns the unpadded Base32 form of raw secret bytes.
func EncodeSecret(raw []byte) string {
	return b32NoPadding.EncodeToString(raw)
}

// DecodeSecret parses a Base32 secret, tolerating lower case, whitespace and padding.
func DecodeSecret(secret string) ([]byte, error) {
	secret = normalizeSecret(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.MatchString(secret) {
		return nil, ErrInvalidSecret
	}

	raw, err := b32NoPadding.DecodeString(strings.TrimRight(secret, "="))
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return raw, nil
}

// ValidateTOTP validates the code against the secret at the current time.
func ValidateTOTP(secret, code string) (bool, error) {
	return ValidateTOTPAt(secret, code, time.Now())
}

// ValidateTOTPAt validates the code for the time step containing t.
// Codes from the neighbouring steps (Skew) are accepted to absorb clock drift.
// The comparison itself is constant time.
func ValidateTOTPAt(secret, code string, t time.Time) (bool, error) {
	if _, err := DecodeSecret(secret); err != nil {
		return false, err
	}

	code = strings.TrimSpace(code)
	if !otpRegex.MatchString(code) {
		return false, ErrInvalidOTP
	}

	ok, err := totp.ValidateCustom(code, normalizeSecret(secret), t, validateOpts)
	if err != nil {
		return false, errors.Join(ErrFailedToValidateTOTP, err)
	}
	return ok, nil
}

// GenerateTOTP generates a code for the current 30-second window.
func GenerateTOTP(secret string) (string, error) {
	return GenerateTOTPWithTime(secret, time.Now())
}

// GenerateTOTPWithTime generates a code for the 30-second window containing t.
// Useful for testing or generating codes for specific moments.
func GenerateTOTPWithTime(secret string, t time.Time) (string, error) {
	if _, err := DecodeSecret(secret); err != nil {
		return "", err
	}

	code, err := totp.GenerateCodeCustom(normalizeSecret(secret), t, validateOpts)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateTOTP, err)
	}
	return code, nil
}

func normalizeSecret(secret string) string {
	return strings.ToUpper(strings.TrimSpace(secret))
}
