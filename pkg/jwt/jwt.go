package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	HeaderAlgorithm = "HS256" // HMAC-SHA256 chosen for security/performance balance
	MinKeySize      = 32      // bytes; shorter HS256 keys are rejected
)

// Config configures caller tokens.
type Config struct {
	Secret   string        `env:"AUTH_TOKEN_SECRET"`                          // Signing key, at least 32 bytes
	Issuer   string        `env:"AUTH_TOKEN_ISSUER" envDefault:"totpauth"`    // iss claim written and required
	Audience string        `env:"AUTH_TOKEN_AUDIENCE" envDefault:"totp-auth"` // aud claim written and required
	TTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"15m"`            // Default lifetime of issued tokens
}

// Claims are the registered claims plus an optional scope.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// Service issues and verifies short-lived caller tokens.
type Service struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for issuing and validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a Service from config.
func New(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSigningKey
	}
	if len(cfg.Secret) < MinKeySize {
		return nil, ErrInvalidSigningKey
	}

	s := &Service{
		key:      []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = 15 * time.Minute
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for subject. A non-positive ttl uses the configured default.
func (s *Service) Issue(subject, scope string, ttl time.Duration) (string, *Claims, error) {
	if strings.TrimSpace(subject) == "" {
		return "", nil, ErrMissingClaims
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: scope,
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", nil, errors.Join(ErrInvalidToken, err)
	}
	return token, claims, nil
}

// Parse verifies signature, algorithm, expiry, issuer and audience.
func (s *Service) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{HeaderAlgorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigningMethod
		}
		return s.key, nil
	}, opts...)
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return errors.Join(ErrInvalidSigningMethod, err)
	case errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return errors.Join(ErrInvalidClaims, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
