package jwt

import "errors"

// Configuration errors returned by New.
var (
	ErrMissingSigningKey = errors.New("jwt: AUTH_TOKEN_SECRET is empty")
	ErrInvalidSigningKey = errors.New("jwt: signing key must be at least 32 bytes")
)

// Token errors. Parse classifies every failure into one of these so callers
// never need to import golang-jwt.
var (
	ErrInvalidToken            = errors.New("jwt: invalid token")
	ErrExpiredToken            = errors.New("jwt: token expired")
	ErrInvalidSignature        = errors.New("jwt: signature mismatch")
	ErrInvalidSigningMethod    = errors.New("jwt: signing method not allowed")
	ErrUnexpectedSigningMethod = errors.New("jwt: token is not HMAC signed")
	ErrInvalidClaims           = errors.New("jwt: issuer, audience or time claims rejected")
	ErrMissingClaims           = errors.New("jwt: subject is required")
)
