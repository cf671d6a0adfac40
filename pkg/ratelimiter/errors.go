package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("ratelimiter: capacity, refill rate and interval must be positive")
	ErrInvalidTokenCount = errors.New("ratelimiter: requested tokens must be positive")
	ErrContextCancelled  = errors.New("ratelimiter: context cancelled")

	// ErrStoreUnavailable wraps backend failures. The middleware answers them
	// with 503 rather than letting the request through.
	ErrStoreUnavailable = errors.New("ratelimiter: store unavailable")
)
