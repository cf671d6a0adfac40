// Package ratelimiter provides token bucket rate limiting with in-memory and
// Redis storage and an HTTP middleware.
//
// Each key (typically the client IP) owns a bucket holding up to Capacity
// tokens. RefillRate tokens are added every RefillInterval. A request that
// finds too few tokens is denied without draining the bucket.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       20,
//		RefillRate:     5,
//		RefillInterval: time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//
//	r.Use(ratelimiter.Middleware(limiter, ratelimiter.ByIP))
//
// Several replicas share a limit through NewRedisStore, which runs the refill
// and consume step as a single Lua script.
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset, plus Retry-After on denial. WithErrorResponder replaces
// the plain-text 429/500 bodies.
//
// Errors: ErrInvalidConfig, ErrInvalidTokenCount, ErrStoreUnavailable and
// ErrContextCancelled; check with errors.Is.
package ratelimiter
