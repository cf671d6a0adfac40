package ratelimiter

import (
	"context"
	"time"
)

// Store defines the interface for rate limit storage backends.
type Store interface {
	// ConsumeTokens attempts to consume the specified number of tokens.
	// Returns the remaining tokens and reset time.
	// If remaining is negative, the request should be denied and nothing was consumed.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}

// refill returns the token count after the intervals elapsed since lastRefill
// and whether a refill happened.
func refill(tokens int, lastRefill, now time.Time, config Config) (int, bool) {
	elapsed := now.Sub(lastRefill)
	// Cap intervals to prevent integer overflow in high-capacity/low-rate scenarios
	maxIntervals := int64(config.Capacity/config.RefillRate + 1)
	intervals := int(min(int64(elapsed/config.RefillInterval), maxIntervals))
	if intervals <= 0 {
		return tokens, false
	}
	return min(tokens+intervals*config.RefillRate, config.Capacity), true
}
