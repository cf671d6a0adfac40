package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpauth/pkg/ratelimiter"
)

func TestNewBucket_Validation(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)

	tests := []struct {
		name  string
		store ratelimiter.Store
		cfg   ratelimiter.Config
	}{
		{name: "nil store", cfg: testConfig()},
		{name: "zero capacity", store: store, cfg: ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}},
		{name: "zero refill rate", store: store, cfg: ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}},
		{name: "zero interval", store: store, cfg: ratelimiter.Config{Capacity: 1, RefillRate: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := ratelimiter.NewBucket(tt.store, tt.cfg)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}
}

func TestBucket(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	b, err := ratelimiter.NewBucket(newMemoryStore(t, clock), testConfig())
	require.NoError(t, err)

	_, err = b.AllowN(ctx, "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)

	for range 3 {
		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, 3, res.Limit)
		assert.Zero(t, res.RetryAfter())
	}

	res, err := b.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	status, err := b.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Remaining)

	require.NoError(t, b.Reset(ctx, "k"))
	status, err = b.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 3, status.Remaining)
}

func TestResult_RetryAfter(t *testing.T) {
	t.Parallel()

	denied := &ratelimiter.Result{Remaining: -1, ResetAt: time.Now().Add(10 * time.Second)}
	assert.InDelta(t, 10*time.Second, denied.RetryAfter(), float64(time.Second))

	past := &ratelimiter.Result{Remaining: -1, ResetAt: time.Now().Add(-time.Second)}
	assert.Zero(t, past.RetryAfter())
}
