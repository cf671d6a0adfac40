package ratelimiter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpauth/pkg/ratelimiter"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newLimitedHandler(t *testing.T, opts ...ratelimiter.MiddlewareOption) http.Handler {
	t.Helper()
	b, err := ratelimiter.NewBucket(newMemoryStore(t, newFakeClock()), ratelimiter.Config{
		Capacity:       2,
		RefillRate:     1,
		RefillInterval: time.Hour,
	})
	require.NoError(t, err)
	return ratelimiter.Middleware(b, ratelimiter.ByIP, opts...)(okHandler())
}

func requestFrom(ip string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/totp-auth/verify-totp", nil)
	r.RemoteAddr = ip + ":4242"
	return r
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("limits per ip and sets headers", func(t *testing.T) {
		t.Parallel()

		h := newLimitedHandler(t)

		for i := range 2 {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, requestFrom("10.0.0.1"))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, []string{"1", "0"}[i], w.Header().Get("X-RateLimit-Remaining"))
		}

		w := httptest.NewRecorder()
		h.ServeHTTP(w, requestFrom("10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

		w = httptest.NewRecorder()
		h.ServeHTTP(w, requestFrom("10.0.0.2"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("custom responder", func(t *testing.T) {
		t.Parallel()

		var called bool
		h := newLimitedHandler(t, ratelimiter.WithErrorResponder(func(w http.ResponseWriter, r *http.Request, res *ratelimiter.Result, err error) {
			called = true
			assert.NoError(t, err)
			require.NotNil(t, res)
			assert.False(t, res.Allowed())
			w.WriteHeader(http.StatusTeapot)
		}))

		var code int
		for range 3 {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, requestFrom("10.0.0.3"))
			code = w.Code
		}
		assert.True(t, called)
		assert.Equal(t, http.StatusTeapot, code)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		b, err := ratelimiter.NewBucket(failingStore{}, testConfig())
		require.NoError(t, err)
		h := ratelimiter.Middleware(b, ratelimiter.ByIP)(okHandler())

		w := httptest.NewRecorder()
		h.ServeHTTP(w, requestFrom("10.0.0.4"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("empty key passes through", func(t *testing.T) {
		t.Parallel()

		b, err := ratelimiter.NewBucket(failingStore{}, testConfig())
		require.NoError(t, err)
		h := ratelimiter.Middleware(b, func(*http.Request) string { return "" })(okHandler())

		w := httptest.NewRecorder()
		h.ServeHTTP(w, requestFrom("10.0.0.5"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestComposite(t *testing.T) {
	t.Parallel()

	fixed := func(s string) ratelimiter.KeyFunc {
		return func(*http.Request) string { return s }
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	tests := []struct {
		name  string
		funcs []ratelimiter.KeyFunc
		check func(t *testing.T, key string)
	}{
		{
			name:  "joins parts",
			funcs: []ratelimiter.KeyFunc{fixed("a"), fixed("b")},
			check: func(t *testing.T, key string) { assert.Equal(t, "a:b", key) },
		},
		{
			name:  "skips empty parts",
			funcs: []ratelimiter.KeyFunc{fixed(""), fixed("b")},
			check: func(t *testing.T, key string) { assert.Equal(t, "b", key) },
		},
		{
			name:  "all empty",
			funcs: []ratelimiter.KeyFunc{fixed(""), fixed("")},
			check: func(t *testing.T, key string) { assert.Empty(t, key) },
		},
		{
			name:  "hashes long keys",
			funcs: []ratelimiter.KeyFunc{fixed(strings.Repeat("x", 80))},
			check: func(t *testing.T, key string) {
				assert.LessOrEqual(t, len(key), 13)
				assert.NotContains(t, key, "x")
			},
		},
		{
			name:  "route and ip",
			funcs: []ratelimiter.KeyFunc{ratelimiter.ByRoute, fixed("1.2.3.4")},
			check: func(t *testing.T, key string) { assert.Equal(t, "GET /:1.2.3.4", key) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, ratelimiter.Composite(tt.funcs...)(r))
		})
	}
}

type failingStore struct{}

func (failingStore) ConsumeTokens(_ context.Context, _ string, _ int, _ ratelimiter.Config) (int, time.Time, error) {
	return 0, time.Time{}, errors.Join(ratelimiter.ErrStoreUnavailable, errors.New("down"))
}

func (failingStore) Reset(context.Context, string) error {
	return ratelimiter.ErrStoreUnavailable
}
