package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/totpauth/pkg/clientip"
)

func TestResolver_IP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resolver *clientip.Resolver
		headers  map[string]string
		remote   string
		want     string
	}{
		{
			name:     "remote addr only",
			resolver: clientip.NewResolver(),
			headers:  map[string]string{"X-Forwarded-For": "1.1.1.1"},
			remote:   "10.0.0.1:1234",
			want:     "10.0.0.1",
		},
		{
			name:     "first valid forwarded entry",
			resolver: clientip.NewResolver("x-forwarded-for"),
			headers:  map[string]string{"X-Forwarded-For": "garbage, 203.0.113.7, 10.0.0.2"},
			remote:   "10.0.0.1:1234",
			want:     "203.0.113.7",
		},
		{
			name:     "header order respected",
			resolver: clientip.NewResolver(clientip.DefaultHeaders...),
			headers:  map[string]string{"X-Real-IP": "198.51.100.1", "CF-Connecting-IP": "198.51.100.2"},
			remote:   "10.0.0.1:1234",
			want:     "198.51.100.2",
		},
		{
			name:     "invalid headers fall back",
			resolver: clientip.NewResolver(clientip.DefaultHeaders...),
			headers:  map[string]string{"X-Real-IP": "not-an-ip"},
			remote:   "[2001:db8::1]:443",
			want:     "2001:db8::1",
		},
		{
			name:     "remote without port",
			resolver: clientip.NewResolver(),
			remote:   "192.0.2.9",
			want:     "192.0.2.9",
		},
		{
			name:     "nothing valid",
			resolver: clientip.NewResolver(),
			remote:   "pipe",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, tt.resolver.IP(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	h := clientip.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.1.1.1:80"
	r.Header.Set("X-Forwarded-For", "203.0.113.10")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "203.0.113.10", got)
	assert.Empty(t, clientip.FromContext(r.Context()))
}
