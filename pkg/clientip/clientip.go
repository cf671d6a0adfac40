package clientip

import (
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders is the lookup order used by GetIP: Cloudflare, then the
// standard forwarding headers. RemoteAddr is always the final fallback.
var DefaultHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

var defaultResolver = NewResolver(DefaultHeaders...)

// Resolver extracts the client address from a request, trusting only the
// configured headers. A Resolver without headers uses RemoteAddr only, which
// is the right choice when the service is not behind a proxy.
type Resolver struct {
	headers []string
}

// NewResolver returns a resolver that consults headers in the given order.
func NewResolver(headers ...string) *Resolver {
	hs := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			hs = append(hs, http.CanonicalHeaderKey(h))
		}
	}
	return &Resolver{headers: hs}
}

// GetIP resolves the client address with DefaultHeaders.
func GetIP(r *http.Request) string {
	return defaultResolver.IP(r)
}

// IP returns the first valid address found in the trusted headers or, failing
// that, in RemoteAddr. Comma-separated headers yield their first valid entry.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for part := range strings.SplitSeq(v, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// Middleware stores the resolved address in the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.IP(r))))
	})
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
