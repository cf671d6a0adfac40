package totpauth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrymomot/totpauth/handler"
	"github.com/dmitrymomot/totpauth/pkg/jwt"
)

const (
	// APIKeyHeader carries the legacy static API key.
	APIKeyHeader = "X-API-Key"
	// Scope is required in caller tokens that carry a scope claim.
	Scope = "totp"
	// APIKeyCaller is the caller name recorded for static API key requests.
	APIKeyCaller = "api_key"
)

type callerKey struct{}

// CallerFromContext returns the authenticated caller: the token subject or
// APIKeyCaller.
func CallerFromContext(ctx context.Context) string {
	caller, _ := ctx.Value(callerKey{}).(string)
	return caller
}

// Authenticator verifies the caller before anything else runs.
// A request authenticates with "Authorization: Bearer <token>" or, when a
// static key is configured, with X-API-Key. Without either mechanism
// configured every request is rejected.
type Authenticator struct {
	tokens *jwt.Service
	apiKey []byte
}

// NewAuthenticator creates an Authenticator. Either argument may be empty.
func NewAuthenticator(tokens *jwt.Service, apiKey string) *Authenticator {
	a := &Authenticator{tokens: tokens}
	if apiKey != "" {
		a.apiKey = []byte(apiKey)
	}
	return a
}

// Middleware rejects unauthenticated requests with 401 and a wrong API key or
// an insufficient token scope with 403.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := a.authenticate(r)
		if err != nil {
			_ = handler.JSONError(err).Render(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, caller)))
	})
}

func (a *Authenticator) authenticate(r *http.Request) (string, error) {
	if r.Header.Get("Authorization") != "" {
		if a.tokens == nil {
			return "", ErrInvalidCredentials
		}
		token, err := jwt.BearerTokenExtractor(r)
		if err != nil {
			return "", ErrInvalidCredentials
		}
		claims, err := a.tokens.Parse(token)
		if err != nil {
			return "", ErrInvalidCredentials
		}
		if claims.Scope != "" && !slices.Contains(strings.Fields(claims.Scope), Scope) {
			return "", ErrInsufficientScope
		}
		return claims.Subject, nil
	}

	if key := r.Header.Get(APIKeyHeader); key != "" {
		if len(a.apiKey) == 0 {
			return "", ErrInvalidCredentials
		}
		if subtle.ConstantTimeCompare([]byte(key), a.apiKey) != 1 {
			return "", ErrInvalidAPIKey
		}
		return APIKeyCaller, nil
	}

	return "", ErrInvalidCredentials
}
