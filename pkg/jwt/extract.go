package jwt

import (
	"net/http"
	"strings"
)

// BearerTokenExtractor returns the token of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerTokenExtractor(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
