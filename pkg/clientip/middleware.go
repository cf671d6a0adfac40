package clientip

import "net/http"

// Middleware stores the client address resolved with DefaultHeaders in context.
func Middleware(next http.Handler) http.Handler {
	return defaultResolver.Middleware(next)
}
