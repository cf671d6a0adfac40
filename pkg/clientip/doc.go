// Package clientip resolves the originating client address of an HTTP request.
//
// The address keys per-client rate limits and is attached to operation logs.
// Only headers set by a trusted proxy should be consulted, so the lookup order
// is configurable:
//
//	res := clientip.NewResolver("X-Forwarded-For")
//	r.Use(res.Middleware)
//	...
//	ip := clientip.FromContext(r.Context())
//
// GetIP and Middleware use DefaultHeaders.
package clientip
