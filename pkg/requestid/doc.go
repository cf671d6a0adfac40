// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a client supplied X-Request-ID when it is at most 128
// characters of [a-zA-Z0-9_-]; otherwise a UUIDv7 is generated. The id is
// echoed in the response header, stored in the context (FromContext) and
// picked up by structured logs through LoggerExtractor.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
package requestid
