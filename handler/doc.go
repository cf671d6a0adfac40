// Package handler provides typed HTTP handlers that bind a request struct,
// call a function and render a JSON response.
//
//	type VerifyRequest struct {
//		Secret string `json:"secret"`
//		Code   string `json:"code"`
//	}
//
//	r.Post("/verify-totp", handler.Wrap(verify,
//		handler.WithBinders(binder.JSON()),
//		handler.WithErrorHandler(handler.NewErrorHandler(log)),
//	))
//
// Responses use one envelope:
//
//	{"data": ..., "meta": {...}, "error": {"code": "...", "message": "..."}}
//
// HTTPError carries the status code and the stable error key. Any other error
// is rendered as a 500 without exposing its text. Classify maps binder errors
// to 400/415.
package handler
