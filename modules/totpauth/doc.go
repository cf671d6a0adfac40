// Package totpauth is the HTTP face of the enrollment service.
//
// Handle returns a chi router meant to be mounted at /totp-auth:
//
//	POST /generate-qr    issue secret, otpauth URI, QR image and recovery key
//	POST /setup          confirm the first code and store the credentials
//	POST /verify-totp    check a code against a caller-supplied secret
//	POST /verify-client  check a code against the stored secret
//	POST /deactivate     clear the credentials after a valid code
//	POST /recover        clear the credentials with the recovery key
//	GET  /status/{id}    report whether the client is enrolled
//	POST /send-email     render a template and send it (WithEmail only)
//
// Any other method or path answers 404. Every request first passes the
// per-IP rate limiter (WithRateLimiter) and then the Authenticator, which
// accepts a bearer token issued by pkg/jwt or the static X-API-Key.
//
// Responses use the {data, error} JSON envelope of package handler. A wrong
// code, a wrong recovery key and an unknown client all answer
// 400 verification_failed; the precise kind is only logged.
package totpauth
