// Package jwt issues and verifies the short-lived HS256 tokens callers
// present to the enrollment API, on top of github.com/golang-jwt/jwt/v5.
//
// Tokens carry jti (random UUID), sub, iss, aud, iat, nbf and exp. Parse
// requires exp, pins the algorithm to HS256 and checks issuer and audience
// when configured.
//
//	svc, err := jwt.New(jwt.Config{Secret: secret, Issuer: "totpauth", Audience: "totp-auth"})
//	if err != nil {
//	    return err
//	}
//	token, _, err := svc.Issue("billing-service", "totp", time.Hour)
//
//	raw, err := jwt.BearerTokenExtractor(r)
//	claims, err := svc.Parse(raw)
//
// # Error Handling
//
// Parse failures are classified into ErrExpiredToken, ErrInvalidSignature,
// ErrInvalidSigningMethod, ErrInvalidClaims or ErrInvalidToken, each joined
// with the library error. Use errors.Is.
package jwt
