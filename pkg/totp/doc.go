// Package totp provides the primitives behind second-factor enrollment: shared
// secret generation and encoding, otpauth URI construction, time-based code
// validation, recovery key generation/hashing and at-rest sealing of secrets.
//
// Code generation and validation follow RFC 6238 and are delegated to
// github.com/pquerna/otp. Recovery keys are hashed with bcrypt from
// golang.org/x/crypto.
//
// # Architecture
//
//   • otp.go      – GenerateKey / NewKeyFromSecret build a Key (Base32 secret +
//     otpauth URI). EncodeSecret / DecodeSecret convert between raw bytes and
//     the Base32 text form. ValidateTOTPAt checks a 6-digit code for the step
//     containing a given time plus Skew steps on either side.
//
//   • recovery.go – GenerateRecoveryKey draws keys from a 62-symbol alphabet,
//     GenerateSalt creates per-enrollment salts and RecoveryHasher derives and
//     verifies bcrypt(key‖salt).
//
//   • aes256.go   – Sealer encrypts secrets with AES-256-GCM before they are
//     written to a database.
//
// Configuration lives in Config and is populated from TOTP_* environment
// variables by pkg/config.
//
// # Usage
//
//	key, err := totp.GenerateKey(totp.KeyParams{Issuer: "Acme", AccountName: "alice"})
//	if err != nil {
//	    return err
//	}
//	// show key.URI as a QR code, then later:
//	ok, err := totp.ValidateTOTP(key.Secret, "123456")
//
// # Error Handling
//
// Operations return package level sentinels (ErrInvalidSecret, ErrInvalidOTP,
// ErrInvalidHashCost, ...) that may be wrapped with errors.Join. Use errors.Is.
package totp
