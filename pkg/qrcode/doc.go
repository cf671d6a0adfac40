// Package qrcode renders QR code images as raw PNG bytes or as data URLs that
// can be embedded directly into HTML or JSON responses.
//
// The package is a thin wrapper around github.com/skip2/go-qrcode.
//
//   • Generate validates the input and returns a PNG image.
//   • GenerateBase64Image returns the same image as a data URL.
//   • GenerateOTPAuthImage accepts only otpauth://totp URIs and encodes them
//     with a higher error correction level for authenticator enrollment.
//
// # Usage
//
//	img, err := qrcode.GenerateOTPAuthImage(key.URI, 256)
//	if err != nil {
//		// handle error
//	}
//
// # Error Handling
//
// ErrEmptyContent, ErrNotOTPAuthURI and ErrFailedToGenerate are sentinels;
// compare with errors.Is.
package qrcode
