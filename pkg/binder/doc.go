// Package binder decodes HTTP requests into typed structs for handler.Wrap.
//
//   - JSON: strict application/json decoding with a 64KB limit
//   - Path: string path parameters via a router extractor such as chi.URLParam
//
// Failures wrap ErrFailedToParseJSON, ErrUnsupportedMediaType,
// ErrMissingContentType or ErrFailedToParsePath.
package binder
