package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParsePath    = errors.New("failed to parse path parameters")
	ErrMissingContentType   = errors.New("missing content type")
	ErrInvalidTarget        = errors.New("binding target must be a non-nil pointer to struct")

	// ErrBinderNotApplicable lets a binder step aside when the request carries
	// nothing for it; handler.Wrap skips it.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)
