package config

import "errors"

var (
	ErrParsingConfig  = errors.New("config: cannot parse environment into struct")
	ErrLoadingEnvFile = errors.New("config: cannot read env file")

	// ErrNilPointer is returned when Load or Parse receive a nil target.
	ErrNilPointer = errors.New("config: nil target")
)
