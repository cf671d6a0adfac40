package email

import "errors"

var (
	ErrInvalidConfig = errors.New("email: invalid sender configuration")
	ErrInvalidParams = errors.New("email: invalid message parameters")

	// ErrFailedToSendEmail wraps every delivery failure, whichever sender is in use.
	ErrFailedToSendEmail = errors.New("email: delivery failed")
)
