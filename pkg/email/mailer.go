package email

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// EmailSender represents an interface for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// emailRegex is a pragmatic address check, not a full RFC 5322 parser.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	From     string `json:"from,omitempty"` // Optional sender override
	SendTo   string `json:"send_to"`        // Email address of the recipient
	Subject  string `json:"subject"`        // Subject of the email
	BodyHTML string `json:"body_html"`      // HTML body of the email
	Tag      string `json:"tag,omitempty"`  // Optional
}

// Validate checks the parameters before anything is handed to a transport.
func (p SendEmailParams) Validate() error {
	sendTo := strings.TrimSpace(p.SendTo)
	if sendTo == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if !emailRegex.MatchString(sendTo) {
		return fmt.Errorf("%w: SendTo must be a valid email address", ErrInvalidParams)
	}
	if from := strings.TrimSpace(p.From); from != "" && !emailRegex.MatchString(from) {
		return fmt.Errorf("%w: From must be a valid email address", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.BodyHTML) == "" {
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	return nil
}
