package totpauth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/totpauth/handler"
	"github.com/dmitrymomot/totpauth/pkg/email"
	"github.com/dmitrymomot/totpauth/pkg/email/templates"
	"github.com/dmitrymomot/totpauth/svc/enrollment"
)

// ErrVerificationFailed is the single external answer for a wrong code, a
// wrong recovery key, an unknown client and a client with nothing to verify
// against, so responses never reveal which client ids exist or are enrolled.
var ErrVerificationFailed = handler.HTTPError{Code: http.StatusBadRequest, Key: "verification_failed", Message: "verification failed"}

var (
	ErrMissingInput        = handler.HTTPError{Code: http.StatusBadRequest, Key: string(enrollment.KindMissingInput)}
	ErrInvalidSecretFormat = handler.HTTPError{Code: http.StatusBadRequest, Key: string(enrollment.KindInvalidSecretFormat), Message: "secret is not valid base32"}
	ErrUpdateNotApplied    = handler.HTTPError{Code: http.StatusConflict, Key: string(enrollment.KindStoreUpdateFailed), Message: "credentials changed while the request was processed, retry"}
)

var (
	ErrInvalidEmail        = handler.HTTPError{Code: http.StatusBadRequest, Key: "invalid_email_params"}
	ErrInvalidTemplateName = handler.HTTPError{Code: http.StatusBadRequest, Key: "invalid_template_name", Message: "template name is invalid"}
	ErrTemplateNotFound    = handler.HTTPError{Code: http.StatusNotFound, Key: "template_not_found", Message: "template not found"}
	ErrEmailDelivery       = handler.HTTPError{Code: http.StatusBadGateway, Key: "email_delivery_failed", Message: "failed to send email"}
)

var (
	ErrInvalidCredentials = handler.HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized", Message: "missing or invalid caller credentials"}
	ErrInvalidAPIKey      = handler.HTTPError{Code: http.StatusForbidden, Key: "forbidden", Message: "invalid API key"}
	ErrInsufficientScope  = handler.HTTPError{Code: http.StatusForbidden, Key: "forbidden", Message: "token scope does not allow this operation"}
)

// toHTTPError maps enrollment kinds to the external error contract.
// Only enrollment.Error messages are passed through; they never carry
// secrets or codes.
func toHTTPError(err error) handler.HTTPError {
	switch enrollment.KindOf(err) {
	case enrollment.KindInvalidCode, enrollment.KindInvalidRecoveryKey,
		enrollment.KindClientNotFound, enrollment.KindPreconditionMissing:
		return ErrVerificationFailed
	case enrollment.KindMissingInput:
		var e *enrollment.Error
		if errors.As(err, &e) {
			return ErrMissingInput.WithMessage(e.Message)
		}
		return ErrMissingInput
	case enrollment.KindInvalidSecretFormat:
		return ErrInvalidSecretFormat
	case enrollment.KindStoreUpdateFailed:
		return ErrUpdateNotApplied
	default:
		return handler.ErrInternalServerError
	}
}

func renderHTTPError(err error) handler.HTTPError {
	switch {
	case errors.Is(err, templates.ErrInvalidTemplateName):
		return ErrInvalidTemplateName
	case errors.Is(err, templates.ErrTemplateNotFound):
		return ErrTemplateNotFound
	default:
		return handler.ErrInternalServerError
	}
}

func sendHTTPError(err error) handler.HTTPError {
	if errors.Is(err, email.ErrInvalidParams) {
		return ErrInvalidEmail.WithMessage(strings.TrimPrefix(err.Error(), email.ErrInvalidParams.Error()+": "))
	}
	return ErrEmailDelivery
}
