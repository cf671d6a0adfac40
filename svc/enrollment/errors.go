package enrollment

import "errors"

// Kind is the stable machine-readable category of an enrollment failure.
type Kind string

const (
	KindGeneration          Kind = "generation_error"
	KindInvalidSecretFormat Kind = "invalid_secret_format"
	KindInvalidCode         Kind = "invalid_code"
	KindMissingInput        Kind = "missing_input"
	KindClientNotFound      Kind = "client_not_found"
	KindPreconditionMissing Kind = "precondition_missing"
	KindStoreUpdateFailed   Kind = "store_update_failed"
	KindHashing             Kind = "hashing_error"
	KindInvalidRecoveryKey  Kind = "invalid_recovery_key"
	KindInconsistentRecord  Kind = "inconsistent_record"
	KindStore               Kind = "store_error"
	KindInternal            Kind = "internal_error"
)

// Error is returned by every Service operation.
// Message is safe to show to callers: it never contains secrets, codes,
// recovery keys or hashes.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrInvalidCode)
// works regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrGeneration          = &Error{Kind: KindGeneration, Message: "failed to generate enrollment secret"}
	ErrInvalidSecretFormat = &Error{Kind: KindInvalidSecretFormat, Message: "secret is not valid base32"}
	ErrInvalidCode         = &Error{Kind: KindInvalidCode, Message: "verification code is invalid"}
	ErrMissingInput        = &Error{Kind: KindMissingInput, Message: "required input is missing"}
	ErrClientNotFound      = &Error{Kind: KindClientNotFound, Message: "client not found"}
	ErrPreconditionMissing = &Error{Kind: KindPreconditionMissing, Message: "two-factor authentication is not active for this client"}
	ErrStoreUpdateFailed   = &Error{Kind: KindStoreUpdateFailed, Message: "credential update was not applied"}
	ErrHashing             = &Error{Kind: KindHashing, Message: "failed to derive recovery key hash"}
	ErrInvalidRecoveryKey  = &Error{Kind: KindInvalidRecoveryKey, Message: "recovery key is invalid"}
	ErrInconsistentRecord  = &Error{Kind: KindInconsistentRecord, Message: "stored credentials are partially populated"}
	ErrStore               = &Error{Kind: KindStore, Message: "credential store failure"}
)

// KindOf returns the kind of the first *Error found in err's tree,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// missing reports a missing field while keeping the kind.
func missing(field string) error {
	return &Error{Kind: KindMissingInput, Message: field + " is required"}
}

// malformed reports a present but unusable field. It shares the missing
// input kind: both are caller errors fixed by resending the field.
func malformed(field, rule string) error {
	return &Error{Kind: KindMissingInput, Message: field + " " + rule}
}
