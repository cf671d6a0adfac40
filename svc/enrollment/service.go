package enrollment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/totpauth/pkg/statemachine"
	"github.com/dmitrymomot/totpauth/pkg/totp"
)

// Enrollment is the result of Issue. RecoveryKey is shown once and never stored in plaintext.
type Enrollment struct {
	Secret      string
	URI         string
	QRCode      string // PNG data URL of URI
	RecoveryKey string
}

// ConfirmParams are the inputs of ConfirmSetup.
type ConfirmParams struct {
	ClientID    string
	Secret      string
	Code        string
	RecoveryKey string
}

// Validate reports the first missing or malformed field.
func (p ConfirmParams) Validate() error {
	switch {
	case strings.TrimSpace(p.ClientID) == "":
		return missing("client_id")
	case strings.TrimSpace(p.Secret) == "":
		return missing("secret")
	case strings.TrimSpace(p.Code) == "":
		return missing("code")
	case p.RecoveryKey == "":
		return missing("recovery_key")
	case totp.ValidateRecoveryKey(p.RecoveryKey) != nil:
		return malformed("recovery_key", fmt.Sprintf("must be 1 to %d letters or digits", totp.MaxRecoveryKeyLength))
	}
	return nil
}

// ClientStatus describes whether second-factor authentication is active for a client.
type ClientStatus struct {
	ClientID  string
	State     statemachine.State
	UpdatedAt time.Time
}

// Active reports whether the client has confirmed credentials.
func (s ClientStatus) Active() bool {
	return s.State == StateActive
}

// Service runs the enrollment lifecycle on top of a Store.
// It holds no per-client state and is safe for concurrent use; the store's
// single-statement updates are the only synchronization between requests.
type Service struct {
	store             Store
	codec             *Codec
	hasher            *totp.RecoveryHasher
	machine           *statemachine.Machine
	recoveryKeyLength int
	qrSize            int
	now               func() time.Time
}

// NewService creates the enrollment service. Zero recovery settings in cfg
// fall back to the package defaults of pkg/totp.
// Panics if store is nil.
func NewService(cfg totp.Config, store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		panic("enrollment: Store is required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.Join(ErrGeneration, totp.ErrMissingIssuer)
	}

	length := cfg.RecoveryKeyLength
	if length == 0 {
		length = totp.DefaultRecoveryKeyLength
	}
	if length < 0 || length > totp.MaxRecoveryKeyLength {
		return nil, errors.Join(ErrGeneration, totp.ErrInvalidRecoveryKeyLength)
	}

	cost := cfg.RecoveryHashCost
	if cost == 0 {
		cost = totp.DefaultRecoveryHashCost
	}
	hasher, err := totp.NewRecoveryHasher(cost)
	if err != nil {
		return nil, errors.Join(ErrHashing, err)
	}

	s := &Service{
		store:             store,
		hasher:            hasher,
		machine:           lifecycle(),
		recoveryKeyLength: length,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.codec = NewCodec(cfg.Issuer, s.qrSize)

	return s, nil
}

// Issue generates a fresh secret, its enrollment URI and image, and a
// recovery key. Nothing is persisted.
func (s *Service) Issue(ctx context.Context, label string) (*Enrollment, error) {
	start := time.Now()
	e, err := s.issue(label)
	observe(opIssue, start, err)
	return e, err
}

func (s *Service) issue(label string) (*Enrollment, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, missing("label")
	}

	key, err := s.codec.Generate(label)
	if err != nil {
		return nil, err
	}

	img, err := s.codec.RenderEnrollmentImage(key.URI)
	if err != nil {
		return nil, err
	}

	recoveryKey, err := totp.GenerateRecoveryKey(s.recoveryKeyLength)
	if err != nil {
		return nil, errors.Join(ErrGeneration, err)
	}

	return &Enrollment{
		Secret:      key.Secret,
		URI:         key.URI,
		QRCode:      img,
		RecoveryKey: recoveryKey,
	}, nil
}

// ConfirmSetup verifies code against the secret the client was just shown
// and, on success, stores {secret, recovery hash, fresh salt} in one update.
// Confirming while already active replaces the previous credentials.
func (s *Service) ConfirmSetup(ctx context.Context, p ConfirmParams) error {
	start := time.Now()
	err := s.confirmSetup(ctx, p)
	observe(opConfirm, start, err)
	return err
}

func (s *Service) confirmSetup(ctx context.Context, p ConfirmParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	clientID := strings.TrimSpace(p.ClientID)

	if err := s.verifyCode(p.Secret, p.Code); err != nil {
		return err
	}

	rec, err := s.load(ctx, clientID)
	if err != nil {
		return err
	}
	from, err := s.admit(ctx, rec, EventConfirm)
	if err != nil {
		return err
	}

	salt, err := totp.GenerateSalt()
	if err != nil {
		return errors.Join(ErrGeneration, err)
	}
	hash, err := s.hasher.Hash(p.RecoveryKey, salt)
	if err != nil {
		return errors.Join(ErrHashing, err)
	}

	rows, err := s.store.Update(ctx, clientID, &Credentials{
		Secret:       strings.ToUpper(strings.TrimSpace(p.Secret)),
		RecoveryHash: hash,
		RecoverySalt: salt,
	})
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	if rows == 0 {
		return ErrClientNotFound
	}
	s.commit(ctx, from, EventConfirm, rec)
	return nil
}

// VerifyOnly checks code against a caller-supplied secret. Storage is not consulted.
func (s *Service) VerifyOnly(ctx context.Context, secret, code string) error {
	start := time.Now()
	err := s.verifyOnly(secret, code)
	observe(opVerify, start, err)
	return err
}

func (s *Service) verifyOnly(secret, code string) error {
	if strings.TrimSpace(secret) == "" {
		return missing("secret")
	}
	if strings.TrimSpace(code) == "" {
		return missing("code")
	}
	return s.verifyCode(secret, code)
}

// VerifyStored checks code against the secret stored for clientID.
func (s *Service) VerifyStored(ctx context.Context, clientID, code string) error {
	start := time.Now()
	err := s.verifyStored(ctx, clientID, code)
	observe(opVerifyStored, start, err)
	return err
}

func (s *Service) verifyStored(ctx context.Context, clientID, code string) error {
	if strings.TrimSpace(clientID) == "" {
		return missing("client_id")
	}
	if strings.TrimSpace(code) == "" {
		return missing("code")
	}

	rec, err := s.load(ctx, strings.TrimSpace(clientID))
	if err != nil {
		return err
	}
	from, err := s.admit(ctx, rec, EventVerify)
	if err != nil {
		return err
	}
	if err := s.verifyCode(*rec.Secret, code); err != nil {
		return err
	}
	s.commit(ctx, from, EventVerify, rec)
	return nil
}

// Deactivate clears the stored credentials after verifying a current code.
// An inactive client yields ErrPreconditionMissing.
func (s *Service) Deactivate(ctx context.Context, clientID, code string) error {
	start := time.Now()
	err := s.deactivate(ctx, clientID, func(c *Credentials) error {
		if strings.TrimSpace(code) == "" {
			return missing("code")
		}
		return s.verifyCode(c.Secret, code)
	})
	observe(opDeactivate, start, err)
	return err
}

// DeactivateWithRecovery clears the stored credentials using the recovery key
// instead of a code, for clients that lost their authenticator.
func (s *Service) DeactivateWithRecovery(ctx context.Context, clientID, recoveryKey string) error {
	start := time.Now()
	err := s.deactivate(ctx, clientID, func(c *Credentials) error {
		if recoveryKey == "" {
			return missing("recovery_key")
		}
		if !s.hasher.Verify(recoveryKey, c.RecoverySalt, c.RecoveryHash) {
			return ErrInvalidRecoveryKey
		}
		return nil
	})
	observe(opDeactivateWithRecovery, start, err)
	return err
}

func (s *Service) deactivate(ctx context.Context, clientID string, prove func(*Credentials) error) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return missing("client_id")
	}

	rec, err := s.load(ctx, clientID)
	if err != nil {
		return err
	}
	from, err := s.admit(ctx, rec, EventDeactivate)
	if err != nil {
		return err
	}

	creds := rec.Credentials()
	if err := prove(creds); err != nil {
		return err
	}

	// The proof holds for the tuple that was read; a concurrent re-enrollment
	// replaces the hash and makes the clear a no-op.
	rows, err := s.store.Clear(ctx, clientID, creds.RecoveryHash)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	if rows == 0 {
		return ErrStoreUpdateFailed
	}
	s.commit(ctx, from, EventDeactivate, rec)
	return nil
}

// Status reports the lifecycle state stored for clientID.
func (s *Service) Status(ctx context.Context, clientID string) (ClientStatus, error) {
	start := time.Now()
	st, err := s.status(ctx, clientID)
	observe(opStatus, start, err)
	return st, err
}

func (s *Service) status(ctx context.Context, clientID string) (ClientStatus, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return ClientStatus{}, missing("client_id")
	}

	rec, err := s.load(ctx, clientID)
	if err != nil {
		return ClientStatus{}, err
	}
	state, err := rec.State()
	if err != nil {
		return ClientStatus{}, err
	}
	return ClientStatus{ClientID: rec.ClientID, State: state, UpdatedAt: rec.UpdatedAt}, nil
}

func (s *Service) load(ctx context.Context, clientID string) (Record, error) {
	rec, err := s.store.Get(ctx, clientID)
	switch {
	case errors.Is(err, ErrClientNotFound):
		return Record{}, ErrClientNotFound
	case err != nil:
		return Record{}, errors.Join(ErrStore, err)
	}
	return rec, nil
}

// admit checks that event is legal for the record before any work is done.
// Events without a transition from the current state mean the record is not
// in the state the operation requires.
func (s *Service) admit(ctx context.Context, rec Record, event statemachine.Event) (statemachine.State, error) {
	current, err := rec.State()
	if err != nil {
		return nil, err
	}
	if !s.machine.CanFire(ctx, current, event, rec) {
		return nil, ErrPreconditionMissing
	}
	return current, nil
}

// commit fires event once the operation has taken effect, so transition
// actions only ever see completed operations. admit already resolved the
// transition and the lifecycle actions cannot fail.
func (s *Service) commit(ctx context.Context, from statemachine.State, event statemachine.Event, rec Record) {
	_, _ = s.machine.Fire(ctx, from, event, rec)
}

func (s *Service) verifyCode(secret, code string) error {
	ok, err := totp.ValidateTOTPAt(secret, code, s.now())
	switch {
	case errors.Is(err, totp.ErrMissingSecret):
		return missing("secret")
	case errors.Is(err, totp.ErrInvalidSecret):
		return ErrInvalidSecretFormat
	case errors.Is(err, totp.ErrInvalidOTP):
		return ErrInvalidCode
	case err != nil:
		return errors.Join(ErrInvalidSecretFormat, err)
	case !ok:
		return ErrInvalidCode
	}
	return nil
}
