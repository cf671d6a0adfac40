package enrollment

import (
	"context"
	"time"

	"github.com/dmitrymomot/totpauth/pkg/statemachine"
)

// Credentials is the complete second-factor tuple of an active client.
// The store persists it as a whole or not at all.
type Credentials struct {
	Secret       string // base32 TOTP secret
	RecoveryHash string // bcrypt(recovery key ‖ salt)
	RecoverySalt string
}

// Record is the persisted view of a client.
// The three credential fields are either all nil (inactive) or all set (active).
type Record struct {
	ClientID     string
	Secret       *string
	RecoveryHash *string
	RecoverySalt *string
	UpdatedAt    time.Time
}

// State derives the lifecycle state from field nullness.
// A partially populated record yields ErrInconsistentRecord.
func (r Record) State() (statemachine.State, error) {
	set := 0
	for _, f := range []*string{r.Secret, r.RecoveryHash, r.RecoverySalt} {
		if f != nil {
			set++
		}
	}

	switch set {
	case 0:
		return StateInactive, nil
	case 3:
		return StateActive, nil
	default:
		return nil, ErrInconsistentRecord
	}
}

// Credentials returns the stored tuple, or nil when the record is inactive or inconsistent.
func (r Record) Credentials() *Credentials {
	if r.Secret == nil || r.RecoveryHash == nil || r.RecoverySalt == nil {
		return nil
	}
	return &Credentials{
		Secret:       *r.Secret,
		RecoveryHash: *r.RecoveryHash,
		RecoverySalt: *r.RecoverySalt,
	}
}

// Store persists client credentials.
// Implementations must apply Update as one atomic statement and must not cache reads.
type Store interface {
	// Get returns the record for clientID or ErrClientNotFound.
	Get(ctx context.Context, clientID string) (Record, error)

	// Update sets all three credential fields from creds, or clears all three
	// when creds is nil. It returns the number of affected rows.
	Update(ctx context.Context, clientID string, creds *Credentials) (int64, error)

	// Clear nulls all three credential fields only while the stored recovery
	// hash still equals recoveryHash, in the same statement that checks it.
	// Zero rows means the client is gone or re-enrolled since it was read.
	Clear(ctx context.Context, clientID, recoveryHash string) (int64, error)
}
