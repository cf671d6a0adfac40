// Package pgstore persists enrollment credentials in PostgreSQL through pgx.
//
// Every write is one UPDATE statement, so concurrent confirm and deactivate
// calls for the same client serialize on the row lock and the clients table
// CHECK constraint rejects any partially populated tuple. Deactivation clears
// with a compare-and-set on the recovery hash it verified against.
package pgstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/totpauth/pkg/pg"
	"github.com/dmitrymomot/totpauth/pkg/totp"
	"github.com/dmitrymomot/totpauth/svc/enrollment"
)

var (
	ErrSealSecret   = errors.New("failed to seal totp secret")
	ErrUnsealSecret = errors.New("failed to unseal totp secret")
)

const (
	getClientQuery = `SELECT id, totp_secret, recovery_hash, recovery_salt, updated_at FROM clients WHERE id = $1`

	setCredentialsQuery = `UPDATE clients
SET totp_secret = $2, recovery_hash = $3, recovery_salt = $4, updated_at = now()
WHERE id = $1`

	clearCredentialsQuery = `UPDATE clients
SET totp_secret = NULL, recovery_hash = NULL, recovery_salt = NULL, updated_at = now()
WHERE id = $1`

	clearIfUnchangedQuery = `UPDATE clients
SET totp_secret = NULL, recovery_hash = NULL, recovery_salt = NULL, updated_at = now()
WHERE id = $1 AND recovery_hash = $2`

	addClientQuery = `INSERT INTO clients (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`
)

// DB is the subset of *pgxpool.Pool (and pgx.Tx) the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements enrollment.Store.
type Store struct {
	db     DB
	sealer *totp.Sealer
}

// Option configures a Store.
type Option func(*Store)

// WithSealer encrypts TOTP secrets before they are written and decrypts them on read.
func WithSealer(s *totp.Sealer) Option {
	return func(st *Store) {
		st.sealer = s
	}
}

// New creates a Store on top of db.
func New(db DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get loads the client row.
func (s *Store) Get(ctx context.Context, clientID string) (enrollment.Record, error) {
	var (
		rec       enrollment.Record
		updatedAt time.Time
	)
	err := s.db.QueryRow(ctx, getClientQuery, clientID).
		Scan(&rec.ClientID, &rec.Secret, &rec.RecoveryHash, &rec.RecoverySalt, &updatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return enrollment.Record{}, enrollment.ErrClientNotFound
		}
		return enrollment.Record{}, err
	}
	rec.UpdatedAt = updatedAt.UTC()

	if s.sealer != nil && rec.Secret != nil {
		plain, err := s.sealer.Open(*rec.Secret)
		if err != nil {
			return enrollment.Record{}, errors.Join(ErrUnsealSecret, err)
		}
		rec.Secret = &plain
	}

	return rec, nil
}

// Update sets or clears the credential tuple with a single statement.
func (s *Store) Update(ctx context.Context, clientID string, creds *enrollment.Credentials) (int64, error) {
	var (
		tag pgconn.CommandTag
		err error
	)

	if creds == nil {
		tag, err = s.db.Exec(ctx, clearCredentialsQuery, clientID)
	} else {
		secret := creds.Secret
		if s.sealer != nil {
			if secret, err = s.sealer.Seal(secret); err != nil {
				return 0, errors.Join(ErrSealSecret, err)
			}
		}
		tag, err = s.db.Exec(ctx, setCredentialsQuery, clientID, secret, creds.RecoveryHash, creds.RecoverySalt)
	}

	if err != nil {
		if pg.IsCheckViolationError(err) {
			return 0, errors.Join(enrollment.ErrInconsistentRecord, err)
		}
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Clear nulls the tuple only if recovery_hash still equals recoveryHash.
// The hash is compared rather than the secret because sealed secrets differ
// on every write.
func (s *Store) Clear(ctx context.Context, clientID, recoveryHash string) (int64, error) {
	tag, err := s.db.Exec(ctx, clearIfUnchangedQuery, clientID, recoveryHash)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// AddClient registers an inactive client. Existing rows are left untouched.
func (s *Store) AddClient(ctx context.Context, clientID string) error {
	_, err := s.db.Exec(ctx, addClientQuery, clientID)
	return err
}
