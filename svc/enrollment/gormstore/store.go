// Package gormstore persists enrollment credentials with gorm, by default on
// an embedded SQLite database for single-node deployments.
package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmitrymomot/totpauth/pkg/totp"
	"github.com/dmitrymomot/totpauth/svc/enrollment"
)

var (
	ErrOpenDatabase = errors.New("failed to open sqlite database")
	ErrMigrate      = errors.New("failed to migrate clients table")
	ErrSealSecret   = errors.New("failed to seal totp secret")
	ErrUnsealSecret = errors.New("failed to unseal totp secret")
)

// client maps the clients table. The check constraint keeps the three
// credential columns jointly null or jointly set.
type client struct {
	ID           string  `gorm:"primaryKey"`
	TOTPSecret   *string `gorm:"column:totp_secret;check:(totp_secret IS NULL AND recovery_hash IS NULL AND recovery_salt IS NULL) OR (totp_secret IS NOT NULL AND recovery_hash IS NOT NULL AND recovery_salt IS NOT NULL)"`
	RecoveryHash *string `gorm:"column:recovery_hash"`
	RecoverySalt *string `gorm:"column:recovery_salt"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (client) TableName() string { return "clients" }

// Open opens (or creates) the SQLite database at path and migrates the clients table.
// SQLite allows one writer at a time, so the pool is limited to a single connection.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Join(ErrOpenDatabase, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Join(ErrOpenDatabase, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the clients table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&client{}); err != nil {
		return errors.Join(ErrMigrate, err)
	}
	return nil
}

// Store implements enrollment.Store on a gorm connection.
type Store struct {
	db     *gorm.DB
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

// New creates a Store. The clients table must already exist (see Open / Migrate).
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get loads the client row.
func (s *Store) Get(ctx context.Context, clientID string) (enrollment.Record, error) {
	var c client
	if err := s.db.WithContext(ctx).Where("id = ?", clientID).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return enrollment.Record{}, enrollment.ErrClientNotFound
		}
		return enrollment.Record{}, err
	}

	rec := enrollment.Record{
		ClientID:     c.ID,
		Secret:       c.TOTPSecret,
		RecoveryHash: c.RecoveryHash,
		RecoverySalt: c.RecoverySalt,
		UpdatedAt:    c.UpdatedAt.UTC(),
	}

	if s.sealer != nil && rec.Secret != nil {
		plain, err := s.sealer.Open(*rec.Secret)
		if err != nil {
			return enrollment.Record{}, errors.Join(ErrUnsealSecret, err)
		}
		rec.Secret = &plain
	}
	return rec, nil
}

// Update sets or clears all credential columns in one UPDATE statement.
func (s *Store) Update(ctx context.Context, clientID string, creds *enrollment.Credentials) (int64, error) {
	values := map[string]any{
		"totp_secret":   nil,
		"recovery_hash": nil,
		"recovery_salt": nil,
		"updated_at":    time.Now().UTC(),
	}

	if creds != nil {
		secret := creds.Secret
		if s.sealer != nil {
			var err error
			if secret, err = s.sealer.Seal(secret); err != nil {
				return 0, errors.Join(ErrSealSecret, err)
			}
		}
		values["totp_secret"] = secret
		values["recovery_hash"] = creds.RecoveryHash
		values["recovery_salt"] = creds.RecoverySalt
	}

	res := s.db.WithContext(ctx).Model(&client{}).Where("id = ?", clientID).Updates(values)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Clear nulls the tuple only if recovery_hash still equals recoveryHash.
func (s *Store) Clear(ctx context.Context, clientID, recoveryHash string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&client{}).
		Where("id = ? AND recovery_hash = ?", clientID, recoveryHash).
		Updates(map[string]any{
			"totp_secret":   nil,
			"recovery_hash": nil,
			"recovery_salt": nil,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// AddClient registers an inactive client. Existing rows are left untouched.
func (s *Store) AddClient(ctx context.Context, clientID string) error {
	return s.db.WithContext(ctx).
		Where(client{ID: clientID}).
		FirstOrCreate(&client{ID: clientID}).Error
}

// Ping checks that the underlying database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
