package pgstore_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpauth/db/migrations"
	"github.com/dmitrymomot/totpauth/pkg/pg"
	"github.com/dmitrymomot/totpauth/pkg/totp"
	"github.com/dmitrymomot/totpauth/svc/enrollment"
	"github.com/dmitrymomot/totpauth/svc/enrollment/pgstore"
	"github.com/dmitrymomot/totpauth/svc/enrollment/storetest"
)

// connect returns a migrated pool, or skips when PG_TEST_CONN_URL is not set.
func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("PG_TEST_CONN_URL")
	if url == "" {
		t.Skip("PG_TEST_CONN_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{
		ConnectionString: url,
		MaxOpenConns:     4,
		MaxIdleConns:     1,
		RetryAttempts:    1,
		MigrationsTable:  "schema_migrations",
	}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, pg.Migrate(ctx, pool, cfg, migrations.FS, log))
	return pool
}

// ids are prefixed per test so runs against a shared database do not collide.
func factory(pool *pgxpool.Pool, opts ...pgstore.Option) storetest.Factory {
	return func(t *testing.T, clients ...string) enrollment.Store {
		prefix := uuid.NewString() + "-"
		store := pgstore.New(pool, opts...)
		for _, id := range clients {
			require.NoError(t, store.AddClient(context.Background(), prefix+id))
		}
		return prefixed{store: store, prefix: prefix}
	}
}

type prefixed struct {
	store  enrollment.Store
	prefix string
}

func (p prefixed) Get(ctx context.Context, id string) (enrollment.Record, error) {
	rec, err := p.store.Get(ctx, p.prefix+id)
	if err == nil {
		rec.ClientID = id
	}
	return rec, err
}

func (p prefixed) Update(ctx context.Context, id string, creds *enrollment.Credentials) (int64, error) {
	return p.store.Update(ctx, p.prefix+id, creds)
}

func (p prefixed) Clear(ctx context.Context, id, recoveryHash string) (int64, error) {
	return p.store.Clear(ctx, p.prefix+id, recoveryHash)
}

func TestStore_Contract(t *testing.T) {
	pool := connect(t)
	storetest.Run(t, factory(pool))
}

func TestStore_SealedContract(t *testing.T) {
	pool := connect(t)
	key, err := totp.GenerateEncryptionKey()
	require.NoError(t, err)
	sealer, err := totp.NewSealer(key)
	require.NoError(t, err)

	storetest.Run(t, factory(pool, pgstore.WithSealer(sealer)))
}

func TestStore_SecretIsSealedAtRest(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	key, err := totp.GenerateEncryptionKey()
	require.NoError(t, err)
	sealer, err := totp.NewSealer(key)
	require.NoError(t, err)

	id := uuid.NewString()
	store := pgstore.New(pool, pgstore.WithSealer(sealer))
	require.NoError(t, store.AddClient(ctx, id))

	secret := "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
	_, err = store.Update(ctx, id, &enrollment.Credentials{Secret: secret, RecoveryHash: "H", RecoverySalt: "N"})
	require.NoError(t, err)

	var raw string
	require.NoError(t, pool.QueryRow(ctx, "SELECT totp_secret FROM clients WHERE id = $1", id).Scan(&raw))
	assert.NotEqual(t, secret, raw)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, secret, *rec.Secret)

	// A store without the key cannot read the plaintext back.
	other, err := pgstore.New(pool).Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, raw, *other.Secret)
}

func TestStore_CheckConstraintRejectsPartialTuple(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	id := uuid.NewString()
	store := pgstore.New(pool)
	require.NoError(t, store.AddClient(ctx, id))

	_, err := pool.Exec(ctx, "UPDATE clients SET totp_secret = 'S' WHERE id = $1", id)
	require.Error(t, err)
	assert.True(t, pg.IsCheckViolationError(err))
}
