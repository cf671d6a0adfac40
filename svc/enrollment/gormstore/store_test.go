package gormstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dmitrymomot/totpauth/pkg/totp"
	"github.com/dmitrymomot/totpauth/svc/enrollment"
	"github.com/dmitrymomot/totpauth/svc/enrollment/gormstore"
	"github.com/dmitrymomot/totpauth/svc/enrollment/storetest"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gormstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func factory(opts ...gormstore.Option) storetest.Factory {
	return func(t *testing.T, clients ...string) enrollment.Store {
		store := gormstore.New(openDB(t), opts...)
		for _, id := range clients {
			require.NoError(t, store.AddClient(context.Background(), id))
		}
		return store
	}
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()
	storetest.Run(t, factory())
}

func TestStore_SealedContract(t *testing.T) {
	t.Parallel()
	key, err := totp.GenerateEncryptionKey()
	require.NoError(t, err)
	sealer, err := totp.NewSealer(key)
	require.NoError(t, err)

	storetest.Run(t, factory(gormstore.WithSealer(sealer)))
}

func TestStore_SecretIsSealedAtRest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	key, err := totp.GenerateEncryptionKey()
	require.NoError(t, err)
	sealer, err := totp.NewSealer(key)
	require.NoError(t, err)

	store := gormstore.New(db, gormstore.WithSealer(sealer))
	require.NoError(t, store.AddClient(ctx, "client-1"))

	secret := "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
	_, err = store.Update(ctx, "client-1", &enrollment.Credentials{Secret: secret, RecoveryHash: "H", RecoverySalt: "N"})
	require.NoError(t, err)

	var raw string
	require.NoError(t, db.Raw("SELECT totp_secret FROM clients WHERE id = ?", "client-1").Scan(&raw).Error)
	assert.NotEqual(t, secret, raw)

	rec, err := store.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, secret, *rec.Secret)
}

func TestStore_CheckConstraintRejectsPartialTuple(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	store := gormstore.New(db)
	require.NoError(t, store.AddClient(ctx, "client-1"))

	err := db.Exec("UPDATE clients SET totp_secret = 'S' WHERE id = ?", "client-1").Error
	assert.Error(t, err)

	rec, err := store.Get(ctx, "client-1")
	require.NoError(t, err)
	_, err = rec.State()
	assert.NoError(t, err)
}

func TestStore_AddClientKeepsExisting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := gormstore.New(openDB(t))
	require.NoError(t, store.AddClient(ctx, "client-1"))

	_, err := store.Update(ctx, "client-1", &enrollment.Credentials{Secret: "S", RecoveryHash: "H", RecoverySalt: "N"})
	require.NoError(t, err)
	require.NoError(t, store.AddClient(ctx, "client-1"))

	rec, err := store.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.NotNil(t, rec.Secret)
}

func TestService_OnSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := gormstore.New(openDB(t))
	require.NoError(t, store.AddClient(ctx, "client-42"))

	svc, err := enrollment.NewService(totp.Config{Issuer: "Acme", RecoveryHashCost: 4}, store)
	require.NoError(t, err)

	e, err := svc.Issue(ctx, "alice")
	require.NoError(t, err)
	code, err := totp.GenerateTOTP(e.Secret)
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmSetup(ctx, enrollment.ConfirmParams{
		ClientID: "client-42", Secret: e.Secret, Code: code, RecoveryKey: e.RecoveryKey,
	}))
	st, err := svc.Status(ctx, "client-42")
	require.NoError(t, err)
	assert.True(t, st.Active())

	require.NoError(t, svc.DeactivateWithRecovery(ctx, "client-42", e.RecoveryKey))
	st, err = svc.Status(ctx, "client-42")
	require.NoError(t, err)
	assert.False(t, st.Active())
}

func TestStore_Ping(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	store := gormstore.New(db)
	require.NoError(t, store.Ping(context.Background()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.Error(t, store.Ping(context.Background()))
}
