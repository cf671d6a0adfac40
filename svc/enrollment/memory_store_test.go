package enrollment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpauth/svc/enrollment"
	"github.com/dmitrymomot/totpauth/svc/enrollment/storetest"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := enrollment.NewMemoryStore("client-1")

	rec, err := store.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "client-1", rec.ClientID)
	assert.Nil(t, rec.Secret)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, enrollment.ErrClientNotFound)

	rows, err := store.Update(ctx, "missing", nil)
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = store.Update(ctx, "client-1", &enrollment.Credentials{Secret: "S", RecoveryHash: "H", RecoverySalt: "N"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rec, err = store.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, &enrollment.Credentials{Secret: "S", RecoveryHash: "H", RecoverySalt: "N"}, rec.Credentials())

	// Returned records are copies.
	*rec.Secret = "tampered"
	again, err := store.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "S", *again.Secret)

	rows, err = store.Update(ctx, "client-1", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	rec, err = store.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Nil(t, rec.Credentials())
}

func TestMemoryStore_AddClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := enrollment.NewMemoryStore()
	store.AddClient("client-1")

	_, err := store.Update(ctx, "client-1", &enrollment.Credentials{Secret: "S", RecoveryHash: "H", RecoverySalt: "N"})
	require.NoError(t, err)

	store.AddClient("client-1")
	rec, err := store.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.NotNil(t, rec.Secret, "re-adding must not reset an existing client")
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	t.Parallel()
	store := enrollment.NewMemoryStore("client-1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, "client-1")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Update(ctx, "client-1", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecord_State(t *testing.T) {
	t.Parallel()
	s := "x"
	tests := []struct {
		name    string
		rec     enrollment.Record
		want    any
		wantErr bool
	}{
		{name: "all nil", rec: enrollment.Record{}, want: enrollment.StateInactive},
		{name: "all set", rec: enrollment.Record{Secret: &s, RecoveryHash: &s, RecoverySalt: &s}, want: enrollment.StateActive},
		{name: "secret only", rec: enrollment.Record{Secret: &s}, wantErr: true},
		{name: "hash and salt only", rec: enrollment.Record{RecoveryHash: &s, RecoverySalt: &s}, wantErr: true},
		{name: "salt only", rec: enrollment.Record{RecoverySalt: &s}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.rec.State()
			if tt.wantErr {
				assert.ErrorIs(t, err, enrollment.ErrInconsistentRecord)
				assert.Nil(t, tt.rec.Credentials())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryStore_Contract(t *testing.T) {
	t.Parallel()
	storetest.Run(t, func(t *testing.T, clients ...string) enrollment.Store {
		return enrollment.NewMemoryStore(clients...)
	})
}
