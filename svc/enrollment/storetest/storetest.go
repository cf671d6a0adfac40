// Package storetest holds the behavioural contract every enrollment.Store
// backend must satisfy. Backends call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpauth/svc/enrollment"
)

// Factory returns a fresh store in which every id of clients exists as an inactive client.
type Factory func(t *testing.T, clients ...string) enrollment.Store

// Run executes the contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("unknown client", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, enrollment.ErrClientNotFound)

		rows, err := store.Update(ctx, "missing", &enrollment.Credentials{Secret: "S", RecoveryHash: "H", RecoverySalt: "N"})
		require.NoError(t, err)
		assert.Zero(t, rows)
	})

	t.Run("new client is inactive", func(t *testing.T) {
		store := newStore(t, "client-1")

		rec, err := store.Get(context.Background(), "client-1")
		require.NoError(t, err)
		assert.Equal(t, "client-1", rec.ClientID)
		state, err := rec.State()
		require.NoError(t, err)
		assert.Equal(t, enrollment.StateInactive, state)
	})

	t.Run("activate and clear", func(t *testing.T) {
		store := newStore(t, "client-1")
		ctx := context.Background()
		creds := &enrollment.Credentials{
			Secret:       "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
			RecoveryHash: "$2a$04$hash",
			RecoverySalt: "00ff",
		}

		rows, err := store.Update(ctx, "client-1", creds)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		rec, err := store.Get(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, creds, rec.Credentials())
		assert.False(t, rec.UpdatedAt.IsZero())

		rows, err = store.Update(ctx, "client-1", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		rec, err = store.Get(ctx, "client-1")
		require.NoError(t, err)
		assert.Nil(t, rec.Secret)
		assert.Nil(t, rec.RecoveryHash)
		assert.Nil(t, rec.RecoverySalt)
	})

	t.Run("clear compares the recovery hash", func(t *testing.T) {
		store := newStore(t, "client-1")
		ctx := context.Background()

		rows, err := store.Clear(ctx, "client-1", "H1")
		require.NoError(t, err)
		assert.Zero(t, rows, "inactive client has nothing to clear")

		_, err = store.Update(ctx, "client-1", &enrollment.Credentials{Secret: "S1", RecoveryHash: "H1", RecoverySalt: "N1"})
		require.NoError(t, err)
		// re-enrolled after H1 was read
		_, err = store.Update(ctx, "client-1", &enrollment.Credentials{Secret: "S2", RecoveryHash: "H2", RecoverySalt: "N2"})
		require.NoError(t, err)

		rows, err = store.Clear(ctx, "client-1", "H1")
		require.NoError(t, err)
		assert.Zero(t, rows)

		rec, err := store.Get(ctx, "client-1")
		require.NoError(t, err)
		require.NotNil(t, rec.Credentials(), "stale clear must keep the new enrollment")
		assert.Equal(t, "S2", rec.Credentials().Secret)

		rows, err = store.Clear(ctx, "client-1", "H2")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		rec, err = store.Get(ctx, "client-1")
		require.NoError(t, err)
		assert.Nil(t, rec.Credentials())
		state, err := rec.State()
		require.NoError(t, err)
		assert.Equal(t, enrollment.StateInactive, state)

		rows, err = store.Clear(ctx, "missing", "H2")
		require.NoError(t, err)
		assert.Zero(t, rows)
	})

	t.Run("clients are isolated", func(t *testing.T) {
		store := newStore(t, "client-1", "client-2")
		ctx := context.Background()

		_, err := store.Update(ctx, "client-1", &enrollment.Credentials{Secret: "S", RecoveryHash: "H", RecoverySalt: "N"})
		require.NoError(t, err)

		rec, err := store.Get(ctx, "client-2")
		require.NoError(t, err)
		assert.Nil(t, rec.Secret)
	})

	t.Run("concurrent updates never mix tuples", func(t *testing.T) {
		store := newStore(t, "client-1")
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if i%4 == 0 {
					_, _ = store.Update(ctx, "client-1", nil)
					return
				}
				v := fmt.Sprint(i)
				_, _ = store.Update(ctx, "client-1", &enrollment.Credentials{Secret: "S" + v, RecoveryHash: "H" + v, RecoverySalt: "N" + v})
			}()
		}
		wg.Wait()

		rec, err := store.Get(ctx, "client-1")
		require.NoError(t, err)
		_, err = rec.State()
		require.NoError(t, err)
		if c := rec.Credentials(); c != nil {
			suffix := c.Secret[1:]
			assert.Equal(t, "H"+suffix, c.RecoveryHash)
			assert.Equal(t, "N"+suffix, c.RecoverySalt)
		}
	})
}
