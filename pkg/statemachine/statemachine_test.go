package statemachine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrymomot/totpauth/pkg/statemachine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	Inactive = statemachine.StringState("inactive")
	Active   = statemachine.StringState("active")
	Locked   = statemachine.StringState("locked")

	Confirm    = statemachine.StringEvent("confirm")
	Deactivate = statemachine.StringEvent("deactivate")
	Lock       = statemachine.StringEvent("lock")
)

func TestMachine_Fire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := statemachine.MustNew(
		statemachine.WithTransition(Inactive, Active, Confirm),
		statemachine.WithTransition(Active, Active, Confirm),
		statemachine.WithTransition(Active, Inactive, Deactivate),
	)

	tests := []struct {
		name    string
		current statemachine.State
		event   statemachine.Event
		want    statemachine.State
		noRoute bool
	}{
		{name: "inactive confirm", current: Inactive, event: Confirm, want: Active},
		{name: "active confirm", current: Active, event: Confirm, want: Active},
		{name: "active deactivate", current: Active, event: Deactivate, want: Inactive},
		{name: "inactive deactivate", current: Inactive, event: Deactivate, noRoute: true},
		{name: "unknown state", current: Locked, event: Confirm, noRoute: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := m.Fire(ctx, tt.current, tt.event, nil)
			if tt.noRoute {
				require.Error(t, err)
				assert.True(t, statemachine.IsNoTransitionAvailableError(err))
				assert.Nil(t, got)
				assert.False(t, m.CanFire(ctx, tt.current, tt.event, nil))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, m.CanFire(ctx, tt.current, tt.event, nil))
		})
	}
}

func TestMachine_NilArguments(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := statemachine.MustNew(statemachine.WithTransition(Inactive, Active, Confirm))

	_, err := m.Fire(ctx, nil, Confirm, nil)
	assert.ErrorIs(t, err, statemachine.ErrInvalidState)

	_, err = m.Fire(ctx, Inactive, nil, nil)
	assert.ErrorIs(t, err, statemachine.ErrInvalidEvent)

	assert.False(t, m.CanFire(ctx, nil, Confirm, nil))
	assert.False(t, m.CanFire(ctx, Inactive, nil, nil))
}

func TestMachine_Guards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	allowed := func(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
		ok, _ := data.(bool)
		return ok
	}

	m := statemachine.MustNew(
		statemachine.WithTransition(Active, Locked, Lock, statemachine.WithGuard(allowed)),
	)

	_, err := m.Fire(ctx, Active, Lock, false)
	require.Error(t, err)
	assert.True(t, statemachine.IsTransitionRejectedError(err))

	got, err := m.Fire(ctx, Active, Lock, true)
	require.NoError(t, err)
	assert.Equal(t, Locked, got)
}

func TestMachine_GuardBranching(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	isAdmin := func(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
		return data == "admin"
	}

	m := statemachine.MustNew(
		statemachine.WithTransitions([]statemachine.TransitionDef{
			{From: Active, To: Locked, Event: Deactivate, Guards: []statemachine.Guard{isAdmin}},
			{From: Active, To: Inactive, Event: Deactivate},
		}),
	)

	got, err := m.Fire(ctx, Active, Deactivate, "admin")
	require.NoError(t, err)
	assert.Equal(t, Locked, got)

	got, err = m.Fire(ctx, Active, Deactivate, "user")
	require.NoError(t, err)
	assert.Equal(t, Inactive, got)
}

func TestMachine_Actions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var calls []string
	record := func(name string) statemachine.Action {
		return func(_ context.Context, from, to statemachine.State, _ statemachine.Event, _ any) error {
			calls = append(calls, name+":"+from.Name()+"->"+to.Name())
			return nil
		}
	}
	errBoom := errors.New("boom")
	failing := func(context.Context, statemachine.State, statemachine.State, statemachine.Event, any) error {
		return errBoom
	}

	m := statemachine.MustNew(
		statemachine.WithTransition(Inactive, Active, Confirm,
			statemachine.WithAction(record("first"), record("second")),
		),
		statemachine.WithTransition(Active, Inactive, Deactivate, statemachine.WithAction(failing)),
	)

	got, err := m.Fire(ctx, Inactive, Confirm, nil)
	require.NoError(t, err)
	assert.Equal(t, Active, got)
	assert.Equal(t, []string{"first:inactive->active", "second:inactive->active"}, calls)

	got, err = m.Fire(ctx, Active, Deactivate, nil)
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, got)
}

func TestNew_InvalidTransition(t *testing.T) {
	t.Parallel()

	_, err := statemachine.New(statemachine.WithTransition(nil, Active, Confirm))
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)

	_, err = statemachine.New(statemachine.WithTransitions([]statemachine.TransitionDef{
		{From: Inactive, To: Active, Event: Confirm},
		{From: Inactive, To: nil, Event: Confirm},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transition[1] inactive-><nil> on confirm")

	assert.Panics(t, func() {
		statemachine.MustNew(statemachine.WithTransition(Inactive, Active, nil))
	})
}

func TestMachine_ConcurrentFire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := statemachine.MustNew(
		statemachine.WithTransition(Inactive, Active, Confirm),
		statemachine.WithTransition(Active, Inactive, Deactivate),
	)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				got, err := m.Fire(ctx, Inactive, Confirm, nil)
				assert.NoError(t, err)
				assert.Equal(t, Active, got)
				return
			}
			got, err := m.Fire(ctx, Active, Deactivate, nil)
			assert.NoError(t, err)
			assert.Equal(t, Inactive, got)
		}(i)
	}
	wg.Wait()
}
