package enrollment

import (
	"context"

	"github.com/dmitrymomot/totpauth/pkg/statemachine"
)

// States of a client credential record.
const (
	StateInactive = statemachine.StringState("inactive")
	StateActive   = statemachine.StringState("active")
)

// Lifecycle events.
const (
	EventConfirm    = statemachine.StringEvent("confirm")
	EventDeactivate = statemachine.StringEvent("deactivate")
	EventVerify     = statemachine.StringEvent("verify")
)

// lifecycle is the only place that decides which operation is legal in which state.
// Issue and VerifyOnly never touch stored state and have no entry here.
// Fire receives the Record the operation loaded.
func lifecycle() *statemachine.Machine {
	count := statemachine.WithAction(countTransition)
	proven := statemachine.WithGuard(hasCredentials)
	return statemachine.MustNew(
		statemachine.WithTransition(StateInactive, StateActive, EventConfirm, count),
		statemachine.WithTransition(StateActive, StateActive, EventConfirm, count),
		statemachine.WithTransition(StateActive, StateInactive, EventDeactivate, proven, count),
		statemachine.WithTransition(StateActive, StateActive, EventVerify, proven, count),
	)
}

// hasCredentials admits operations that prove against the stored tuple.
func hasCredentials(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
	rec, ok := data.(Record)
	return ok && rec.Credentials() != nil
}
