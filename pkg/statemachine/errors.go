package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("statemachine: transition needs from, to and event")
	ErrInvalidEvent      = errors.New("statemachine: event is nil")
	ErrInvalidState      = errors.New("statemachine: current state is nil")

	// ErrNoTransition is returned when no transition is registered for the
	// state and event pair.
	ErrNoTransition = errors.New("statemachine: no transition available")

	// ErrRejected is returned when transitions exist but every guard refused.
	ErrRejected = errors.New("statemachine: transition rejected by guards")
)

func noTransition(state, event string) error {
	return fmt.Errorf("%w: state %q, event %q", ErrNoTransition, state, event)
}

func rejected(state, event string) error {
	return fmt.Errorf("%w: state %q, event %q", ErrRejected, state, event)
}

// IsNoTransitionAvailableError reports whether err wraps ErrNoTransition.
func IsNoTransitionAvailableError(err error) bool {
	return errors.Is(err, ErrNoTransition)
}

// IsTransitionRejectedError reports whether err wraps ErrRejected.
func IsTransitionRejectedError(err error) bool {
	return errors.Is(err, ErrRejected)
}
