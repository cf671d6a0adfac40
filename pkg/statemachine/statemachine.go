package statemachine

import "context"

// State is anything with a stable name. The name is what the transition table
// is keyed by.
type State interface {
	Name() string
}

// Event triggers a transition.
type Event interface {
	Name() string
}

// Action runs while a transition fires. An error aborts the transition and
// Fire returns it wrapped.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Guard decides at fire time whether a candidate transition applies.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Transition is one row of the table. Every guard must pass; actions then run
// in order before the target state is returned.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

// StringState is a State named by its value.
type StringState string

func (s StringState) Name() string { return string(s) }

// StringEvent is an Event named by its value.
type StringEvent string

func (e StringEvent) Name() string { return string(e) }
