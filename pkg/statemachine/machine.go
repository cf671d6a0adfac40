package statemachine

import (
	"context"
	"fmt"
)

// Machine is an immutable transition table.
// It does not own a current state: callers pass the state they loaded from
// storage and persist the state Fire returns. A single Machine can therefore
// be shared by any number of goroutines without locking.
type Machine struct {
	// [fromState][event][]Transition
	transitions map[string]map[string][]Transition
}

// New creates a machine from the given options.
func New(opts ...Option) (*Machine, error) {
	m := &Machine{transitions: make(map[string]map[string][]Transition)}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// MustNew is like New but panics when an option fails.
func MustNew(opts ...Option) *Machine {
	m, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

func (m *Machine) addTransition(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}

	byEvent, ok := m.transitions[from.Name()]
	if !ok {
		byEvent = make(map[string][]Transition)
		m.transitions[from.Name()] = byEvent
	}

	// Multiple transitions allowed for same from/event to support guard-based branching
	byEvent[event.Name()] = append(byEvent[event.Name()], Transition{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return nil
}

// Fire resolves the transition for event out of current and runs its actions.
// On success it returns the target state. On any error the caller must treat
// current as unchanged.
func (m *Machine) Fire(ctx context.Context, current State, event Event, data any) (State, error) {
	if current == nil {
		return nil, ErrInvalidState
	}
	if event == nil {
		return nil, ErrInvalidEvent
	}

	t, err := m.resolve(ctx, current, event, data)
	if err != nil {
		return nil, err
	}

	// Any failing action aborts the transition
	for _, action := range t.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, current, t.To, event, data); err != nil {
			return nil, fmt.Errorf("action failed: %w", err)
		}
	}

	return t.To, nil
}

// CanFire reports whether event has a transition out of current whose guards pass.
func (m *Machine) CanFire(ctx context.Context, current State, event Event, data any) bool {
	if current == nil || event == nil {
		return false
	}
	_, err := m.resolve(ctx, current, event, data)
	return err == nil
}

// resolve returns the first transition whose guards all pass.
func (m *Machine) resolve(ctx context.Context, current State, event Event, data any) (*Transition, error) {
	transitions := m.transitions[current.Name()][event.Name()]
	if len(transitions) == 0 {
		return nil, noTransition(current.Name(), event.Name())
	}

	for i, t := range transitions {
		if guardsPass(ctx, t.Guards, current, event, data) {
			return &transitions[i], nil
		}
	}

	return nil, rejected(current.Name(), event.Name())
}

func guardsPass(ctx context.Context, guards []Guard, current State, event Event, data any) bool {
	for _, guard := range guards {
		if guard != nil && !guard(ctx, current, event, data) {
			return false
		}
	}
	return true
}
