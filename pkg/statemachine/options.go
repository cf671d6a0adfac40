package statemachine

import "fmt"

// Option registers transitions while New builds a Machine.
type Option func(*Machine) error

// TransitionOption attaches guards or actions to one transition.
type TransitionOption func(*Transition)

// TransitionDef is a transition spelled out as a value, for WithTransitions.
type TransitionDef struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

// WithTransition registers from --event--> to.
func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	return func(m *Machine) error {
		var t Transition
		for _, opt := range opts {
			opt(&t)
		}
		return m.addTransition(from, to, event, t.Guards, t.Actions)
	}
}

// WithTransitions registers a whole table. The error names the failing row.
func WithTransitions(defs []TransitionDef) Option {
	return func(m *Machine) error {
		for i, d := range defs {
			if err := m.addTransition(d.From, d.To, d.Event, d.Guards, d.Actions); err != nil {
				return fmt.Errorf("transition[%d] %s -> %s on %s: %w", i, nameOf(d.From), nameOf(d.To), nameOf(d.Event), err)
			}
		}
		return nil
	}
}

// WithGuard appends guards; nil entries are skipped.
func WithGuard(guards ...Guard) TransitionOption {
	return func(t *Transition) {
		for _, g := range guards {
			if g != nil {
				t.Guards = append(t.Guards, g)
			}
		}
	}
}

// WithAction appends actions, run in order; nil entries are skipped.
func WithAction(actions ...Action) TransitionOption {
	return func(t *Transition) {
		for _, a := range actions {
			if a != nil {
				t.Actions = append(t.Actions, a)
			}
		}
	}
}

func nameOf(v interface{ Name() string }) string {
	if v == nil {
		return "<nil>"
	}
	return v.Name()
}
